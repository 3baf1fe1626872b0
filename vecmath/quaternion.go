package vecmath

import "github.com/rivenshard/netcore/fp"

// Quaternion is a (mostly-assumed-)unit quaternion W + V over fp.Fixed.
// No runtime assertion of unit length is performed; callers that build
// quaternions from arbitrary axis/angle pairs are responsible for passing a
// normalized axis.
type Quaternion struct {
	W fp.Fixed
	V Vector
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: fp.One, V: VectorZero}
}

// FromAxisAngleRadians builds a quaternion representing a rotation of
// angleRadians around axis n (expected to be a unit vector).
func FromAxisAngleRadians(n Vector, angleRadians fp.Fixed) Quaternion {
	half := angleRadians.Div(fp.Two)
	return Quaternion{
		W: fp.Cos(half),
		V: n.Scale(fp.Sin(half)),
	}
}

// FromAxisAngleDegrees is FromAxisAngleRadians with the angle in degrees.
func FromAxisAngleDegrees(n Vector, angleDegrees fp.Fixed) Quaternion {
	return FromAxisAngleRadians(n, fp.DegreesToRadians(angleDegrees))
}

// Inverted returns the conjugate, which is the inverse for a unit
// quaternion.
func (q Quaternion) Inverted() Quaternion {
	return Quaternion{W: q.W, V: q.V.Neg()}
}

// Mul composes two rotations: the result applies other first, then q. The
// scalar term subtracts the dot product (standard Hamilton product); adding
// it instead breaks unit-length closure under composition.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		W: q.W.Mul(other.W).Sub(q.V.Dot(other.V)),
		V: q.V.Scale(other.W).Add(other.V.Scale(q.W)).Add(q.V.Cross(other.V)),
	}
}

// RotateVector rotates input by q using the optimized sandwich-product
// identity (equivalent to q * p * q^-1, expanded to avoid a full quaternion
// multiply).
func (q Quaternion) RotateVector(input Vector) Vector {
	vCrossInput := q.V.Cross(input)
	return input.
		Add(vCrossInput.Scale(fp.Two.Mul(q.W))).
		Add(q.V.Cross(vCrossInput).Scale(fp.Two))
}

// WriteCRC32 folds q's components into a running CRC32 hash: w, then v.
func (q Quaternion) WriteCRC32(h interface{ Write([]byte) (int, error) }) {
	q.W.WriteCRC32(h)
	q.V.WriteCRC32(h)
}
