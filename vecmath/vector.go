// Package vecmath provides deterministic 3D vector and quaternion math over
// fp.Fixed. Axis convention: +X forward, +Y right, +Z up.
package vecmath

import "github.com/rivenshard/netcore/fp"

// Vector is a 3-component value type over fp.Fixed.
type Vector struct {
	X, Y, Z fp.Fixed
}

// Zero, Forward, Right, Up and their opposites match spec's axis convention.
var (
	VectorZero     = Vector{}
	VectorForward  = Vector{X: fp.One}
	VectorBackward = Vector{X: fp.One.Neg()}
	VectorRight    = Vector{Y: fp.One}
	VectorLeft     = Vector{Y: fp.One.Neg()}
	VectorUp       = Vector{Z: fp.One}
	VectorDown     = Vector{Z: fp.One.Neg()}
)

// NewVector builds a Vector from three fixed-point components.
func NewVector(x, y, z fp.Fixed) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// Splat builds a Vector with all three components equal to v.
func Splat(v fp.Fixed) Vector {
	return Vector{X: v, Y: v, Z: v}
}

// Add returns the component-wise sum.
func (v Vector) Add(other Vector) Vector {
	return Vector{v.X.Add(other.X), v.Y.Add(other.Y), v.Z.Add(other.Z)}
}

// Sub returns the component-wise difference.
func (v Vector) Sub(other Vector) Vector {
	return Vector{v.X.Sub(other.X), v.Y.Sub(other.Y), v.Z.Sub(other.Z)}
}

// Neg returns the component-wise negation.
func (v Vector) Neg() Vector {
	return Vector{v.X.Neg(), v.Y.Neg(), v.Z.Neg()}
}

// Flipped is an alias for Neg, matching the collider/impact naming used
// elsewhere in the kernel ("flip the reciprocal viewpoint").
func (v Vector) Flipped() Vector {
	return v.Neg()
}

// Scale multiplies every component by a scalar.
func (v Vector) Scale(s fp.Fixed) Vector {
	return Vector{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

// Div divides every component by a scalar.
func (v Vector) Div(s fp.Fixed) Vector {
	return Vector{v.X.Div(s), v.Y.Div(s), v.Z.Div(s)}
}

// Dot returns the dot product.
func (v Vector) Dot(other Vector) fp.Fixed {
	return v.X.Mul(other.X).Add(v.Y.Mul(other.Y)).Add(v.Z.Mul(other.Z))
}

// Cross returns the cross product v x other.
func (v Vector) Cross(other Vector) Vector {
	return Vector{
		X: v.Y.Mul(other.Z).Sub(v.Z.Mul(other.Y)),
		Y: v.Z.Mul(other.X).Sub(v.X.Mul(other.Z)),
		Z: v.X.Mul(other.Y).Sub(v.Y.Mul(other.X)),
	}
}

// LengthSquared returns the squared length, avoiding a Sqrt call.
func (v Vector) LengthSquared() fp.Fixed {
	return v.Dot(v)
}

// Length returns the Euclidean length.
func (v Vector) Length() fp.Fixed {
	return fp.Sqrt(v.LengthSquared())
}

// DistanceSquared returns the squared distance between two points.
func DistanceSquared(a, b Vector) fp.Fixed {
	return b.Sub(a).LengthSquared()
}

// Distance returns the distance between two points.
func Distance(a, b Vector) fp.Fixed {
	return b.Sub(a).Length()
}

// Normalized returns a unit-length vector in the same direction, or the zero
// vector if v has zero length (matches spec's "length-zero returns zero
// vector" invariant, rather than dividing by zero).
func (v Vector) Normalized() Vector {
	length := v.Length()
	if length.IsZero() {
		return VectorZero
	}
	return v.Div(length)
}

// IsZero reports whether every component is exactly zero.
func (v Vector) IsZero() bool {
	return v.X.IsZero() && v.Y.IsZero() && v.Z.IsZero()
}

// IsNear reports whether v and other are within epsilon of each other on
// every axis.
func (v Vector) IsNear(other Vector, epsilon fp.Fixed) bool {
	return v.X.Sub(other.X).Abs().LessOrEqual(epsilon) &&
		v.Y.Sub(other.Y).Abs().LessOrEqual(epsilon) &&
		v.Z.Sub(other.Z).Abs().LessOrEqual(epsilon)
}

// IsOppositeDirectionTo reports whether v has a component opposite to other
// (equivalently, whether their dot product is negative).
func (v Vector) IsOppositeDirectionTo(other Vector) bool {
	return v.Dot(other).IsNegative()
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vector) Vector {
	return a.Add(b).Div(fp.Two)
}

// Lerp linearly interpolates between a and b by t (expected in [0,1], but
// not clamped).
func Lerp(a, b Vector, t fp.Fixed) Vector {
	return a.Add(b.Sub(a).Scale(t))
}

// PerpendicularProbe returns an arbitrary vector perpendicular to v. Used
// when a penetration axis must be picked but the natural "between two
// points" direction is degenerate (the points coincide).
func (v Vector) PerpendicularProbe() Vector {
	if v.IsZero() {
		return VectorUp
	}
	// Cross with the world axis least aligned with v to avoid a
	// near-parallel (and thus near-zero) cross product.
	absX, absY, absZ := v.X.Abs(), v.Y.Abs(), v.Z.Abs()
	var probeAxis Vector
	switch {
	case absX.LessOrEqual(absY) && absX.LessOrEqual(absZ):
		probeAxis = VectorForward
	case absY.LessOrEqual(absX) && absY.LessOrEqual(absZ):
		probeAxis = VectorRight
	default:
		probeAxis = VectorUp
	}
	result := v.Cross(probeAxis)
	if result.IsZero() {
		return VectorUp
	}
	return result.Normalized()
}

// WriteCRC32 folds v's components into a running CRC32 hash in
// field-declaration order (x, y, z).
func (v Vector) WriteCRC32(h interface{ Write([]byte) (int, error) }) {
	v.X.WriteCRC32(h)
	v.Y.WriteCRC32(h)
	v.Z.WriteCRC32(h)
}
