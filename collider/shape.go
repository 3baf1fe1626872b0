// Package collider defines the tagged-shape collider model, ray/line
// primitives, and world/local space transforms used by the collision
// detection packages.
package collider

import (
	"errors"

	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// Shape tags the kind of geometry a Collider represents.
type Shape int

const (
	ShapeUninitialized Shape = iota
	ShapeBox
	ShapeSphere
	ShapeCapsule
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "Box"
	case ShapeSphere:
		return "Sphere"
	case ShapeCapsule:
		return "Capsule"
	default:
		return "Uninitialized"
	}
}

// ErrInvalidCollider describes an uninitialized or inconsistent collider.
// Package collision does not return it: IsColliding reports that case with
// its own ErrUnsupportedShapePair, and Complex returns NoImpact.
var ErrInvalidCollider = errors.New("collider: invalid or uninitialized shape")

// Collider is a tagged union over Box/Sphere/Capsule, directly mirroring the
// composite collider type collision detection is built against. Center and
// Rotation apply to every shape; the remaining fields are shape-specific.
type Collider struct {
	Shape    Shape
	Center   vecmath.Vector
	Rotation vecmath.Quaternion

	// BoxHalfSize: positive half-extents per axis. Only meaningful for Box.
	BoxHalfSize vecmath.Vector

	// CapsuleHalfHeight and Radius: meaningful for Capsule (half-height is
	// one half of the total height including the rounded ends, and must be
	// >= Radius). Radius alone is meaningful for Sphere.
	CapsuleHalfHeight fp.Fixed
	Radius            fp.Fixed
}

// NewBox constructs an axis-aligned-in-local-space box collider.
func NewBox(center vecmath.Vector, rotation vecmath.Quaternion, halfSize vecmath.Vector) Collider {
	return Collider{Shape: ShapeBox, Center: center, Rotation: rotation, BoxHalfSize: halfSize}
}

// NewSphere constructs a sphere collider.
func NewSphere(center vecmath.Vector, radius fp.Fixed) Collider {
	return Collider{Shape: ShapeSphere, Center: center, Rotation: vecmath.Identity(), Radius: radius}
}

// NewCapsule constructs a capsule collider from its center, rotation,
// radius and half-height.
func NewCapsule(center vecmath.Vector, rotation vecmath.Quaternion, radius, halfHeight fp.Fixed) Collider {
	return Collider{
		Shape: ShapeCapsule, Center: center, Rotation: rotation,
		Radius: radius, CapsuleHalfHeight: halfHeight,
	}
}

// NewCapsuleFromPoints builds a capsule from the centers of its two end
// hemispheres ("point A" and "point B") and a radius.
func NewCapsuleFromPoints(pointA, pointB vecmath.Vector, radius fp.Fixed) Collider {
	center := vecmath.Midpoint(pointA, pointB)
	medialDir := pointB.Sub(pointA)
	halfLen := medialDir.Length().Div(fp.Two)

	rotation := vecmath.Identity()
	axis := medialDir.Normalized()
	if !axis.IsZero() {
		// Capsule medial line runs along local +Z; rotate +Z onto axis.
		cross := vecmath.VectorUp.Cross(axis)
		dot := fp.Clamp(vecmath.VectorUp.Dot(axis), fp.FromInt(-1), fp.One)
		angle := fp.Atan2(cross.Length(), dot)
		if !cross.IsZero() {
			rotation = vecmath.FromAxisAngleRadians(cross.Normalized(), angle)
		} else if dot.IsNegative() {
			rotation = vecmath.FromAxisAngleRadians(vecmath.VectorForward, fp.Pi)
		}
	}

	return NewCapsule(center, rotation, radius, halfLen.Add(radius))
}

// IsNotInitialized reports whether the collider was never given a shape.
func (c Collider) IsNotInitialized() bool {
	return c.Shape == ShapeUninitialized
}

// IsValid reports whether the collider's shape-specific invariants hold:
// positive half-sizes for Box, half-height >= radius for Capsule.
func (c Collider) IsValid() bool {
	switch c.Shape {
	case ShapeBox:
		return c.BoxHalfSize.X.GreaterThan(fp.Zero) &&
			c.BoxHalfSize.Y.GreaterThan(fp.Zero) &&
			c.BoxHalfSize.Z.GreaterThan(fp.Zero)
	case ShapeSphere:
		return c.Radius.GreaterThan(fp.Zero)
	case ShapeCapsule:
		return c.Radius.GreaterThan(fp.Zero) && c.CapsuleHalfHeight.GreaterOrEqual(c.Radius)
	default:
		return false
	}
}

func (c Collider) IsBox() bool     { return c.Shape == ShapeBox }
func (c Collider) IsSphere() bool  { return c.Shape == ShapeSphere }
func (c Collider) IsCapsule() bool { return c.Shape == ShapeCapsule }

// ToWorldSpaceFromLocal converts a local-space point into world space.
func (c Collider) ToWorldSpaceFromLocal(p vecmath.Vector) vecmath.Vector {
	return c.Rotation.RotateVector(p).Add(c.Center)
}

// ToLocalSpaceFromWorld converts a world-space point into the collider's
// local space.
func (c Collider) ToLocalSpaceFromWorld(p vecmath.Vector) vecmath.Vector {
	return c.Rotation.Inverted().RotateVector(p.Sub(c.Center))
}

// ToWorldSpaceDirection rotates (but does not translate) a direction vector
// into world space.
func (c Collider) ToWorldSpaceDirection(d vecmath.Vector) vecmath.Vector {
	return c.Rotation.RotateVector(d)
}

// ToLocalSpaceDirection rotates (but does not translate) a direction vector
// into the collider's local space.
func (c Collider) ToLocalSpaceDirection(d vecmath.Vector) vecmath.Vector {
	return c.Rotation.Inverted().RotateVector(d)
}

// CopyWithNewCenter returns a copy of c recentered at newCenter.
func (c Collider) CopyWithNewCenter(newCenter vecmath.Vector) Collider {
	cpy := c
	cpy.Center = newCenter
	return cpy
}

// WriteCRC32 folds the collider's deterministic fields into a running CRC32
// hash, in field-declaration order.
func (c Collider) WriteCRC32(h interface{ Write([]byte) (int, error) }) {
	var shapeBuf [4]byte
	shapeBuf[0] = byte(c.Shape)
	h.Write(shapeBuf[:])
	c.Center.WriteCRC32(h)
	c.Rotation.WriteCRC32(h)
	c.BoxHalfSize.WriteCRC32(h)
	c.CapsuleHalfHeight.WriteCRC32(h)
	c.Radius.WriteCRC32(h)
}
