package collider

import (
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// Line is a finite world-space segment between two points, used to
// represent a capsule's medial axis.
type Line struct {
	PointA vecmath.Vector
	PointB vecmath.Vector
}

// Midpoint returns the point halfway between the line's two endpoints.
func (l Line) Midpoint() vecmath.Vector {
	return vecmath.Midpoint(l.PointA, l.PointB)
}

// Direction returns the normalized direction from PointA to PointB, or the
// zero vector if the two points coincide.
func (l Line) Direction() vecmath.Vector {
	return l.PointB.Sub(l.PointA).Normalized()
}

// ClosestPointTo returns the point on the finite segment closest to p.
func (l Line) ClosestPointTo(p vecmath.Vector) vecmath.Vector {
	segment := l.PointB.Sub(l.PointA)
	lengthSquared := segment.LengthSquared()
	if lengthSquared.IsZero() {
		return l.PointA
	}
	t := p.Sub(l.PointA).Dot(segment).Div(lengthSquared)
	t = fp.Clamp(t, fp.Zero, fp.One)
	return l.PointA.Add(segment.Scale(t))
}

// MedialHalfLineLength returns half the length of a capsule's medial line,
// i.e. the distance from its center to either medial endpoint. Only
// meaningful for Capsule colliders.
func (c Collider) MedialHalfLineLength() fp.Fixed {
	return c.CapsuleHalfHeight.Sub(c.Radius)
}

// MedialLine returns the world-space medial axis of a Capsule collider: the
// segment between the centers of its two end hemispheres. The capsule's
// local "up" (+Z) is the rest orientation of the medial axis.
func (c Collider) MedialLine() Line {
	halfLen := c.MedialHalfLineLength()
	rotatedUp := c.ToWorldSpaceDirection(vecmath.VectorUp)
	return Line{
		PointA: c.Center.Add(rotatedUp.Neg().Scale(halfLen)),
		PointB: c.Center.Add(rotatedUp.Scale(halfLen)),
	}
}
