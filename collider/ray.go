package collider

import (
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// Ray is an origin point and a unit direction. Direction is normalized at
// construction so every consumer can assume unit length.
type Ray struct {
	Origin    vecmath.Vector
	Direction vecmath.Vector
}

// NewRay builds a Ray from an origin and a (not necessarily unit) direction,
// normalizing direction. A zero direction produces a Ray whose Direction is
// the zero vector; raycasts with it miss unless the origin lies inside the
// target, in which case RaycastVsBox and RaycastVsSphere still report a hit.
func NewRay(origin, direction vecmath.Vector) Ray {
	return Ray{Origin: origin, Direction: direction.Normalized()}
}

// At returns the point at scalar distance t along the ray.
func (r Ray) At(t fp.Fixed) vecmath.Vector {
	return r.Origin.Add(r.Direction.Scale(t))
}
