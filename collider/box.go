package collider

import (
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// nearEpsilon is the default tolerance used by face-touch classification.
var nearEpsilon = fp.FromFloat64(0.001)

// BoxVertices returns the 8 world-space vertices of a Box collider.
func (c Collider) BoxVertices() [8]vecmath.Vector {
	h := c.BoxHalfSize
	local := [8]vecmath.Vector{
		{X: h.X.Neg(), Y: h.Y.Neg(), Z: h.Z.Neg()},
		{X: h.X, Y: h.Y, Z: h.Z},
		{X: h.X.Neg(), Y: h.Y, Z: h.Z.Neg()},
		{X: h.X, Y: h.Y.Neg(), Z: h.Z.Neg()},
		{X: h.X, Y: h.Y, Z: h.Z.Neg()},
		{X: h.X.Neg(), Y: h.Y.Neg(), Z: h.Z},
		{X: h.X.Neg(), Y: h.Y, Z: h.Z},
		{X: h.X, Y: h.Y.Neg(), Z: h.Z},
	}

	var result [8]vecmath.Vector
	for i, p := range local {
		result[i] = c.ToWorldSpaceFromLocal(p)
	}
	return result
}

// BoxNormals returns the 3 world-space face normals of a Box collider
// (parallel normals, e.g. -X vs +X, are omitted since nothing downstream
// needs both).
func (c Collider) BoxNormals() [3]vecmath.Vector {
	return [3]vecmath.Vector{
		c.ToWorldSpaceDirection(vecmath.VectorForward),
		c.ToWorldSpaceDirection(vecmath.VectorRight),
		c.ToWorldSpaceDirection(vecmath.VectorUp),
	}
}

// ContainsPointInclusive reports whether a world-space point lies within the
// box, including its surface.
func (c Collider) ContainsPointInclusive(point vecmath.Vector) bool {
	return c.ContainsLocalPointInclusive(c.ToLocalSpaceFromWorld(point))
}

// ContainsLocalPointInclusive is ContainsPointInclusive for a point already
// in the box's local space.
func (c Collider) ContainsLocalPointInclusive(local vecmath.Vector) bool {
	h := c.BoxHalfSize
	if local.X.LessThan(h.X.Neg()) || local.X.GreaterThan(h.X) {
		return false
	}
	if local.Y.LessThan(h.Y.Neg()) || local.Y.GreaterThan(h.Y) {
		return false
	}
	if local.Z.LessThan(h.Z.Neg()) || local.Z.GreaterThan(h.Z) {
		return false
	}
	return true
}

// ContainsPointExclusive reports whether a world-space point lies strictly
// within the box (not on its surface).
func (c Collider) ContainsPointExclusive(point vecmath.Vector) bool {
	return c.ContainsLocalPointExclusive(c.ToLocalSpaceFromWorld(point))
}

// ContainsLocalPointExclusive is ContainsPointExclusive for a point already
// in the box's local space.
func (c Collider) ContainsLocalPointExclusive(local vecmath.Vector) bool {
	if !c.ContainsLocalPointInclusive(local) {
		return false
	}
	h := c.BoxHalfSize
	if local.X.Equal(h.X.Neg()) || local.X.Equal(h.X) {
		return false
	}
	if local.Y.Equal(h.Y.Neg()) || local.Y.Equal(h.Y) {
		return false
	}
	if local.Z.Equal(h.Z.Neg()) || local.Z.Equal(h.Z) {
		return false
	}
	return true
}

// FacesTouchedByLocalPoint returns which local-space face directions a
// point (assumed to already be on the surface of or within the box) touches.
// A point on an edge touches two faces; a point on a vertex touches three.
// Values identify faces by their local-space outward direction (Forward,
// Backward, Right, Left, Up, Down) rather than world-rotated normals, since
// callers only ever compare these identifiers against each other within the
// same collider's local space.
func (c Collider) FacesTouchedByLocalPoint(local vecmath.Vector) []vecmath.Vector {
	maxExtents := c.BoxHalfSize
	minExtents := maxExtents.Neg()

	var faces []vecmath.Vector

	if isNear(local.X, maxExtents.X) {
		faces = append(faces, vecmath.VectorForward)
	} else if isNear(local.X, minExtents.X) {
		faces = append(faces, vecmath.VectorBackward)
	}

	if isNear(local.Y, maxExtents.Y) {
		faces = append(faces, vecmath.VectorRight)
	} else if isNear(local.Y, minExtents.Y) {
		faces = append(faces, vecmath.VectorLeft)
	}

	if isNear(local.Z, maxExtents.Z) {
		faces = append(faces, vecmath.VectorUp)
	} else if isNear(local.Z, minExtents.Z) {
		faces = append(faces, vecmath.VectorDown)
	}

	return faces
}

func isNear(a, b fp.Fixed) bool {
	return a.Sub(b).Abs().LessOrEqual(nearEpsilon)
}

// SharesFaceWith reports whether two face-touch lists have any face in
// common (used by the raycast surface-only rejection in package collision).
func SharesFaceWith(a, b []vecmath.Vector) bool {
	for _, fa := range a {
		for _, fb := range b {
			if fa == fb {
				return true
			}
		}
	}
	return false
}
