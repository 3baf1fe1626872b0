// Package collision implements boolean/raycast queries ("simple") and
// penetration-vector queries ("complex") between pairs of colliders, plus
// the per-tick resolution loop that turns penetration info into corrected
// positions and velocities.
package collision

import (
	"errors"

	"github.com/rivenshard/netcore/collider"
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// ErrUnsupportedShapePair is returned when IsColliding is asked to compare
// two colliders where at least one is uninitialized or fails IsValid.
var ErrUnsupportedShapePair = errors.New("collision: uninitialized collider in pair")

// IsColliding dispatches to the correct simple-collision test for the pair's
// shapes.
func IsColliding(a, b collider.Collider) (bool, error) {
	if !a.IsValid() || !b.IsValid() {
		return false, ErrUnsupportedShapePair
	}

	switch {
	case a.IsBox() && b.IsBox():
		return BoxVsBox(a, b), nil
	case a.IsBox() && b.IsCapsule():
		return BoxVsCapsule(a, b), nil
	case a.IsBox() && b.IsSphere():
		return BoxVsSphere(a, b), nil
	case a.IsCapsule() && b.IsBox():
		return BoxVsCapsule(b, a), nil
	case a.IsCapsule() && b.IsCapsule():
		return CapsuleVsCapsule(a, b), nil
	case a.IsCapsule() && b.IsSphere():
		return CapsuleVsSphere(a, b), nil
	case a.IsSphere() && b.IsBox():
		return BoxVsSphere(b, a), nil
	case a.IsSphere() && b.IsCapsule():
		return CapsuleVsSphere(b, a), nil
	case a.IsSphere() && b.IsSphere():
		return SphereVsSphere(a, b), nil
	default:
		return false, ErrUnsupportedShapePair
	}
}

// BoxVsBox runs the 15-axis Separating Axis Theorem test between two OBBs.
func BoxVsBox(boxA, boxB collider.Collider) bool {
	aNormals := boxA.BoxNormals()
	bNormals := boxB.BoxNormals()
	aVertices := boxA.BoxVertices()
	bVertices := boxB.BoxVertices()

	for _, n := range aNormals {
		if !overlapsOnAxis(aVertices[:], bVertices[:], n) {
			return false
		}
	}
	for _, n := range bNormals {
		if !overlapsOnAxis(aVertices[:], bVertices[:], n) {
			return false
		}
	}

	for _, an := range aNormals {
		for _, bn := range bNormals {
			axis := an.Cross(bn)
			if axis.IsZero() {
				// Parallel normals: skip rather than treat as separating.
				continue
			}
			if !overlapsOnAxis(aVertices[:], bVertices[:], axis.Normalized()) {
				return false
			}
		}
	}

	return true
}

// overlapsOnAxis projects both vertex sets onto axis and reports whether
// their intervals overlap.
func overlapsOnAxis(aVertices, bVertices []vecmath.Vector, axis vecmath.Vector) bool {
	return intersectionDistAlongAxis(aVertices, bVertices, axis).GreaterThan(fp.Zero)
}

// intersectionDistAlongAxis returns the signed overlap of the two vertex
// sets' projections onto axis; non-positive means no overlap (separated).
func intersectionDistAlongAxis(aVertices, bVertices []vecmath.Vector, axis vecmath.Vector) fp.Fixed {
	aMin, aMax := projectExtent(aVertices, axis)
	bMin, bMax := projectExtent(bVertices, axis)
	return fp.Min(aMax, bMax).Sub(fp.Max(aMin, bMin))
}

func projectExtent(vertices []vecmath.Vector, axis vecmath.Vector) (fp.Fixed, fp.Fixed) {
	min := vertices[0].Dot(axis)
	max := min
	for _, v := range vertices[1:] {
		p := v.Dot(axis)
		min = fp.Min(min, p)
		max = fp.Max(max, p)
	}
	return min, max
}

// boxCorner returns one of the 8 AABB corners, selecting min or max extent
// per axis based on bits 0 (x), 1 (y), 2 (z) of n.
func boxCorner(minExtents, maxExtents vecmath.Vector, n uint32) vecmath.Vector {
	result := vecmath.Vector{}
	if n&1 != 0 {
		result.X = maxExtents.X
	} else {
		result.X = minExtents.X
	}
	if n&2 != 0 {
		result.Y = maxExtents.Y
	} else {
		result.Y = minExtents.Y
	}
	if n&4 != 0 {
		result.Z = maxExtents.Z
	} else {
		result.Z = minExtents.Z
	}
	return result
}

// CapsuleVsCapsule tests squared distance between medial lines against the
// squared sum of radii.
func CapsuleVsCapsule(capA, capB collider.Collider) bool {
	distSq, _, _, _, _ := closestPtsBetweenSegments(capA.MedialLine(), capB.MedialLine())
	radius := capA.Radius.Add(capB.Radius)
	return distSq.LessThan(radius.Mul(radius))
}

// SphereVsSphere tests center distance against the sum of radii.
func SphereVsSphere(sphereA, sphereB collider.Collider) bool {
	centerDistance := vecmath.Distance(sphereA.Center, sphereB.Center)
	intersectionDepth := sphereA.Radius.Add(sphereB.Radius).Sub(centerDistance)
	return intersectionDepth.GreaterThan(fp.Zero)
}

// BoxVsSphere transforms the sphere center into box-local space and clamps
// it to the box extents to find the closest point; colliding if within the
// sphere's radius of that point (or inside the box entirely).
func BoxVsSphere(box, sphere collider.Collider) bool {
	localCenter := box.ToLocalSpaceFromWorld(sphere.Center)
	closest := closestPointInBox(box, localCenter)
	offset := localCenter.Sub(closest)
	dist := offset.Length()
	if dist.IsZero() {
		return true
	}
	return sphere.Radius.Sub(dist).GreaterThan(fp.Zero)
}

func closestPointInBox(box collider.Collider, localPoint vecmath.Vector) vecmath.Vector {
	h := box.BoxHalfSize
	return vecmath.Vector{
		X: fp.Clamp(localPoint.X, h.X.Neg(), h.X),
		Y: fp.Clamp(localPoint.Y, h.Y.Neg(), h.Y),
		Z: fp.Clamp(localPoint.Z, h.Z.Neg(), h.Z),
	}
}

// CapsuleVsSphere tests squared distance between sphere center and the
// capsule's medial line against the squared sum of radii.
func CapsuleVsSphere(capsule, sphere collider.Collider) bool {
	distSq := squaredDistToSegment(capsule.MedialLine(), sphere.Center)
	radius := sphere.Radius.Add(capsule.Radius)
	return distSq.LessThan(radius.Mul(radius))
}

// BoxVsCapsule transforms the capsule's medial line into box-local space,
// expands the box by the capsule radius, and raycasts the medial line
// against the expanded box. See spec for the corner/face/edge sub-cases.
func BoxVsCapsule(box, capsule collider.Collider) bool {
	worldLine := capsule.MedialLine()
	localA := box.ToLocalSpaceFromWorld(worldLine.PointA)
	localB := box.ToLocalSpaceFromWorld(worldLine.PointB)
	localMedial := collider.Line{PointA: localA, PointB: localB}

	expanded := box
	expanded.BoxHalfSize = box.BoxHalfSize.Add(vecmath.Splat(capsule.Radius))

	ray := collider.NewRay(localA, localB.Sub(localA))
	t, hitPoint, hit := raycastAABB(expanded, ray)
	if !hit {
		return false
	}

	medialLen := capsule.MedialHalfLineLength().Mul(fp.Two)
	if t.GreaterOrEqual(medialLen) {
		if expanded.ContainsLocalPointExclusive(localA) {
			t = fp.One
			hitPoint = localB
		} else {
			return false
		}
	}

	maxExtents := box.BoxHalfSize
	minExtents := maxExtents.Neg()
	var lessThanMin, greaterThanMax uint32
	if hitPoint.X.LessThan(minExtents.X) {
		lessThanMin |= 1
	}
	if hitPoint.X.GreaterThan(maxExtents.X) {
		greaterThanMax |= 1
	}
	if hitPoint.Y.LessThan(minExtents.Y) {
		lessThanMin |= 2
	}
	if hitPoint.Y.GreaterThan(maxExtents.Y) {
		greaterThanMax |= 2
	}
	if hitPoint.Z.LessThan(minExtents.Z) {
		lessThanMin |= 4
	}
	if hitPoint.Z.GreaterThan(maxExtents.Z) {
		greaterThanMax |= 4
	}
	mask := lessThanMin + greaterThanMax

	if mask == 7 {
		tMin := fp.MaxValue
		found := false
		for _, bit := range [3]uint32{1, 2, 4} {
			edgeLine := collider.Line{
				PointA: boxCorner(minExtents, maxExtents, greaterThanMax),
				PointB: boxCorner(minExtents, maxExtents, greaterThanMax^bit),
			}
			if tHit, _, ok := linetestVsMedialLine(localMedial, edgeLine, capsule.Radius); ok {
				found = true
				tMin = fp.Min(tMin, tHit)
			}
		}
		return found
	}

	if mask&(mask-1) == 0 {
		// Zero or one bit set: inside original box, or face region. Raycast
		// result against the expanded box stands either way.
		return true
	}

	edgeLine := collider.Line{
		PointA: boxCorner(minExtents, maxExtents, lessThanMin^7),
		PointB: boxCorner(minExtents, maxExtents, greaterThanMax),
	}
	_, _, hitEdge := linetestVsMedialLine(localMedial, edgeLine, capsule.Radius)
	return hitEdge
}

// raycastAABB implements the three-slab raycast against a box treated as an
// AABB in local space (ray must already be in the box's local space).
func raycastAABB(box collider.Collider, ray collider.Ray) (fp.Fixed, vecmath.Vector, bool) {
	tEnter := fp.MinValue
	tExit := fp.MaxValue

	boxMin := box.BoxHalfSize.Neg()
	boxMax := box.BoxHalfSize

	origin := [3]fp.Fixed{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]fp.Fixed{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	min := [3]fp.Fixed{boxMin.X, boxMin.Y, boxMin.Z}
	max := [3]fp.Fixed{boxMax.X, boxMax.Y, boxMax.Z}

	zeroEpsilon := fp.FromFloat64(0.0001)

	for i := 0; i < 3; i++ {
		if dir[i].Abs().LessOrEqual(zeroEpsilon) {
			if origin[i].LessThan(min[i]) || origin[i].GreaterThan(max[i]) {
				return fp.Zero, vecmath.VectorZero, false
			}
			continue
		}

		invDir := fp.One.Div(dir[i])
		tNear := min[i].Sub(origin[i]).Mul(invDir)
		tFar := max[i].Sub(origin[i]).Mul(invDir)
		if tNear.GreaterThan(tFar) {
			tNear, tFar = tFar, tNear
		}

		tEnter = fp.Max(tEnter, tNear)
		tExit = fp.Min(tExit, tFar)
		if tEnter.GreaterThan(tExit) {
			return fp.Zero, vecmath.VectorZero, false
		}
	}

	if tExit.LessOrEqual(fp.FromFloat64(0.001)) {
		return fp.Zero, vecmath.VectorZero, false
	}

	startsInBox := box.ContainsLocalPointExclusive(ray.Origin)

	if !startsInBox {
		entryPoint := ray.At(tEnter)
		exitPoint := ray.At(tExit)
		entryFaces := box.FacesTouchedByLocalPoint(entryPoint)
		exitFaces := box.FacesTouchedByLocalPoint(exitPoint)
		if collider.SharesFaceWith(entryFaces, exitFaces) {
			return fp.Zero, vecmath.VectorZero, false
		}
	}

	t := tEnter
	if startsInBox {
		t = tExit
	}
	return t, ray.At(t), true
}

// RaycastVsBox raycasts a world-space ray against a box collider, returning
// the time of first intersection and the world-space hit point.
func RaycastVsBox(ray collider.Ray, box collider.Collider) (fp.Fixed, vecmath.Vector, bool) {
	localRay := collider.Ray{
		Origin:    box.ToLocalSpaceFromWorld(ray.Origin),
		Direction: box.ToLocalSpaceDirection(ray.Direction),
	}
	t, localHit, hit := raycastAABB(box, localRay)
	if !hit {
		return fp.Zero, vecmath.VectorZero, false
	}
	return t, box.ToWorldSpaceFromLocal(localHit), true
}

// RaycastVsSphere follows Game Physics Cookbook ch. 7's ray/sphere
// intersection derivation.
func RaycastVsSphere(ray collider.Ray, sphere collider.Collider) (fp.Fixed, vecmath.Vector, bool) {
	originToCenter := sphere.Center.Sub(ray.Origin)
	distSq := originToCenter.LengthSquared()
	radiusSq := sphere.Radius.Mul(sphere.Radius)

	a := originToCenter.Dot(ray.Direction)
	bSq := distSq.Sub(a.Mul(a))

	if radiusSq.Sub(bSq).IsNegative() {
		return fp.Zero, vecmath.VectorZero, false
	}
	f := fp.Sqrt(radiusSq.Sub(bSq))

	if distSq.LessThan(radiusSq) {
		t := a.Add(f)
		return t, ray.At(t), true
	}

	t := a.Sub(f)
	if t.IsNegative() {
		return fp.Zero, vecmath.VectorZero, false
	}
	return t, ray.At(t), true
}

// LinetestVsBox reuses RaycastVsBox, then checks the hit lies within the
// finite segment.
func LinetestVsBox(line collider.Line, box collider.Collider) (fp.Fixed, vecmath.Vector, bool) {
	dir := line.PointB.Sub(line.PointA)
	lengthSq := dir.LengthSquared()
	ray := collider.NewRay(line.PointA, dir)

	t, hit, ok := RaycastVsBox(ray, box)
	if !ok || t.IsNegative() {
		return fp.Zero, vecmath.VectorZero, false
	}
	if t.Mul(t).GreaterThan(lengthSq) {
		return fp.Zero, vecmath.VectorZero, false
	}
	return t, hit, true
}

// LinetestVsCapsule tests a finite line against a capsule collider.
func LinetestVsCapsule(line collider.Line, capsule collider.Collider) (fp.Fixed, vecmath.Vector, bool) {
	return linetestVsMedialLine(line, capsule.MedialLine(), capsule.Radius)
}

// linetestVsMedialLine is the shared implementation behind LinetestVsCapsule
// and the box/capsule edge sub-cases: a linetest against a capsule is a
// linetest against a zero-radius capsule sharing the same medial line.
func linetestVsMedialLine(line, medial collider.Line, radius fp.Fixed) (fp.Fixed, vecmath.Vector, bool) {
	distSq, tLine, _, closestOnLine, closestOnMedial := closestPtsBetweenSegments(line, medial)
	if distSq.GreaterThan(radius.Mul(radius)) {
		return fp.Zero, vecmath.VectorZero, false
	}

	lineLength := line.PointB.Sub(line.PointA).Length()
	if lineLength.IsZero() {
		return fp.Zero, line.PointA, true
	}

	if isNearZero(distSq) {
		adjustment := radius.Div(lineLength)
		t := tLine.Sub(adjustment)
		if t.IsNegative() {
			return fp.Zero, line.PointA, true
		}
		reverseDir := line.PointA.Sub(line.PointB).Div(lineLength)
		point := closestOnLine.Add(reverseDir.Scale(radius))
		return t, point, true
	}

	sphereAtClosest := collider.NewSphere(closestOnMedial, radius)
	testRay := collider.NewRay(line.PointA, line.PointB.Sub(line.PointA))
	tDistance, hitPoint, hit := RaycastVsSphere(testRay, sphereAtClosest)
	if !hit {
		return fp.Zero, vecmath.VectorZero, false
	}

	t := tDistance.Div(lineLength)
	if t.IsNegative() || t.GreaterThan(fp.One) {
		return fp.Zero, line.PointA, true
	}
	return t, hitPoint, true
}

func isNearZero(v fp.Fixed) bool {
	return v.Abs().LessOrEqual(fp.FromFloat64(0.01))
}

// squaredDistToSegment returns the squared distance between point p and the
// finite segment.
func squaredDistToSegment(segment collider.Line, p vecmath.Vector) fp.Fixed {
	closest := segment.ClosestPointTo(p)
	return vecmath.DistanceSquared(closest, p)
}

// closestPtsBetweenSegments implements the classic closest-point-between-
// two-segments algorithm (Ericson, Real-Time Collision Detection 5.1.9),
// returning the squared distance, the parametric positions s (on segA) and
// t (on segB), and the two closest points.
func closestPtsBetweenSegments(segA, segB collider.Line) (distSq, s, t fp.Fixed, closestA, closestB vecmath.Vector) {
	d1 := segA.PointB.Sub(segA.PointA)
	d2 := segB.PointB.Sub(segB.PointA)
	r := segA.PointA.Sub(segB.PointA)

	a := d1.LengthSquared()
	e := d2.LengthSquared()
	f := d2.Dot(r)

	if a.IsZero() && e.IsZero() {
		return vecmath.DistanceSquared(segA.PointA, segB.PointA), fp.Zero, fp.Zero, segA.PointA, segB.PointA
	}

	if a.IsZero() {
		s = fp.Zero
		t = fp.Clamp(f.Div(e), fp.Zero, fp.One)
	} else {
		c := d1.Dot(r)
		if e.IsZero() {
			t = fp.Zero
			s = fp.Clamp(c.Neg().Div(a), fp.Zero, fp.One)
		} else {
			b := d1.Dot(d2)
			denom := a.Mul(e).Sub(b.Mul(b))

			if !denom.IsZero() {
				s = fp.Clamp(b.Mul(f).Sub(c.Mul(e)).Div(denom), fp.Zero, fp.One)
			} else {
				s = fp.Zero
			}

			t = b.Mul(s).Add(f).Div(e)

			if t.IsNegative() {
				t = fp.Zero
				s = fp.Clamp(c.Neg().Div(a), fp.Zero, fp.One)
			} else if t.GreaterThan(fp.One) {
				t = fp.One
				s = fp.Clamp(b.Sub(c).Div(a), fp.Zero, fp.One)
			}
		}
	}

	closestA = segA.PointA.Add(d1.Scale(s))
	closestB = segB.PointA.Add(d2.Scale(t))
	distSq = vecmath.DistanceSquared(closestA, closestB)
	return distSq, s, t, closestA, closestB
}
