package collision

import (
	"github.com/rivenshard/netcore/collider"
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// Impact is a minimum-translation-vector penetration result: how far
// (Magnitude) and in which direction (Direction) a moving collider should be
// pushed to clear a collision. Direction points from the first collider
// towards the second ("the direction A is penetrating into B").
type Impact struct {
	Colliding bool
	Direction vecmath.Vector
	Magnitude fp.Fixed
}

// NoImpact is the zero-value "not colliding" result.
var NoImpact = Impact{}

// Flipped returns the reciprocal impact: same magnitude, opposite direction.
// Used whenever a Complex* helper is invoked with its arguments swapped.
func (i Impact) Flipped() Impact {
	if !i.Colliding {
		return i
	}
	return Impact{Colliding: true, Direction: i.Direction.Flipped(), Magnitude: i.Magnitude}
}

// Complex dispatches to the penetration-returning test for the pair's
// shapes, flipping the result's direction when the call had to be made with
// arguments reversed.
func Complex(a, b collider.Collider) Impact {
	if !a.IsValid() || !b.IsValid() {
		return NoImpact
	}

	switch {
	case a.IsBox() && b.IsBox():
		return ComplexBoxVsBox(a, b)
	case a.IsBox() && b.IsCapsule():
		return ComplexBoxVsCapsule(a, b)
	case a.IsBox() && b.IsSphere():
		return ComplexBoxVsSphere(a, b)
	case a.IsCapsule() && b.IsBox():
		return ComplexBoxVsCapsule(b, a).Flipped()
	case a.IsCapsule() && b.IsCapsule():
		return ComplexCapsuleVsCapsule(a, b)
	case a.IsCapsule() && b.IsSphere():
		return ComplexCapsuleVsSphere(a, b)
	case a.IsSphere() && b.IsBox():
		return ComplexBoxVsSphere(b, a).Flipped()
	case a.IsSphere() && b.IsCapsule():
		return ComplexCapsuleVsSphere(b, a).Flipped()
	case a.IsSphere() && b.IsSphere():
		return ComplexSphereVsSphere(a, b)
	default:
		return NoImpact
	}
}

// ComplexBoxVsBox runs the same 15-axis SAT test as BoxVsBox, additionally
// tracking the axis of smallest overlap to report as the MTV, oriented so
// it points from boxA's center towards boxB's.
func ComplexBoxVsBox(boxA, boxB collider.Collider) Impact {
	aNormals := boxA.BoxNormals()
	bNormals := boxB.BoxNormals()
	aVertices := boxA.BoxVertices()
	bVertices := boxB.BoxVertices()

	smallestDepth := fp.FromInt(-1)
	var axis vecmath.Vector

	test := func(candidate vecmath.Vector) bool {
		if candidate.IsZero() {
			return true
		}
		depth := intersectionDistAlongAxis(aVertices[:], bVertices[:], candidate)
		if depth.LessOrEqual(fp.Zero) {
			return false
		}
		if smallestDepth.Equal(fp.FromInt(-1)) || depth.LessThan(smallestDepth) {
			smallestDepth = depth
			axis = candidate
		}
		return true
	}

	for _, n := range aNormals {
		if !test(n) {
			return NoImpact
		}
	}
	for _, n := range bNormals {
		if !test(n) {
			return NoImpact
		}
	}
	for _, an := range aNormals {
		for _, bn := range bNormals {
			cross := an.Cross(bn)
			if cross.IsZero() {
				continue
			}
			if !test(cross.Normalized()) {
				return NoImpact
			}
		}
	}

	if smallestDepth.IsNegative() {
		smallestDepth = smallestDepth.Neg()
		axis = axis.Neg()
	}

	aToB := boxB.Center.Sub(boxA.Center)
	if axis.Dot(aToB).IsNegative() {
		axis = axis.Neg()
	}

	return Impact{Colliding: true, Direction: axis, Magnitude: smallestDepth}
}

// ComplexSphereVsSphere: axis = normalized(B-A), depth = rA+rB-|B-A|.
func ComplexSphereVsSphere(sphereA, sphereB collider.Collider) Impact {
	centerDiff := sphereB.Center.Sub(sphereA.Center)
	centerDist := centerDiff.Length()
	depth := sphereA.Radius.Add(sphereB.Radius).Sub(centerDist)
	if depth.LessOrEqual(fp.Zero) {
		return NoImpact
	}
	return Impact{Colliding: true, Direction: centerDiff.Normalized(), Magnitude: depth}
}

// ComplexCapsuleVsCapsule: depth = |radii-distance|, direction between the
// closest-point pair (or perpendicular to both medial lines when those
// points coincide).
func ComplexCapsuleVsCapsule(capA, capB collider.Collider) Impact {
	lineA := capA.MedialLine()
	lineB := capB.MedialLine()
	distSq, _, _, closestA, closestB := closestPtsBetweenSegments(lineA, lineB)

	combinedRadius := capA.Radius.Add(capB.Radius)
	if !distSq.LessThan(combinedRadius.Mul(combinedRadius)) {
		return NoImpact
	}

	var direction vecmath.Vector
	if closestA.IsNear(closestB, fp.FromFloat64(0.01)) {
		dirA := lineA.Direction()
		dirB := lineB.Direction()
		direction = dirA.Cross(dirB)
		if direction.IsNear(vecmath.VectorZero, fp.FromFloat64(0.01)) {
			direction = dirA.PerpendicularProbe()
		}
	} else {
		direction = closestB.Sub(closestA).Normalized()
	}

	depth := fp.Sqrt(distSq).Sub(combinedRadius).Abs()
	return Impact{Colliding: true, Direction: direction, Magnitude: depth}
}

// ComplexCapsuleVsSphere: depth = |radii-distance|, direction from the
// closest point on the capsule's medial line towards the sphere center (or
// any perpendicular to the medial line when the sphere sits on it).
func ComplexCapsuleVsSphere(capsule, sphere collider.Collider) Impact {
	medial := capsule.MedialLine()
	closest := medial.ClosestPointTo(sphere.Center)
	distSq := vecmath.DistanceSquared(closest, sphere.Center)

	combinedRadius := sphere.Radius.Add(capsule.Radius)
	if !distSq.LessThan(combinedRadius.Mul(combinedRadius)) {
		return NoImpact
	}

	var direction vecmath.Vector
	if sphere.Center.IsNear(closest, fp.FromFloat64(0.01)) {
		direction = medial.Direction().PerpendicularProbe()
	} else {
		direction = sphere.Center.Sub(closest).Normalized()
	}

	depth := fp.Sqrt(distSq).Sub(combinedRadius).Abs()
	return Impact{Colliding: true, Direction: direction, Magnitude: depth}
}

// ComplexBoxVsSphere mirrors BoxVsSphere's closest-point test, handling the
// "sphere center inside box" sub-case by finding the minimum push to the
// nearest of the 6 box faces.
func ComplexBoxVsSphere(box, sphere collider.Collider) Impact {
	localCenter := box.ToLocalSpaceFromWorld(sphere.Center)
	closest := closestPointInBox(box, localCenter)
	offset := localCenter.Sub(closest)
	dist := offset.Length()

	if dist.IsZero() {
		dir, pushDist := smallestPushOutOfBox(box, localCenter, false, vecmath.VectorZero)
		return Impact{Colliding: true, Direction: dir, Magnitude: pushDist.Add(sphere.Radius)}
	}

	depth := sphere.Radius.Sub(dist)
	if depth.LessOrEqual(fp.Zero) {
		return NoImpact
	}
	worldOffset := box.ToWorldSpaceDirection(offset.Normalized())
	return Impact{Colliding: true, Direction: worldOffset, Magnitude: depth}
}

// smallestPushOutOfBox finds, among the box's 6 local-space faces, the one
// closest to localPoint, and returns the world-space push direction and
// distance. When filterByDirection is set, faces whose outward normal has a
// non-positive dot product with filterDirection are skipped (used by the
// box/capsule "one endpoint inside" sub-cases to avoid pushing the wrong
// way along the capsule's medial line).
func smallestPushOutOfBox(box collider.Collider, localPoint vecmath.Vector, filterByDirection bool, filterDirection vecmath.Vector) (vecmath.Vector, fp.Fixed) {
	axes := [3]vecmath.Vector{vecmath.VectorForward, vecmath.VectorRight, vecmath.VectorUp}
	half := box.BoxHalfSize

	smallest := fp.MaxValue
	var bestDir vecmath.Vector

	consider := func(dir vecmath.Vector, extent fp.Fixed) {
		if filterByDirection && filterDirection.Dot(dir).LessOrEqual(fp.Zero) {
			return
		}
		pointExtent := dir.Dot(localPoint)
		dist := extent.Sub(pointExtent).Abs()
		if dist.LessThan(smallest) {
			smallest = dist
			bestDir = dir
		}
	}

	extents := [3]fp.Fixed{half.X, half.Y, half.Z}
	for i, axis := range axes {
		consider(axis, extents[i])
		consider(axis.Neg(), extents[i])
	}

	return box.ToWorldSpaceDirection(bestDir), smallest
}

// ComplexBoxVsCapsule runs the same expanded-box raycast as BoxVsCapsule to
// locate the intersection, then picks among the 4 penetration sub-cases
// based on which medial-line endpoints lie inside the expanded box.
func ComplexBoxVsCapsule(box, capsule collider.Collider) Impact {
	worldLine := capsule.MedialLine()
	localA := box.ToLocalSpaceFromWorld(worldLine.PointA)
	localB := box.ToLocalSpaceFromWorld(worldLine.PointB)
	localMedial := collider.Line{PointA: localA, PointB: localB}

	expanded := box
	expanded.BoxHalfSize = box.BoxHalfSize.Add(vecmath.Splat(capsule.Radius))

	_, entryPoint, hit := boxCapsuleIntersection(box, expanded, localMedial, capsule.Radius, capsule.MedialHalfLineLength())
	if !hit {
		return NoImpact
	}

	lineDir := localB.Sub(localA).Normalized()
	startInside := expanded.ContainsLocalPointExclusive(localA)
	endInside := expanded.ContainsLocalPointExclusive(localB)

	var dir vecmath.Vector
	var magnitude fp.Fixed

	switch {
	case startInside && endInside:
		fromStartDir, fromStartDist := smallestPushOutOfBox(expanded, localA, true, lineDir)
		fromEndDir, fromEndDist := smallestPushOutOfBox(expanded, localB, true, lineDir.Neg())
		if fromEndDist.LessThan(fromStartDist) {
			dir, magnitude = fromEndDir, fromEndDist
		} else {
			dir, magnitude = fromStartDir, fromStartDist
		}
	case startInside:
		dir, magnitude = smallestPushOutOfBox(expanded, localA, true, lineDir)
	case endInside:
		dir, magnitude = smallestPushOutOfBox(expanded, localB, true, lineDir.Neg())
	default:
		reversedMedial := collider.Line{PointA: localB, PointB: localA}
		_, lastPoint, _ := boxCapsuleIntersection(box, expanded, reversedMedial, capsule.Radius, capsule.MedialHalfLineLength())
		middle := entryPoint.Add(lastPoint).Div(fp.Two)
		dir, magnitude = bestPushForMidpointOfLine(box, expanded, middle, lineDir)
	}

	return Impact{Colliding: true, Direction: dir, Magnitude: magnitude}
}

// boxCapsuleIntersection reimplements BoxVsCapsule's raycast-and-classify
// logic but also returns the intersection point, for callers (the
// penetration path) that need it in addition to the boolean result.
func boxCapsuleIntersection(box, expanded collider.Collider, localMedial collider.Line, radius, medialHalfLen fp.Fixed) (fp.Fixed, vecmath.Vector, bool) {
	ray := collider.NewRay(localMedial.PointA, localMedial.PointB.Sub(localMedial.PointA))
	t, hitPoint, hit := raycastAABB(expanded, ray)
	if !hit {
		return fp.Zero, vecmath.VectorZero, false
	}

	t = t.Div(medialHalfLen.Mul(fp.Two))
	if t.GreaterOrEqual(fp.One) {
		if expanded.ContainsLocalPointExclusive(localMedial.PointA) {
			t = fp.One
			hitPoint = localMedial.PointB
		} else {
			return fp.Zero, vecmath.VectorZero, false
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
		var best vecmath.Vector
		found := false
		for _, bit := range [3]uint32{1, 2, 4} {
			edgeLine := collider.Line{
				PointA: boxCorner(minExtents, maxExtents, greaterThanMax),
				PointB: boxCorner(minExtents, maxExtents, greaterThanMax^bit),
			}
			if tHit, hp, ok := linetestVsMedialLine(localMedial, edgeLine, radius); ok && tHit.LessThan(tMin) {
				tMin = tHit
				best = hp
				found = true
			}
		}
		if !found {
			return fp.Zero, vecmath.VectorZero, false
		}
		return tMin, best, true
	}

	if mask&(mask-1) == 0 {
		return t, hitPoint, true
	}

	edgeLine := collider.Line{
		PointA: boxCorner(minExtents, maxExtents, lessThanMin^7),
		PointB: boxCorner(minExtents, maxExtents, greaterThanMax),
	}
	tHit, hp, ok := linetestVsMedialLine(localMedial, edgeLine, radius)
	if !ok {
		return fp.Zero, vecmath.VectorZero, false
	}
	return tHit, hp, true
}

// bestPushForMidpointOfLine implements the "neither endpoint inside"
// sub-case: find the closest box face to the intersection midpoint, derive
// a push direction perpendicular to the medial line, then raycast from the
// midpoint in that direction against the original box for the exact
// magnitude.
func bestPushForMidpointOfLine(box, expanded collider.Collider, midpoint, lineDir vecmath.Vector) (vecmath.Vector, fp.Fixed) {
	faceDirWorld, _ := smallestPushOutOfBox(expanded, midpoint, false, vecmath.VectorZero)
	faceDirLocal := box.ToLocalSpaceDirection(faceDirWorld)

	bestMoveDir := lineDir.Cross(faceDirLocal).Cross(lineDir)

	testRay := collider.NewRay(midpoint, bestMoveDir)
	t, _, _ := raycastAABB(box, testRay)

	return box.ToWorldSpaceDirection(bestMoveDir.Normalized()), t
}
