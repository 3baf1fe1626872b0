package collision

import (
	"testing"

	"github.com/rivenshard/netcore/collider"
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereVsSphereOverlap(t *testing.T) {
	a := collider.NewSphere(vecmath.VectorZero, fp.One)
	b := collider.NewSphere(vecmath.NewVector(fp.FromFloat64(1.5), fp.Zero, fp.Zero), fp.One)

	assert.True(t, SphereVsSphere(a, b))
}

func TestSphereVsSphereSeparated(t *testing.T) {
	a := collider.NewSphere(vecmath.VectorZero, fp.One)
	b := collider.NewSphere(vecmath.NewVector(fp.FromInt(5), fp.Zero, fp.Zero), fp.One)

	assert.False(t, SphereVsSphere(a, b))
}

func TestRaycastIntoBox(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	ray := collider.NewRay(vecmath.NewVector(fp.FromInt(-5), fp.Zero, fp.Zero), vecmath.VectorForward)

	tHit, p, ok := RaycastVsBox(ray, box)
	require.True(t, ok)
	assert.InDelta(t, 4.0, tHit.Float64(), 0.001)
	assert.InDelta(t, -1.0, p.X.Float64(), 0.001)
	assert.InDelta(t, 0.0, p.Y.Float64(), 0.001)
	assert.InDelta(t, 0.0, p.Z.Float64(), 0.001)
}

func TestRaycastMissesBox(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	ray := collider.NewRay(vecmath.NewVector(fp.FromInt(-5), fp.FromInt(5), fp.Zero), vecmath.VectorForward)

	_, _, ok := RaycastVsBox(ray, box)
	assert.False(t, ok)
}

func TestBoxVsBoxOverlapping(t *testing.T) {
	a := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	b := collider.NewBox(vecmath.NewVector(fp.FromFloat64(1.5), fp.Zero, fp.Zero), vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))

	assert.True(t, BoxVsBox(a, b))
}

func TestBoxVsBoxSeparated(t *testing.T) {
	a := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	b := collider.NewBox(vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.Zero), vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))

	assert.False(t, BoxVsBox(a, b))
}

func TestBoxVsBoxRotatedStillOverlapping(t *testing.T) {
	a := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	rotated := vecmath.FromAxisAngleDegrees(vecmath.VectorUp, fp.FromInt(45))
	b := collider.NewBox(vecmath.NewVector(fp.FromFloat64(1.2), fp.Zero, fp.Zero), rotated, vecmath.NewVector(fp.One, fp.One, fp.One))

	assert.True(t, BoxVsBox(a, b))
}

func TestBoxVsSphereCenterInsideBox(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	sphere := collider.NewSphere(vecmath.VectorZero, fp.Half)

	assert.True(t, BoxVsSphere(box, sphere))
}

func TestBoxVsSphereTouchingFace(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	sphere := collider.NewSphere(vecmath.NewVector(fp.FromFloat64(1.5), fp.Zero, fp.Zero), fp.One)

	assert.True(t, BoxVsSphere(box, sphere))
}

func TestBoxVsSphereSeparated(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	sphere := collider.NewSphere(vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.Zero), fp.One)

	assert.False(t, BoxVsSphere(box, sphere))
}

func TestCapsuleVsCapsuleOverlapping(t *testing.T) {
	a := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.Zero, fp.Zero, fp.Zero),
		vecmath.NewVector(fp.Zero, fp.Zero, fp.FromInt(2)),
		fp.Half,
	)
	b := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.FromFloat64(0.5), fp.Zero, fp.Zero),
		vecmath.NewVector(fp.FromFloat64(0.5), fp.Zero, fp.FromInt(2)),
		fp.Half,
	)

	assert.True(t, CapsuleVsCapsule(a, b))
}

func TestCapsuleVsCapsuleSeparated(t *testing.T) {
	a := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.Zero, fp.Zero, fp.Zero),
		vecmath.NewVector(fp.Zero, fp.Zero, fp.FromInt(2)),
		fp.Half,
	)
	b := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.Zero),
		vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.FromInt(2)),
		fp.Half,
	)

	assert.False(t, CapsuleVsCapsule(a, b))
}

func TestCapsuleVsSphere(t *testing.T) {
	capsule := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.Zero, fp.Zero, fp.Zero),
		vecmath.NewVector(fp.Zero, fp.Zero, fp.FromInt(2)),
		fp.Half,
	)
	touching := collider.NewSphere(vecmath.NewVector(fp.FromFloat64(0.9), fp.Zero, fp.One), fp.Half)
	far := collider.NewSphere(vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.One), fp.Half)

	assert.True(t, CapsuleVsSphere(capsule, touching))
	assert.False(t, CapsuleVsSphere(capsule, far))
}

func TestBoxVsCapsuleFaceRegion(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	capsule := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.FromFloat64(1.4), fp.Zero, fp.FromInt(-3)),
		vecmath.NewVector(fp.FromFloat64(1.4), fp.Zero, fp.FromInt(3)),
		fp.Half,
	)

	assert.True(t, BoxVsCapsule(box, capsule))
}

func TestBoxVsCapsuleSeparated(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	capsule := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.FromInt(-3)),
		vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.FromInt(3)),
		fp.Half,
	)

	assert.False(t, BoxVsCapsule(box, capsule))
}

func TestLinetestVsCapsuleThroughMedialLine(t *testing.T) {
	capsule := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.Zero, fp.FromInt(-5), fp.Zero),
		vecmath.NewVector(fp.Zero, fp.FromInt(5), fp.Zero),
		fp.One,
	)
	line := collider.Line{
		PointA: vecmath.NewVector(fp.FromInt(-5), fp.Zero, fp.Zero),
		PointB: vecmath.NewVector(fp.FromInt(5), fp.Zero, fp.Zero),
	}

	tHit, _, ok := LinetestVsCapsule(line, capsule)
	require.True(t, ok)
	assert.True(t, tHit.GreaterOrEqual(fp.Zero))
	assert.True(t, tHit.LessOrEqual(fp.One))
}

func TestLinetestVsCapsuleMisses(t *testing.T) {
	capsule := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.Zero, fp.FromInt(-5), fp.Zero),
		vecmath.NewVector(fp.Zero, fp.FromInt(5), fp.Zero),
		fp.One,
	)
	line := collider.Line{
		PointA: vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.Zero),
		PointB: vecmath.NewVector(fp.FromInt(20), fp.Zero, fp.Zero),
	}

	_, _, ok := LinetestVsCapsule(line, capsule)
	assert.False(t, ok)
}

func TestIsCollidingDispatchesBySymmetricShapes(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	sphere := collider.NewSphere(vecmath.VectorZero, fp.Half)

	forward, err := IsColliding(box, sphere)
	require.NoError(t, err)
	backward, err := IsColliding(sphere, box)
	require.NoError(t, err)
	assert.Equal(t, forward, backward)
	assert.True(t, forward)
}

func TestIsCollidingRejectsUninitialized(t *testing.T) {
	var uninit collider.Collider
	sphere := collider.NewSphere(vecmath.VectorZero, fp.One)

	_, err := IsColliding(uninit, sphere)
	assert.ErrorIs(t, err, ErrUnsupportedShapePair)
}
