package collision

import (
	"testing"

	"github.com/rivenshard/netcore/collider"
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplexSphereVsSphereOverlap(t *testing.T) {
	a := collider.NewSphere(vecmath.VectorZero, fp.One)
	b := collider.NewSphere(vecmath.NewVector(fp.FromFloat64(1.5), fp.Zero, fp.Zero), fp.One)

	impact := ComplexSphereVsSphere(a, b)
	require.True(t, impact.Colliding)
	assert.InDelta(t, 1.0, impact.Direction.X.Float64(), 0.001)
	assert.InDelta(t, 0.0, impact.Direction.Y.Float64(), 0.001)
	assert.InDelta(t, 0.5, impact.Magnitude.Float64(), 0.001)
}

func TestComplexSphereVsSphereNoCollision(t *testing.T) {
	a := collider.NewSphere(vecmath.VectorZero, fp.One)
	b := collider.NewSphere(vecmath.NewVector(fp.FromInt(10), fp.Zero, fp.Zero), fp.One)

	assert.False(t, ComplexSphereVsSphere(a, b).Colliding)
}

func TestComplexBoxVsBoxDirectionPointsAToB(t *testing.T) {
	a := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	b := collider.NewBox(vecmath.NewVector(fp.FromFloat64(1.5), fp.Zero, fp.Zero), vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))

	impact := ComplexBoxVsBox(a, b)
	require.True(t, impact.Colliding)
	assert.True(t, impact.Direction.Dot(vecmath.VectorForward).GreaterThan(fp.Zero))
	assert.InDelta(t, 0.5, impact.Magnitude.Float64(), 0.01)
}

func TestComplexBoxVsBoxFlippedIsReciprocal(t *testing.T) {
	a := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	b := collider.NewBox(vecmath.NewVector(fp.FromFloat64(1.5), fp.Zero, fp.Zero), vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))

	ab := ComplexBoxVsBox(a, b)
	ba := Complex(b, a)
	require.True(t, ab.Colliding)
	require.True(t, ba.Colliding)
	assert.InDelta(t, ab.Magnitude.Float64(), ba.Magnitude.Float64(), 0.001)
	assert.InDelta(t, ab.Direction.X.Float64(), -ba.Direction.X.Float64(), 0.01)
}

func TestComplexCapsuleVsCapsuleParallelOffset(t *testing.T) {
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

	impact := ComplexCapsuleVsCapsule(a, b)
	require.True(t, impact.Colliding)
	assert.True(t, impact.Magnitude.GreaterThan(fp.Zero))
}

func TestComplexBoxVsSphereCenterInside(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	sphere := collider.NewSphere(vecmath.NewVector(fp.FromFloat64(0.9), fp.Zero, fp.Zero), fp.Half)

	impact := ComplexBoxVsSphere(box, sphere)
	require.True(t, impact.Colliding)
	assert.True(t, impact.Magnitude.GreaterThan(fp.Zero))
	// Closest face in +X direction should be chosen.
	assert.True(t, impact.Direction.Dot(vecmath.VectorForward).GreaterThan(fp.Zero))
}

func TestComplexBoxVsCapsuleFaceRegion(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	capsule := collider.NewCapsuleFromPoints(
		vecmath.NewVector(fp.FromFloat64(1.4), fp.Zero, fp.FromInt(-3)),
		vecmath.NewVector(fp.FromFloat64(1.4), fp.Zero, fp.FromInt(3)),
		fp.Half,
	)

	impact := ComplexBoxVsCapsule(box, capsule)
	require.True(t, impact.Colliding)
	assert.True(t, impact.Magnitude.GreaterThan(fp.Zero))
}

func TestComplexDispatchFlipsForReversedArguments(t *testing.T) {
	box := collider.NewBox(vecmath.VectorZero, vecmath.Identity(), vecmath.NewVector(fp.One, fp.One, fp.One))
	sphere := collider.NewSphere(vecmath.NewVector(fp.FromFloat64(1.3), fp.Zero, fp.Zero), fp.Half)

	forward := Complex(box, sphere)
	backward := Complex(sphere, box)

	require.True(t, forward.Colliding)
	require.True(t, backward.Colliding)
	assert.InDelta(t, forward.Magnitude.Float64(), backward.Magnitude.Float64(), 0.001)
	assert.InDelta(t, forward.Direction.X.Float64(), -backward.Direction.X.Float64(), 0.01)
}

func TestNoImpactIsZeroValue(t *testing.T) {
	assert.False(t, NoImpact.Colliding)
	assert.Equal(t, NoImpact, NoImpact.Flipped())
}
