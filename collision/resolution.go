package collision

import (
	"github.com/rivenshard/netcore/collider"
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// PenetrationClearingSpace is added to every resolved penetration magnitude
// so the corrected position clears the surface instead of re-touching it on
// the very next tick.
var PenetrationClearingSpace = fp.FromFloat64(0.25)

// MaxCollisionPasses bounds the per-tick resolve-and-retry loop.
const MaxCollisionPasses = 5

// MassRatioForFullDistribution is the default heavier/lighter mass ratio
// threshold above which the heavier body in a dynamic pair is treated as
// immovable.
var MassRatioForFullDistribution = fp.FromInt(10)

// Body is a moving collider's resolution-relevant state: everything
// ResolveDynamicPair/ResolvePass need to read and correct. It mirrors
// (without importing) the fields an engine.Registry would expose as
// per-entity projections, so this package stays usable standalone.
type Body struct {
	Position vecmath.Vector
	Velocity vecmath.Vector
	Mass     fp.Fixed
	Collider collider.Collider
}

// ResolveStatic applies an Impact against a single moving body: push the
// position out along -Direction by (Magnitude + clearing space), and if the
// body's velocity has a component driving it into the surface, strip
// `reduction` (0..1) of that component.
func ResolveStatic(pos, vel vecmath.Vector, impact Impact, reduction fp.Fixed) (vecmath.Vector, vecmath.Vector) {
	if !impact.Colliding {
		return pos, vel
	}

	pushDistance := impact.Magnitude.Add(PenetrationClearingSpace)
	newPos := pos.Sub(impact.Direction.Scale(pushDistance))

	velocityInPenDir := vel.Dot(impact.Direction)
	if velocityInPenDir.LessOrEqual(fp.Zero) {
		return newPos, vel
	}

	parallel := impact.Direction.Scale(velocityInPenDir)
	newVel := vel.Sub(parallel.Scale(reduction))
	return newPos, newVel
}

// resolve applies ResolveStatic to body in place and recenters its collider.
func resolve(body *Body, impact Impact, reduction fp.Fixed) {
	newPos, newVel := ResolveStatic(body.Position, body.Velocity, impact, reduction)
	body.Position = newPos
	body.Velocity = newVel
	body.Collider = body.Collider.CopyWithNewCenter(newPos)
}

// ResolveDynamicPair resolves a collision between two dynamic bodies given
// the Impact as measured from a's perspective (Direction points from a
// towards b). Equal mass: split the penetration in half, apply to both
// sides with a 0.5 velocity-reduction fraction. Unequal mass: if the
// heavier/lighter ratio is at or above massRatioThreshold, the heavier body
// is immovable and the lighter absorbs the full correction; otherwise the
// correction is split in proportion to inverse mass.
func ResolveDynamicPair(a, b *Body, impact Impact, massRatioThreshold fp.Fixed) {
	if !impact.Colliding {
		return
	}

	if a.Mass.Equal(b.Mass) {
		half := impact.Magnitude.Div(fp.Two)
		resolve(a, Impact{Colliding: true, Direction: impact.Direction, Magnitude: half}, fp.Half)
		resolve(b, Impact{Colliding: true, Direction: impact.Direction.Flipped(), Magnitude: half}, fp.Half)
		return
	}

	heavier, lighter := a, b
	impactFromLighter := impact.Flipped()
	if b.Mass.GreaterThan(a.Mass) {
		heavier, lighter = b, a
		impactFromLighter = impact
	}

	massRatio := heavier.Mass.Div(lighter.Mass)
	if massRatio.GreaterOrEqual(massRatioThreshold) {
		resolve(lighter, impactFromLighter, fp.One)
		return
	}

	totalMass := heavier.Mass.Add(lighter.Mass)
	heavierShare := heavier.Mass.Div(totalMass)
	lighterShare := fp.One.Sub(heavierShare)

	heavierMagnitude := impactFromLighter.Magnitude.Mul(fp.One.Sub(heavierShare))
	resolve(heavier, Impact{
		Colliding: true,
		Direction: impactFromLighter.Direction.Flipped(),
		Magnitude: heavierMagnitude,
	}, heavierShare)

	lighterMagnitude := impactFromLighter.Magnitude.Sub(heavierMagnitude)
	resolve(lighter, Impact{
		Colliding: true,
		Direction: impactFromLighter.Direction,
		Magnitude: lighterMagnitude,
	}, lighterShare)
}

// ResolvePass runs a single collision-check-and-resolve pass for moving
// against every static collider and every other dynamic body, returning
// whether any collision was found (and thus whether another pass is
// warranted).
func ResolvePass(moving *Body, statics []collider.Collider, others []*Body, massRatioThreshold fp.Fixed) bool {
	found := false

	for _, s := range statics {
		impact := Complex(moving.Collider, s)
		if impact.Colliding {
			resolve(moving, impact, fp.One)
			found = true
		}
	}

	for _, other := range others {
		if other == moving {
			continue
		}
		impact := Complex(moving.Collider, other.Collider)
		if impact.Colliding {
			ResolveDynamicPair(moving, other, impact, massRatioThreshold)
			found = true
		}
	}

	return found
}

// Resolve runs ResolvePass up to MaxCollisionPasses times, stopping as soon
// as a pass finds no collision. Returns the number of passes actually run;
// callers should treat hitting MaxCollisionPasses as warning-worthy but not
// fatal.
func Resolve(moving *Body, statics []collider.Collider, others []*Body, massRatioThreshold fp.Fixed) int {
	passes := 0
	for passes < MaxCollisionPasses {
		passes++
		if !ResolvePass(moving, statics, others, massRatioThreshold) {
			break
		}
	}
	return passes
}
