package engine

import (
	"github.com/rivenshard/netcore/collider"
	"github.com/rivenshard/netcore/collision"
	"github.com/rivenshard/netcore/fp"
)

// Registry is a narrow, fixed-component-kind entity store. It is
// deliberately not a general archetype ECS: the simulation kernel only ever
// needs the six component kinds below, and every iteration over entities
// must visit them in a stable order so two peers replaying the same frames
// compute bit-identical results. Go map iteration order is randomized, so
// entity order is tracked separately in an insertion-ordered slice.
type Registry struct {
	order    []EntityId
	known    map[EntityId]struct{}
	transforms       map[EntityId]Transform
	physics          map[EntityId]Physics
	dynamicColliders map[EntityId]DynamicCollider
	staticColliders  map[EntityId]StaticCollider
	hitstops         map[EntityId]Hitstop
	invulnerables    map[EntityId]Invulnerable
}

func NewRegistry() *Registry {
	return &Registry{
		known:            make(map[EntityId]struct{}),
		transforms:       make(map[EntityId]Transform),
		physics:          make(map[EntityId]Physics),
		dynamicColliders: make(map[EntityId]DynamicCollider),
		staticColliders:  make(map[EntityId]StaticCollider),
		hitstops:         make(map[EntityId]Hitstop),
		invulnerables:    make(map[EntityId]Invulnerable),
	}
}

// Spawn registers id with the registry if it hasn't been seen before,
// appending it to the deterministic iteration order. Calling Spawn again for
// an already-known id is a no-op.
func (r *Registry) Spawn(id EntityId) {
	if _, ok := r.known[id]; ok {
		return
	}
	r.known[id] = struct{}{}
	r.order = append(r.order, id)
}

// Despawn removes every component for id. Iteration order for the remaining
// entities is preserved.
func (r *Registry) Despawn(id EntityId) {
	if _, ok := r.known[id]; !ok {
		return
	}
	delete(r.known, id)
	delete(r.transforms, id)
	delete(r.physics, id)
	delete(r.dynamicColliders, id)
	delete(r.staticColliders, id)
	delete(r.hitstops, id)
	delete(r.invulnerables, id)

	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Entities returns every known entity id in stable insertion order.
func (r *Registry) Entities() []EntityId {
	out := make([]EntityId, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) SetTransform(id EntityId, t Transform) { r.Spawn(id); r.transforms[id] = t }
func (r *Registry) Transform(id EntityId) (Transform, bool) { t, ok := r.transforms[id]; return t, ok }

func (r *Registry) SetPhysics(id EntityId, p Physics) { r.Spawn(id); r.physics[id] = p }
func (r *Registry) Physics(id EntityId) (Physics, bool) { p, ok := r.physics[id]; return p, ok }

func (r *Registry) SetDynamicCollider(id EntityId, c DynamicCollider) {
	r.Spawn(id)
	r.dynamicColliders[id] = c
}
func (r *Registry) DynamicCollider(id EntityId) (DynamicCollider, bool) {
	c, ok := r.dynamicColliders[id]
	return c, ok
}

func (r *Registry) SetStaticCollider(id EntityId, c StaticCollider) {
	r.Spawn(id)
	r.staticColliders[id] = c
}
func (r *Registry) StaticCollider(id EntityId) (StaticCollider, bool) {
	c, ok := r.staticColliders[id]
	return c, ok
}

func (r *Registry) SetHitstop(id EntityId, h Hitstop) { r.Spawn(id); r.hitstops[id] = h }
func (r *Registry) HitstopOf(id EntityId) (Hitstop, bool) { h, ok := r.hitstops[id]; return h, ok }

func (r *Registry) SetInvulnerable(id EntityId, inv Invulnerable) { r.Spawn(id); r.invulnerables[id] = inv }
func (r *Registry) InvulnerableOf(id EntityId) (Invulnerable, bool) {
	inv, ok := r.invulnerables[id]
	return inv, ok
}

// framesPerSecond is the fixed tick rate matching TimePerFrame. Velocity is
// integrated as Velocity / framesPerSecond (Velocity·Δt with Δt = 1/60s):
// 1/60 has no exact fp.Fixed value, so dividing keeps results such as
// 60 units/s -> 1 unit per frame exact. The step never touches float64.
var framesPerSecond = fp.FromInt(60)

// IntegrateVelocities advances Transform.Position by Physics.Velocity·Δt for
// every dynamic entity, skipping any entity carrying a Hitstop component so
// hit-reactions can freeze movement without the caller having to remember to
// check for it. Colliders are recentered to match so collision resolution
// (which follows this step) sees the new position rather than the old one.
func (r *Registry) IntegrateVelocities() {
	for _, id := range r.order {
		if _, frozen := r.HitstopOf(id); frozen {
			continue
		}
		phys, ok := r.physics[id]
		if !ok {
			continue
		}
		tr, ok := r.transforms[id]
		if !ok {
			continue
		}

		tr.Position = tr.Position.Add(phys.Velocity.Div(framesPerSecond))
		r.transforms[id] = tr

		if dc, ok := r.dynamicColliders[id]; ok {
			dc.Collider = dc.Collider.CopyWithNewCenter(tr.Position)
			r.dynamicColliders[id] = dc
		}
	}
}

// Tick runs one full simulation step: integration followed by collision
// resolution, per spec.md §4.6.
func (r *Registry) Tick(massRatioThreshold fp.Fixed) int {
	r.IntegrateVelocities()
	return r.ResolveCollisions(massRatioThreshold)
}

// staticColliderShapes collects every StaticCollider's shape in entity
// order, for feeding into collision.Resolve.
func (r *Registry) staticColliderShapes() []collider.Collider {
	var out []collider.Collider
	for _, id := range r.order {
		if sc, ok := r.staticColliders[id]; ok {
			out = append(out, sc.Collider)
		}
	}
	return out
}

// ResolveCollisions runs collision.Resolve for every dynamic entity against
// the registry's static geometry and all other dynamic entities, writing
// corrected position/velocity back into the registry's Transform/Physics/
// DynamicCollider components. Returns the total number of per-entity passes
// run across the whole registry, which callers may use for diagnostics.
func (r *Registry) ResolveCollisions(massRatioThreshold fp.Fixed) int {
	statics := r.staticColliderShapes()

	bodies := make(map[EntityId]*collision.Body, len(r.dynamicColliders))
	var order []EntityId
	for _, id := range r.order {
		dc, ok := r.dynamicColliders[id]
		if !ok {
			continue
		}
		phys := r.physics[id]
		bodies[id] = &collision.Body{
			Position: dc.Collider.Center,
			Velocity: phys.Velocity,
			Mass:     phys.Mass,
			Collider: dc.Collider,
		}
		order = append(order, id)
	}

	others := make([]*collision.Body, 0, len(order))
	for _, id := range order {
		others = append(others, bodies[id])
	}

	totalPasses := 0
	for _, id := range order {
		totalPasses += collision.Resolve(bodies[id], statics, others, massRatioThreshold)
	}

	for _, id := range order {
		body := bodies[id]
		r.dynamicColliders[id] = DynamicCollider{Collider: body.Collider}
		phys := r.physics[id]
		phys.Velocity = body.Velocity
		r.physics[id] = phys
		tr := r.transforms[id]
		tr.Position = body.Position
		r.transforms[id] = tr
	}

	return totalPasses
}
