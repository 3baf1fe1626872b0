package engine

import (
	"github.com/rivenshard/netcore/collider"
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/vecmath"
)

// EntityId identifies a single simulated entity. Ids are assigned by
// whatever owns entity lifecycle (the host scene, per spec.md §3) and are
// opaque to the registry beyond ordering.
type EntityId uint64

// Transform is an entity's world-space position and orientation.
type Transform struct {
	Position vecmath.Vector
	Rotation vecmath.Quaternion
}

// Physics holds the per-tick integration state for a moving entity.
type Physics struct {
	Velocity vecmath.Vector
	Mass     fp.Fixed
}

// DynamicCollider marks an entity as participating in collision resolution
// as a mover: it can be pushed by both static geometry and other dynamic
// colliders.
type DynamicCollider struct {
	Collider collider.Collider
}

// StaticCollider marks an entity as immovable collision geometry: it pushes
// dynamic colliders out but is never itself corrected.
type StaticCollider struct {
	Collider collider.Collider
}

// Hitstop freezes gameplay-affecting updates for an entity for a number of
// remaining frames, typically applied on a landed hit for impact feedback.
type Hitstop struct {
	FramesRemaining uint32
}

// Invulnerable suppresses incoming damage/collision reactions for a number
// of remaining frames, typically applied during a dodge or spawn grace
// period.
type Invulnerable struct {
	FramesRemaining uint32
}
