package netcode

import "time"

// SyncHandshakeRounds is how many SyncRequest/SyncReply round trips a peer
// connection must complete before it's considered Running. spec.md §6
// leaves this an implementation choice of "≥5".
const SyncHandshakeRounds = 5

// MaxSpectators bounds the spectator fan-out list, mirroring the original's
// fixed-size GGPO_MAX_SPECTATORS array.
const MaxSpectators = 32

// DefaultDisconnectTimeout is how long a peer may stay silent before the
// connection is declared Disconnected.
const DefaultDisconnectTimeout = 5000 * time.Millisecond

// DefaultDisconnectNotifyStart is how long a peer may stay silent before a
// "may be disconnecting" notification fires, ahead of the hard timeout.
const DefaultDisconnectNotifyStart = 750 * time.Millisecond

// RecommendationInterval is the quality-report period in frames. Nothing in
// this package reads it; the rollback session keeps its own copy.
const RecommendationInterval = 240

// KeepAliveInterval is the KeepAlive period for an otherwise idle
// connection. Nothing in this package sends KeepAlives on a timer:
// EncodeKeepAlive only builds the packet, and PeerConnection never sends it.
const KeepAliveInterval = 200 * time.Millisecond
