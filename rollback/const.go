package rollback

import (
	"time"

	"github.com/rivenshard/netcore/engine"
	"github.com/rivenshard/netcore/snapshot"
)

// Window is the maximum rollback window, shared with the snapshot store so
// a confirmed-frame callback can never reference a frame already evicted.
const Window = snapshot.Window

// RecommendationInterval is how often (in frames) the session calls
// SendTimeQualityReport. The session does not itself read frame-advantage
// reports or emit a time-sync event.
const RecommendationInterval engine.FrameType = 240

// DefaultDisconnectTimeout is how long a peer may stay silent before the
// connection is declared Disconnected.
const DefaultDisconnectTimeout = 5000 * time.Millisecond

// DefaultDisconnectNotifyStart is how long a peer may stay silent before a
// "may be disconnecting" notification fires, ahead of the hard timeout.
const DefaultDisconnectNotifyStart = 750 * time.Millisecond
