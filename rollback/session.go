package rollback

import (
	"github.com/google/uuid"

	"github.com/rivenshard/netcore/engine"
	"github.com/rivenshard/netcore/input"
	"github.com/rivenshard/netcore/snapshot"
)

// Decision reports what a Tick actually did, so the caller (and tests) can
// observe session behavior without reaching into internals.
type Decision int

const (
	// ProceedNormally means the session simulated exactly one new frame
	// with no rollback.
	ProceedNormally Decision = iota
	// WaitFrame means the session did not advance: either local input was
	// not yet available, or a remote peer has fallen outside the rollback
	// window and the session is stalling rather than dropping frames.
	WaitFrame
	// Rollback means the session restored an earlier snapshot, resimulated
	// forward with corrected inputs, and then simulated exactly one new
	// frame.
	Rollback
)

func (d Decision) String() string {
	switch d {
	case ProceedNormally:
		return "ProceedNormally"
	case WaitFrame:
		return "WaitFrame"
	case Rollback:
		return "Rollback"
	default:
		return "Unknown"
	}
}

// LocalPlayerIndex is the player index the local side's own input is keyed
// under in the per-frame input maps handed to SessionUser. Remote peer i
// (0-based) is keyed at index i+1.
const LocalPlayerIndex = 0

// StallInfo describes why the session is waiting rather than advancing.
type StallInfo struct {
	PeerIndex          int
	LocalFrame         engine.FrameType
	PeerConfirmedFrame int64
}

// SessionUser is the set of callbacks the external engine implements; the
// session invokes these to do the actual gameplay simulation work while the
// session itself only owns timing, prediction, and rollback bookkeeping.
type SessionUser interface {
	GenerateSnapshot(frame engine.FrameType) snapshot.Snapshot
	RestoreSnapshot(frame engine.FrameType, snap snapshot.Snapshot)
	GetInputForNextFrame(frame engine.FrameType) (input.PlayerInput, bool)
	ProcessFrame(frame engine.FrameType, inputsPerPeer map[int]input.PlayerInput)
	ProcessFrameWithoutRendering(frame engine.FrameType, inputsPerPeer map[int]input.PlayerInput)
	OnPostRollback()
	SendTimeQualityReport(frame engine.FrameType)
	SendLocalInputsToRemotePlayers(frame engine.FrameType, history []input.PlayerInput)
	OnStallingForRemoteInputs(info StallInfo)
	OnInputsExitRollbackWindow(confirmedFrame engine.FrameType)
}

// noConfirmedFrame is the sentinel for "this peer has never confirmed a
// frame", mirroring the original's lastConfirmedInputFrame initialized to -1.
const noConfirmedFrame int64 = -1

type peerState struct {
	lastConfirmedFrame int64
	confirmed          map[engine.FrameType]input.PlayerInput
	lastKnownInput     input.PlayerInput
}

func newPeerState() *peerState {
	return &peerState{
		lastConfirmedFrame: noConfirmedFrame,
		confirmed:          make(map[engine.FrameType]input.PlayerInput),
	}
}

// Session is the per-instance rollback/resimulation driver described by
// spec.md §4.9: it owns the current frame, per-peer confirmation state, the
// local input history, and a snapshot store, and exposes a single Tick()
// entry point for the host's main loop.
type Session struct {
	sessionID string

	user   SessionUser
	logger engine.Logger

	running      bool
	currentFrame engine.FrameType

	peers []*peerState

	localHistory map[engine.FrameType]input.PlayerInput
	predicted    map[int]map[engine.FrameType]input.PlayerInput

	store *snapshot.Store

	needRollback      bool
	mispredictedFrame int64 // noConfirmedFrame sentinel when nothing is mispredicted
	minExitedWindow   int64
	nextRecommended   engine.FrameType
}

// NewSession constructs a session for numRemotePeers remote peers. The
// session starts in NotStarted state; call MarkSynchronized once the peer
// protocol's handshake (netcode package) has completed.
func NewSession(user SessionUser, numRemotePeers int, logger engine.Logger) *Session {
	if logger == nil {
		logger = engine.NopLogger()
	}
	sessionID := uuid.NewString()

	peers := make([]*peerState, numRemotePeers)
	for i := range peers {
		peers[i] = newPeerState()
	}

	return &Session{
		sessionID:         sessionID,
		user:              user,
		logger:            logger.WithPrefix(sessionID[:8]),
		peers:             peers,
		localHistory:      make(map[engine.FrameType]input.PlayerInput),
		predicted:         make(map[int]map[engine.FrameType]input.PlayerInput),
		store:             snapshot.NewStore(),
		minExitedWindow:   noConfirmedFrame,
		mispredictedFrame: noConfirmedFrame,
	}
}

// MarkSynchronized transitions the session from NotStarted to Running. Until
// this is called, Tick refuses to advance.
func (s *Session) MarkSynchronized() {
	s.running = true
}

// SessionID is a random identifier assigned at construction, useful for
// correlating this session's log lines across peers in a multi-session
// process.
func (s *Session) SessionID() string { return s.sessionID }

func (s *Session) IsRunning() bool { return s.running }

func (s *Session) CurrentFrame() engine.FrameType { return s.currentFrame }

// IngestRemoteInput records a confirmed input for peerIndex at frame. It is
// the caller's (netcode package's) job to drain the transport and feed
// every received input through this method before calling Tick. Stale
// re-deliveries (frame already confirmed) are ignored.
func (s *Session) IngestRemoteInput(peerIndex int, frame engine.FrameType, in input.PlayerInput) {
	if peerIndex < 0 || peerIndex >= len(s.peers) {
		return
	}
	peer := s.peers[peerIndex]
	if int64(frame) <= peer.lastConfirmedFrame {
		return
	}

	if predictedForPeer, ok := s.predicted[peerIndex+1]; ok {
		if used, ok := predictedForPeer[frame]; ok && used != in {
			s.needRollback = true
			if s.mispredictedFrame == noConfirmedFrame || int64(frame) < s.mispredictedFrame {
				s.mispredictedFrame = int64(frame)
			}
		}
	}

	peer.confirmed[frame] = in
	peer.lastKnownInput = in
	peer.lastConfirmedFrame = int64(frame)
}

// AddLocalInput is a convenience wrapper mirroring spec.md §6's
// AddLocalInput entry point: it refuses input while not yet synchronized or
// while the local side has run too far ahead of every remote confirmation.
func (s *Session) AddLocalInput(in input.PlayerInput) error {
	if !s.running {
		return ErrNotSynchronized
	}
	if s.wouldExceedPredictionThreshold() {
		return ErrPredictionThreshold
	}
	s.localHistory[s.currentFrame] = in
	return nil
}

func (s *Session) wouldExceedPredictionThreshold() bool {
	for _, peer := range s.peers {
		if int64(s.currentFrame)-peer.lastConfirmedFrame > Window {
			return true
		}
	}
	return false
}

// minConfirmedAcrossPeers returns the minimum lastConfirmedFrame across all
// remote peers (noConfirmedFrame if any peer has never confirmed a frame),
// or the current frame when there are no remote peers.
func (s *Session) minConfirmedAcrossPeers() int64 {
	if len(s.peers) == 0 {
		return int64(s.currentFrame)
	}

	min := s.peers[0].lastConfirmedFrame
	for _, peer := range s.peers[1:] {
		if peer.lastConfirmedFrame < min {
			min = peer.lastConfirmedFrame
		}
	}
	return min
}

// Tick runs one full iteration of collect → ingest → decide → (rollback) →
// advance → time-sync, per spec.md §4.9. Remote inputs must already have
// been fed in via IngestRemoteInput before calling Tick.
func (s *Session) Tick() (Decision, error) {
	if !s.running {
		return WaitFrame, ErrNotSynchronized
	}

	localInput, ok := s.user.GetInputForNextFrame(s.currentFrame)
	if !ok {
		return WaitFrame, nil
	}
	s.localHistory[s.currentFrame] = localInput
	s.user.SendLocalInputsToRemotePlayers(s.currentFrame, s.historySnapshot())

	for i, peer := range s.peers {
		if int64(s.currentFrame)-peer.lastConfirmedFrame > Window {
			s.logger.Warnf("rollback: stalling, peer %d confirmed frame %d behind current %d", i, peer.lastConfirmedFrame, s.currentFrame)
			s.user.OnStallingForRemoteInputs(StallInfo{
				PeerIndex:          i,
				LocalFrame:         s.currentFrame,
				PeerConfirmedFrame: peer.lastConfirmedFrame,
			})
			return WaitFrame, nil
		}
	}

	decision := ProceedNormally

	if s.needRollback {
		if err := s.performRollback(); err != nil {
			return WaitFrame, err
		}
		decision = Rollback
		s.needRollback = false
		s.mispredictedFrame = noConfirmedFrame
	}

	s.advance(s.currentFrame, s.inputsForFrame(s.currentFrame), true)
	s.currentFrame++

	s.checkExitedWindow()
	s.checkTimeSync()

	return decision, nil
}

// performRollback restores the snapshot just before the earliest frame whose
// confirmed input differed from what was predicted, then resimulates
// forward from there through currentFrame-1 without rendering, storing a
// fresh snapshot after each frame.
func (s *Session) performRollback() error {
	rollbackTo := engine.FrameType(s.mispredictedFrame)

	// rollbackTo == 0 means the correction reaches all the way back to the
	// very first frame, before any snapshot exists; nothing to restore, the
	// resim loop below just replays from scratch.
	if rollbackTo > 0 {
		snap, err := s.store.Get(rollbackTo - 1)
		if err != nil {
			return ErrRollbackWindowExceeded
		}
		s.user.RestoreSnapshot(rollbackTo-1, snap)
	}

	for f := rollbackTo; f < s.currentFrame; f++ {
		s.advance(f, s.inputsForFrame(f), false)
	}

	s.user.OnPostRollback()
	return nil
}

// advance runs a single frame's simulation step (rendering or not),
// records the inputs used for later mismatch detection, and stores the
// resulting snapshot.
func (s *Session) advance(frame engine.FrameType, inputs map[int]input.PlayerInput, rendering bool) {
	if rendering {
		s.user.ProcessFrame(frame, inputs)
	} else {
		s.user.ProcessFrameWithoutRendering(frame, inputs)
	}

	for peerIdx, in := range inputs {
		if peerIdx == LocalPlayerIndex {
			continue
		}
		if s.predicted[peerIdx] == nil {
			s.predicted[peerIdx] = make(map[engine.FrameType]input.PlayerInput)
		}
		s.predicted[peerIdx][frame] = in
	}

	s.store.Put(frame, s.user.GenerateSnapshot(frame))
}

// inputsForFrame assembles the per-peer input set used to simulate frame:
// the local input from history, and for each remote peer the confirmed
// input if known, otherwise a repeat of that peer's most recently known
// input (GGPO's prediction convention).
func (s *Session) inputsForFrame(frame engine.FrameType) map[int]input.PlayerInput {
	inputs := make(map[int]input.PlayerInput, len(s.peers)+1)
	inputs[LocalPlayerIndex] = s.localHistory[frame]

	for i, peer := range s.peers {
		if confirmed, ok := peer.confirmed[frame]; ok {
			inputs[i+1] = confirmed
			continue
		}
		inputs[i+1] = peer.lastKnownInput
	}

	return inputs
}

// historySnapshot returns the local input history as an ordered slice
// covering the currently retained window, for handing to
// SendLocalInputsToRemotePlayers.
func (s *Session) historySnapshot() []input.PlayerInput {
	start := engine.FrameType(0)
	if s.currentFrame >= Window {
		start = s.currentFrame - Window + 1
	}

	out := make([]input.PlayerInput, 0, Window)
	for f := start; f <= s.currentFrame; f++ {
		if in, ok := s.localHistory[f]; ok {
			out = append(out, in)
		}
	}
	return out
}

func (s *Session) checkExitedWindow() {
	minConfirmed := s.minConfirmedAcrossPeers()
	if minConfirmed <= s.minExitedWindow {
		return
	}
	s.minExitedWindow = minConfirmed
	s.user.OnInputsExitRollbackWindow(engine.FrameType(minConfirmed))
}

func (s *Session) checkTimeSync() {
	if s.currentFrame <= s.nextRecommended {
		return
	}
	s.user.SendTimeQualityReport(s.currentFrame)
	s.nextRecommended = s.currentFrame + RecommendationInterval
}
