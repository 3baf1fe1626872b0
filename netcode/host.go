package netcode

import (
	"time"

	"github.com/rivenshard/netcore/engine"
	"github.com/rivenshard/netcore/input"
)

// localStatus mirrors the original's ConnectionMsg::connect_status entry:
// the last frame we've confirmed input for a given queue, plus whether that
// queue has been marked disconnected.
type localStatus struct {
	lastFrame    int64
	disconnected bool
}

// Host is the peer-protocol component (spec.md C10): it owns the wire-level
// connection to every remote player and spectator, drives the handshake and
// disconnect state machine, and does input send/ack windowing. It never
// runs gameplay simulation itself — that's rollback.Session's job, fed by
// the events Host produces.
type Host struct {
	transport Transport
	logger    engine.Logger
	now       func() time.Time

	numPlayers int
	peers      []*PeerConnection // indexed 0..numPlayers-1, remote queues
	peerByID   map[int]int       // transport peerID -> queue index

	spectators    []*PeerConnection
	specByID      map[int]int
	synchronizing bool

	localStatus []localStatus // index 0 = local player, i+1 = remote queue i

	nextSpectatorFrame engine.FrameType
}

// NewHost constructs a host for a session with numPlayers remote peers
// (not counting the local player or spectators).
func NewHost(transport Transport, numPlayers int, logger engine.Logger, now func() time.Time) *Host {
	if logger == nil {
		logger = engine.NopLogger()
	}
	if now == nil {
		now = time.Now
	}

	status := make([]localStatus, numPlayers+1)
	for i := range status {
		status[i].lastFrame = noFrame
	}

	return &Host{
		transport:     transport,
		logger:        logger,
		now:           now,
		numPlayers:    numPlayers,
		peers:         make([]*PeerConnection, numPlayers),
		peerByID:      make(map[int]int),
		specByID:      make(map[int]int),
		synchronizing: true,
		localStatus:   status,
	}
}

// AddRemotePlayer registers queue (0-based remote-player index) as reachable
// at peerID and starts its sync handshake.
func (h *Host) AddRemotePlayer(queue, peerID int) error {
	if queue < 0 || queue >= h.numPlayers {
		return ErrPeerOutOfRange
	}
	conn := NewPeerConnection(queue, peerID, h.transport, h.logger, h.now)
	h.peers[queue] = conn
	h.peerByID[peerID] = queue
	conn.Synchronize()
	return nil
}

// AddSpectator registers a spectator connection, reachable at peerID.
// Spectators may only join while the host hasn't finished its own
// synchronization.
func (h *Host) AddSpectator(peerID int) error {
	if !h.synchronizing {
		return ErrAlreadyRunning
	}
	if len(h.spectators) >= MaxSpectators {
		return ErrTooManySpectators
	}
	queue := len(h.spectators)
	conn := NewPeerConnection(1000+queue, peerID, h.transport, h.logger, h.now)
	h.spectators = append(h.spectators, conn)
	h.specByID[peerID] = queue
	conn.Synchronize()
	return nil
}

// RecordLocalInput updates this host's view of the local player's
// confirmed frame, feeding MinConfirmedFrame. The peerLastReceived trailer
// sent by BroadcastLocalInput is built from the peers' received frames, not
// from this value.
func (h *Host) RecordLocalInput(frame engine.FrameType) {
	h.localStatus[0].lastFrame = int64(frame)
}

// BroadcastLocalInput sends every un-acked frame of the local input history
// (starting at startFrame) to each running remote peer.
func (h *Host) BroadcastLocalInput(startFrame engine.FrameType, history []input.PlayerInput) {
	peerLastReceived := make([]uint32, h.numPlayers)
	for i, p := range h.peers {
		if p != nil && p.lastReceivedFrame != noFrame {
			peerLastReceived[i] = uint32(p.lastReceivedFrame)
		}
	}

	for _, p := range h.peers {
		if p == nil {
			continue
		}
		p.SendInput(startFrame, history, peerLastReceived)
	}
}

// PollReceive drains every packet currently queued on the transport,
// dispatching each to its originating peer or spectator connection, then
// checks every connection's disconnect timer. It never blocks.
func (h *Host) PollReceive() {
	for {
		peerID, data, ok := h.transport.ReceiveFrom()
		if !ok {
			break
		}
		if queue, known := h.peerByID[peerID]; known {
			conn := h.peers[queue]
			conn.OnMsg(data)
			if conn.lastReceivedFrame != noFrame {
				h.localStatus[queue+1].lastFrame = conn.lastReceivedFrame
			}
			continue
		}
		if queue, known := h.specByID[peerID]; known {
			h.spectators[queue].OnMsg(data)
			continue
		}
		h.logger.Warnf("netcode: packet from unknown peer id %d dropped", peerID)
	}

	for _, p := range h.peers {
		if p != nil {
			p.Poll()
		}
	}
	for _, s := range h.spectators {
		s.Poll()
	}

	h.checkInitialSync()
}

func (h *Host) checkInitialSync() {
	if !h.synchronizing {
		return
	}
	for _, p := range h.peers {
		if p != nil && !p.IsRunning() && !p.IsDisconnected() {
			return
		}
	}
	for _, s := range h.spectators {
		if !s.IsRunning() {
			return
		}
	}
	h.synchronizing = false
}

// DrainPeerEvent pops the next pending event for remote queue, if any.
func (h *Host) DrainPeerEvent(queue int) (Event, bool) {
	if queue < 0 || queue >= len(h.peers) || h.peers[queue] == nil {
		return Event{}, false
	}
	return h.peers[queue].GetEvent()
}

// MinConfirmedFrame returns the minimum last-confirmed frame across the
// local player and every connected remote queue, or noFrame if any queue
// has never confirmed a frame. Disconnected queues are excluded, matching
// the original's "discard confirmed frames as appropriate" policy: once a
// queue is marked disconnected its last known frame no longer holds back
// the rest of the session.
//
// This folds the original's cross-peer-reported-status reconciliation
// (PollNPlayers comparing every endpoint's view of every other queue) down
// to each queue's own best-known value, since Host already trusts its
// directly-received PeerConnection.lastReceivedFrame over any third-party
// relay of that same information.
func (h *Host) MinConfirmedFrame() int64 {
	min := int64(-1)
	first := true
	for _, s := range h.localStatus {
		if s.disconnected {
			continue
		}
		if first || s.lastFrame < min {
			min = s.lastFrame
			first = false
		}
	}
	if first {
		return noFrame
	}
	return min
}

// DisconnectPlayer forces queue's connection closed and marks it
// disconnected in localStatus so it stops holding back MinConfirmedFrame.
func (h *Host) DisconnectPlayer(queue int) error {
	if queue < 0 || queue >= len(h.peers) || h.peers[queue] == nil {
		return ErrInvalidPlayerHandle
	}
	h.peers[queue].Disconnect()
	h.localStatus[queue+1].disconnected = true
	return nil
}

// AdvanceSpectators pushes every combined-input frame up to
// totalMinConfirmed to every connected spectator, calling getCombined to
// build each frame's fan-out payload lazily.
func (h *Host) AdvanceSpectators(totalMinConfirmed engine.FrameType, getCombined func(engine.FrameType) input.PlayerInput) {
	for h.nextSpectatorFrame <= totalMinConfirmed {
		frame := h.nextSpectatorFrame
		combined := getCombined(frame)
		wire := EncodeInputMessage(InputMessage{
			StartFrame: uint32(frame),
			Frames:     []InputFrame{toInputFrame(combined)},
		})
		for _, s := range h.spectators {
			if s.IsRunning() {
				s.send(wire)
			}
		}
		h.nextSpectatorFrame++
	}
}
