package netcode

import (
	"math/rand"
	"time"

	"github.com/rivenshard/netcore/engine"
	"github.com/rivenshard/netcore/input"
)

// ConnectionState is a peer connection's place in the Syncing → Running →
// Disconnected machine from spec.md §4.10.
type ConnectionState int

const (
	StateSyncing ConnectionState = iota
	StateRunning
	StateDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateSyncing:
		return "Syncing"
	case StateRunning:
		return "Running"
	case StateDisconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// EventType tags a PeerConnection lifecycle event.
type EventType int

const (
	EventConnected EventType = iota
	EventSynchronizing
	EventSynchronized
	EventNetworkInterrupted
	EventNetworkResumed
	EventInput
	EventDisconnected
)

// Event is a single lifecycle notification drained via GetEvent, mirroring
// the original's ConnectionProtocol::Event union.
type Event struct {
	Type EventType

	SyncRoundsDone, SyncRoundsTotal int

	InputFrame engine.FrameType
	Input      input.PlayerInput

	DisconnectTimeout time.Duration
}

// noFrame is the sentinel for "no frame received/acked yet".
const noFrame int64 = -1

// PeerConnection owns one remote peer's wire-level state: handshake
// progress, disconnect timers, and input send/ack windowing. It never
// touches rollback.Session directly; Host hands its events out through
// DrainPeerEvent, and feeding confirmed input into the session is left to
// the caller.
type PeerConnection struct {
	queue  int
	peerID int

	transport Transport
	logger    engine.Logger
	now       func() time.Time

	state ConnectionState

	pendingNonce     uint32
	roundsCompleted  int
	handshakeStarted bool

	lastSendTime time.Time
	lastRecvTime time.Time

	disconnectTimeout     time.Duration
	disconnectNotifyStart time.Duration
	disconnectNotifySent  bool

	lastReceivedFrame int64
	lastAckedFrame    int64

	sequence uint16

	events []Event
}

// NewPeerConnection constructs a connection for queue (this host's local
// player-slot index for the peer) talking to peerID over transport.
func NewPeerConnection(queue, peerID int, transport Transport, logger engine.Logger, now func() time.Time) *PeerConnection {
	if logger == nil {
		logger = engine.NopLogger()
	}
	if now == nil {
		now = time.Now
	}
	return &PeerConnection{
		queue:                 queue,
		peerID:                peerID,
		transport:             transport,
		logger:                logger,
		now:                   now,
		state:                 StateSyncing,
		disconnectTimeout:     DefaultDisconnectTimeout,
		disconnectNotifyStart: DefaultDisconnectNotifyStart,
		lastReceivedFrame:     noFrame,
		lastAckedFrame:        noFrame,
	}
}

func (p *PeerConnection) State() ConnectionState { return p.state }
func (p *PeerConnection) IsRunning() bool         { return p.state == StateRunning }
func (p *PeerConnection) IsDisconnected() bool    { return p.state == StateDisconnected }

func (p *PeerConnection) SetDisconnectTimeout(d time.Duration)     { p.disconnectTimeout = d }
func (p *PeerConnection) SetDisconnectNotifyStart(d time.Duration) { p.disconnectNotifyStart = d }

// LastReceivedFrame is this peer's most recently received input frame, or
// -1 if none has arrived yet.
func (p *PeerConnection) LastReceivedFrame() int64 { return p.lastReceivedFrame }

// Synchronize kicks off the handshake by sending the first SyncRequest.
func (p *PeerConnection) Synchronize() {
	p.handshakeStarted = true
	p.touchSend()
	p.pushEvent(Event{Type: EventSynchronizing, SyncRoundsDone: 0, SyncRoundsTotal: SyncHandshakeRounds})
	p.sendNextSyncRequest()
}

func (p *PeerConnection) sendNextSyncRequest() {
	p.pendingNonce = rand.Uint32()
	p.send(EncodeSyncRequest(SyncRequest{Nonce: p.pendingNonce}))
}

// OnMsg dispatches a received packet by its leading msg-type byte. It
// always resets the disconnect timer: any traffic, even from a stale round,
// proves the link is alive.
func (p *PeerConnection) OnMsg(data []byte) {
	p.touchRecv()

	msgType, err := PeekMessageType(data)
	if err != nil {
		p.logger.Warnf("netcode: peer %d sent a packet too short to read", p.queue)
		return
	}

	switch msgType {
	case MessageSyncRequest:
		req, err := DecodeSyncRequest(data)
		if err != nil {
			return
		}
		p.send(EncodeSyncReply(SyncReply{Nonce: req.Nonce}))

	case MessageSyncReply:
		reply, err := DecodeSyncReply(data)
		if err != nil {
			return
		}
		if reply.Nonce != p.pendingNonce {
			return
		}
		p.roundsCompleted++
		if p.roundsCompleted >= SyncHandshakeRounds {
			p.completeHandshake()
		} else {
			p.pushEvent(Event{Type: EventSynchronizing, SyncRoundsDone: p.roundsCompleted, SyncRoundsTotal: SyncHandshakeRounds})
			p.sendNextSyncRequest()
		}

	case MessageInput:
		msg, err := DecodeInputMessage(data)
		if err != nil {
			return
		}
		p.onInputMessage(msg)

	case MessageInputAck:
		ack, err := DecodeInputAck(data)
		if err != nil {
			return
		}
		if int64(ack.AckFrame) > p.lastAckedFrame {
			p.lastAckedFrame = int64(ack.AckFrame)
		}

	case MessageQualityReport:
		report, err := DecodeQualityReport(data)
		if err != nil {
			return
		}
		p.send(EncodeQualityReply(QualityReply{SendTimeMillis: report.SendTimeMillis}))

	case MessageQualityReply:
		// Round-trip completion; a richer implementation would feed this
		// into a running RTT estimate. Receiving it already reset the
		// disconnect timer above, which is the only thing the session
		// depends on today.

	case MessageKeepAlive:
		// No-op beyond the disconnect-timer reset already applied above.
	}
}

func (p *PeerConnection) completeHandshake() {
	wasDisconnected := p.state == StateDisconnected
	p.state = StateRunning
	p.pushEvent(Event{Type: EventSynchronized})
	if wasDisconnected {
		p.pushEvent(Event{Type: EventNetworkResumed})
	} else {
		p.pushEvent(Event{Type: EventConnected})
	}
}

func (p *PeerConnection) onInputMessage(msg InputMessage) {
	for i, f := range msg.Frames {
		frame := engine.FrameType(msg.StartFrame) + engine.FrameType(i)
		if int64(frame) <= p.lastReceivedFrame {
			continue // already have it; this is the lazy-resend window overlapping
		}
		p.lastReceivedFrame = int64(frame)
		p.pushEvent(Event{Type: EventInput, InputFrame: frame, Input: fromInputFrame(f)})
	}
	if len(msg.Frames) > 0 {
		lastFrame := msg.StartFrame + uint32(len(msg.Frames)) - 1
		p.send(EncodeInputAck(InputAck{AckFrame: lastFrame}))
	}
}

// SendInput transmits every local frame in history starting at startFrame
// that this peer hasn't yet acked, capped at Window frames, per spec.md
// §4.10's "bundle all un-acked inputs" send policy. peerLastReceived is this
// host's view of every peer's last-received frame, for the receiver's own
// disconnect bookkeeping.
func (p *PeerConnection) SendInput(startFrame engine.FrameType, history []input.PlayerInput, peerLastReceived []uint32) {
	if p.state != StateRunning {
		return
	}

	sendFrom := startFrame
	if p.lastAckedFrame != noFrame && int64(sendFrom) <= p.lastAckedFrame {
		sendFrom = engine.FrameType(p.lastAckedFrame + 1)
	}
	skip := int(sendFrom - startFrame)
	if skip < 0 || skip >= len(history) {
		return
	}
	run := history[skip:]
	if len(run) > windowCap {
		dropped := len(run) - windowCap
		run = run[dropped:]
		sendFrom += engine.FrameType(dropped)
	}

	frames := make([]InputFrame, len(run))
	for i, in := range run {
		frames[i] = toInputFrame(in)
	}

	p.sequence++
	msg := InputMessage{
		Sequence:         p.sequence,
		StartFrame:       uint32(sendFrom),
		Frames:           frames,
		PeerLastReceived: peerLastReceived,
	}
	p.send(EncodeInputMessage(msg))
}

// windowCap bounds how many frames a single Input message carries, matching
// the rollback session's retained window — there's never a reason to send
// more than the receiver could possibly need to resimulate.
const windowCap = 8

func (p *PeerConnection) send(data []byte) {
	p.touchSend()
	if err := p.transport.SendTo(p.peerID, data, 0); err != nil {
		p.logger.Warnf("netcode: send to peer %d failed: %v", p.queue, err)
	}
}

func (p *PeerConnection) touchSend() { p.lastSendTime = p.now() }
func (p *PeerConnection) touchRecv() { p.lastRecvTime = p.now() }

// Poll checks disconnect timers and should be called once per host tick.
func (p *PeerConnection) Poll() {
	if p.state == StateDisconnected {
		return
	}
	if p.lastRecvTime.IsZero() {
		return
	}

	idle := p.now().Sub(p.lastRecvTime)

	if idle >= p.disconnectTimeout {
		p.state = StateDisconnected
		p.pushEvent(Event{Type: EventDisconnected, DisconnectTimeout: p.disconnectTimeout})
		return
	}

	if idle >= p.disconnectNotifyStart && !p.disconnectNotifySent {
		p.disconnectNotifySent = true
		p.pushEvent(Event{Type: EventNetworkInterrupted, DisconnectTimeout: p.disconnectTimeout - idle})
	} else if idle < p.disconnectNotifyStart && p.disconnectNotifySent {
		p.disconnectNotifySent = false
		p.pushEvent(Event{Type: EventNetworkResumed})
	}
}

// Disconnect forces this connection into Disconnected, e.g. on local
// user request.
func (p *PeerConnection) Disconnect() {
	if p.state == StateDisconnected {
		return
	}
	p.state = StateDisconnected
	p.pushEvent(Event{Type: EventDisconnected})
}

func (p *PeerConnection) pushEvent(e Event) {
	p.events = append(p.events, e)
}

// GetEvent drains the oldest pending event, if any.
func (p *PeerConnection) GetEvent() (Event, bool) {
	if len(p.events) == 0 {
		return Event{}, false
	}
	e := p.events[0]
	p.events = p.events[1:]
	return e, true
}
