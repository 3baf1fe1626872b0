package netcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/input"
)

type sentPacket struct {
	peerID int
	data   []byte
}

// fakeTransport records every SendTo call and lets the test manually queue
// inbound packets for ReceiveFrom, so peer/host logic can be exercised
// without real sockets.
type fakeTransport struct {
	sent  []sentPacket
	inbox []sentPacket
}

func (f *fakeTransport) SendTo(peerID int, data []byte, flags int) error {
	f.sent = append(f.sent, sentPacket{peerID, data})
	return nil
}

func (f *fakeTransport) ReceiveFrom() (int, []byte, bool) {
	if len(f.inbox) == 0 {
		return 0, nil, false
	}
	pkt := f.inbox[0]
	f.inbox = f.inbox[1:]
	return pkt.peerID, pkt.data, true
}

func (f *fakeTransport) lastSent() sentPacket {
	return f.sent[len(f.sent)-1]
}

func runHandshake(t *testing.T, conn *PeerConnection, transport *fakeTransport) {
	t.Helper()
	conn.Synchronize()
	for i := 0; i < SyncHandshakeRounds; i++ {
		last := transport.lastSent()
		req, err := DecodeSyncRequest(last.data)
		require.NoError(t, err)
		conn.OnMsg(EncodeSyncReply(SyncReply{Nonce: req.Nonce}))
	}
}

func TestPeerConnectionHandshakeReachesRunning(t *testing.T) {
	transport := &fakeTransport{}
	now := time.Unix(0, 0)
	conn := NewPeerConnection(0, 7, transport, nil, func() time.Time { return now })

	runHandshake(t, conn, transport)

	assert.Equal(t, StateRunning, conn.State())

	var sawConnected bool
	for {
		ev, ok := conn.GetEvent()
		if !ok {
			break
		}
		if ev.Type == EventConnected {
			sawConnected = true
		}
	}
	assert.True(t, sawConnected)
}

func TestPeerConnectionStaleNonceDoesNotAdvance(t *testing.T) {
	transport := &fakeTransport{}
	now := time.Unix(0, 0)
	conn := NewPeerConnection(0, 7, transport, nil, func() time.Time { return now })

	conn.Synchronize()
	conn.OnMsg(EncodeSyncReply(SyncReply{Nonce: 99999})) // doesn't match pendingNonce

	assert.Equal(t, StateSyncing, conn.State())
	assert.Equal(t, 0, conn.roundsCompleted)
}

func TestPeerConnectionOnInputMessageDedupsAndAcks(t *testing.T) {
	transport := &fakeTransport{}
	now := time.Unix(0, 0)
	conn := NewPeerConnection(0, 7, transport, nil, func() time.Time { return now })
	runHandshake(t, conn, transport)
	// Drop the handshake's own events so only input events are counted below.
	for {
		if _, ok := conn.GetEvent(); !ok {
			break
		}
	}
	transport.sent = nil

	in := input.PlayerInput{MoveForward: fp.FromInt(1), Commands: input.CommandSet(2)}
	msg := InputMessage{StartFrame: 10, Frames: []InputFrame{toInputFrame(in), toInputFrame(in)}}
	conn.OnMsg(EncodeInputMessage(msg))

	assert.EqualValues(t, 11, conn.LastReceivedFrame())

	var events []Event
	for {
		ev, ok := conn.GetEvent()
		if !ok {
			break
		}
		events = append(events, ev)
	}
	require.Len(t, events, 2)
	assert.Equal(t, EventInput, events[0].Type)
	assert.EqualValues(t, 10, events[0].InputFrame)
	assert.EqualValues(t, 11, events[1].InputFrame)

	ack, err := DecodeInputAck(transport.lastSent().data)
	require.NoError(t, err)
	assert.EqualValues(t, 11, ack.AckFrame)

	// Re-delivering the same run must not re-emit already-seen frames.
	conn.OnMsg(EncodeInputMessage(msg))
	_, ok := conn.GetEvent()
	assert.False(t, ok)
}

func TestPeerConnectionDisconnectTimerFiresNotifyThenDisconnect(t *testing.T) {
	transport := &fakeTransport{}
	now := time.Unix(0, 0)
	conn := NewPeerConnection(0, 7, transport, nil, func() time.Time { return now })
	runHandshake(t, conn, transport)
	for {
		if _, ok := conn.GetEvent(); !ok {
			break
		}
	}

	now = now.Add(DefaultDisconnectNotifyStart + time.Millisecond)
	conn.Poll()
	ev, ok := conn.GetEvent()
	require.True(t, ok)
	assert.Equal(t, EventNetworkInterrupted, ev.Type)
	assert.Equal(t, StateRunning, conn.State())

	now = now.Add(DefaultDisconnectTimeout)
	conn.Poll()
	ev, ok = conn.GetEvent()
	require.True(t, ok)
	assert.Equal(t, EventDisconnected, ev.Type)
	assert.Equal(t, StateDisconnected, conn.State())
}

func TestPeerConnectionSendInputOnlySendsUnacked(t *testing.T) {
	transport := &fakeTransport{}
	now := time.Unix(0, 0)
	conn := NewPeerConnection(0, 7, transport, nil, func() time.Time { return now })
	runHandshake(t, conn, transport)
	transport.sent = nil

	history := make([]input.PlayerInput, 5)
	for i := range history {
		history[i] = input.PlayerInput{MoveForward: fp.FromInt(int64(i))}
	}
	conn.SendInput(0, history, nil)

	msg, err := DecodeInputMessage(transport.lastSent().data)
	require.NoError(t, err)
	assert.EqualValues(t, 0, msg.StartFrame)
	assert.Len(t, msg.Frames, 5)

	conn.OnMsg(EncodeInputAck(InputAck{AckFrame: 2}))
	conn.SendInput(0, history, nil)

	msg, err = DecodeInputMessage(transport.lastSent().data)
	require.NoError(t, err)
	assert.EqualValues(t, 3, msg.StartFrame)
	assert.Len(t, msg.Frames, 2)
}
