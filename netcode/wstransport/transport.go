// Package wstransport provides a concrete netcode.Transport over websocket
// connections, so the peer protocol has at least one real I/O surface
// instead of only an interface.
package wstransport

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rivenshard/netcore/engine"
)

type inboundPacket struct {
	peerID int
	data   []byte
}

// Transport implements netcode.Transport by fanning out to one
// *websocket.Conn per peer. Each connection gets its own read goroutine
// feeding a shared inbox channel; ReceiveFrom drains that channel
// non-blockingly, matching the Transport contract's "must never block".
type Transport struct {
	logger engine.Logger

	mu    sync.Mutex
	conns map[int]*websocket.Conn

	inbox chan inboundPacket
}

// New constructs an empty Transport. Connections are added as peers join
// via AddConn.
func New(logger engine.Logger) *Transport {
	if logger == nil {
		logger = engine.NopLogger()
	}
	return &Transport{
		logger: logger,
		conns:  make(map[int]*websocket.Conn),
		inbox:  make(chan inboundPacket, 256),
	}
}

// AddConn registers conn as the transport-level path to peerID and starts
// its read loop. Any previous connection for peerID is closed first.
func (t *Transport) AddConn(peerID int, conn *websocket.Conn) {
	t.mu.Lock()
	if old, ok := t.conns[peerID]; ok {
		old.Close()
	}
	t.conns[peerID] = conn
	t.mu.Unlock()

	go t.readLoop(peerID, conn)
}

func (t *Transport) readLoop(peerID int, conn *websocket.Conn) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			t.logger.Warnf("wstransport: peer %d read failed, dropping connection: %v", peerID, err)
			t.removeConn(peerID, conn)
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		t.inbox <- inboundPacket{peerID: peerID, data: data}
	}
}

func (t *Transport) removeConn(peerID int, conn *websocket.Conn) {
	t.mu.Lock()
	if t.conns[peerID] == conn {
		delete(t.conns, peerID)
	}
	t.mu.Unlock()
}

// SendTo writes data as a single binary websocket message to peerID.
// flags is unused; this transport has no reliability/priority tiers to
// distinguish.
func (t *Transport) SendTo(peerID int, data []byte, flags int) error {
	t.mu.Lock()
	conn, ok := t.conns[peerID]
	t.mu.Unlock()
	if !ok {
		return errUnknownPeer{peerID}
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

// ReceiveFrom returns the next queued packet, or ok=false if none is
// currently available. Never blocks.
func (t *Transport) ReceiveFrom() (peerID int, data []byte, ok bool) {
	select {
	case pkt := <-t.inbox:
		return pkt.peerID, pkt.data, true
	default:
		return 0, nil, false
	}
}

// Close closes every registered connection.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, conn := range t.conns {
		conn.Close()
		delete(t.conns, id)
	}
}

type errUnknownPeer struct{ peerID int }

func (e errUnknownPeer) Error() string {
	return fmt.Sprintf("wstransport: no connection registered for peer %d", e.peerID)
}
