package netcode

// Transport is the narrow network seam the peer protocol consumes, per
// spec.md §6. Implementations decide how bytes actually cross the wire
// (UDP socket, websocket, in-process channel for tests); the protocol layer
// never assumes anything about the transport beyond this interface.
type Transport interface {
	// SendTo transmits data to peerID. flags is transport-specific (e.g. a
	// reliability/priority hint); implementations that don't distinguish
	// may ignore it.
	SendTo(peerID int, data []byte, flags int) error

	// ReceiveFrom returns the next queued packet and its origin, or
	// ok=false if nothing is available. It must never block.
	ReceiveFrom() (peerID int, data []byte, ok bool)
}
