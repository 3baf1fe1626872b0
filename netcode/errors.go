package netcode

import "errors"

var (
	// ErrPeerOutOfRange is returned when a caller references a peer queue
	// index outside [0, numPlayers).
	ErrPeerOutOfRange = errors.New("netcode: peer index out of range")

	// ErrInvalidPlayerHandle is returned when a caller's player handle
	// doesn't map to a queue this host knows about.
	ErrInvalidPlayerHandle = errors.New("netcode: invalid player handle")

	// ErrTooManySpectators is returned by AddSpectator once the spectator
	// slots are exhausted.
	ErrTooManySpectators = errors.New("netcode: too many spectators")

	// ErrAlreadyRunning is returned by AddSpectator once the handshake has
	// completed; spectators may only join before the session starts.
	ErrAlreadyRunning = errors.New("netcode: host already running")
)
