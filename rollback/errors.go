package rollback

import "errors"

var (
	// ErrRollbackWindowExceeded is returned by Tick (with WaitFrame) when a
	// rollback needs a snapshot the store no longer retains. A peer whose
	// confirmed input falls more than Window frames behind is reported as a
	// stall instead: Tick returns WaitFrame with a nil error.
	ErrRollbackWindowExceeded = errors.New("rollback: peer input window exceeded")

	// ErrNotSynchronized is returned by AddLocalInput and Tick before the
	// session has been marked synchronized.
	ErrNotSynchronized = errors.New("rollback: session not synchronized")

	// ErrPredictionThreshold is returned by AddLocalInput when accepting it
	// would let the local side run more than Window frames ahead of any
	// remote confirmation.
	ErrPredictionThreshold = errors.New("rollback: prediction threshold exceeded")
)
