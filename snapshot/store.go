package snapshot

import (
	"errors"

	"github.com/rivenshard/netcore/engine"
)

// Window is the maximum rollback window: how many trailing frames of
// simulation state the store keeps available for Get/rollback.
const Window = 8

var (
	// ErrFrameOutOfOrder is returned by Put when frame skips ahead of the
	// newest stored frame plus one, or lies Window or more frames behind it.
	// Overwriting any frame still inside the window is allowed.
	ErrFrameOutOfOrder = errors.New("snapshot: frame out of order")

	// ErrOutOfWindow is returned by Get when frame falls outside the
	// currently retained window.
	ErrOutOfWindow = errors.New("snapshot: frame out of window")
)

// Snapshot is an opaque, caller-computed capture of simulation state for a
// single frame. The store never inspects Payload; Checksum is provided by
// the caller (typically a CRC32 over whatever state Payload represents) so
// desync detection can compare checksums across peers without sending full
// payloads.
type Snapshot struct {
	Payload  []byte
	Checksum uint32
}

// copyOf returns a snapshot holding an independent copy of s.Payload, since
// the store must never alias into caller-owned memory.
func copyOf(s Snapshot) Snapshot {
	return Snapshot{
		Payload:  append([]byte(nil), s.Payload...),
		Checksum: s.Checksum,
	}
}

type slot struct {
	frame    engine.FrameType
	snapshot Snapshot
	filled   bool
}

// Store is a ring buffer of the last Window snapshots, keyed by frame.
type Store struct {
	slots       [Window]slot
	hasNewest   bool
	newestFrame engine.FrameType
}

func NewStore() *Store {
	return &Store{}
}

// Put stores snap for frame. frame must not skip ahead of the store's
// expected next frame (newest+1), and may not reach further back than the
// retained window — but, within those bounds, re-storing an earlier frame
// is allowed. This is what lets rollback resimulation overwrite a run of
// already-stored frames with corrected state after restoring an older
// snapshot, while still catching a genuine skipped-frame bug.
func (s *Store) Put(frame engine.FrameType, snap Snapshot) error {
	if s.hasNewest {
		if frame > s.newestFrame+1 {
			return ErrFrameOutOfOrder
		}
		if frame < s.newestFrame && s.newestFrame-frame >= Window {
			return ErrFrameOutOfOrder
		}
	}

	idx := int(frame) % Window
	s.slots[idx] = slot{frame: frame, snapshot: copyOf(snap), filled: true}

	if !s.hasNewest || frame > s.newestFrame {
		s.newestFrame = frame
	}
	s.hasNewest = true
	return nil
}

// Get returns the snapshot stored for frame. frame must lie within the
// currently retained window, and must actually have been stored (not
// merely in-range of an empty store).
func (s *Store) Get(frame engine.FrameType) (Snapshot, error) {
	if !s.hasNewest {
		return Snapshot{}, ErrOutOfWindow
	}
	if frame > s.newestFrame || s.newestFrame-frame >= Window {
		return Snapshot{}, ErrOutOfWindow
	}

	idx := int(frame) % Window
	entry := s.slots[idx]
	if !entry.filled || entry.frame != frame {
		return Snapshot{}, ErrOutOfWindow
	}
	return copyOf(entry.snapshot), nil
}

// Oldest returns the oldest frame still retained in the window, or false if
// the store is empty.
func (s *Store) Oldest() (engine.FrameType, bool) {
	if !s.hasNewest {
		return 0, false
	}

	oldest := s.newestFrame
	for _, sl := range s.slots {
		if !sl.filled {
			continue
		}
		if s.newestFrame-sl.frame >= Window {
			continue
		}
		if sl.frame < oldest {
			oldest = sl.frame
		}
	}
	return oldest, true
}

// Newest returns the most recently stored frame, or false if the store is
// empty.
func (s *Store) Newest() (engine.FrameType, bool) {
	if !s.hasNewest {
		return 0, false
	}
	return s.newestFrame, true
}
