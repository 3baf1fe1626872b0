package input

import "github.com/rivenshard/netcore/engine"

// BufferLifetime is how many frames a buffered command remains eligible for
// a single "initially pressed" consumption before it expires unused.
const BufferLifetime engine.FrameType = 7

// BufferedCommand remembers whether a single command was set on some past
// frame, so a later IsCommandInitiallyPressed can consume it exactly once
// even if the caller checks a few frames after the actual press.
type BufferedCommand struct {
	isSet    bool
	setFrame engine.FrameType
	wasUsed  bool
}

func (b *BufferedCommand) rememberSet(curFrame engine.FrameType) {
	b.isSet = true
	b.setFrame = curFrame
	b.wasUsed = false
}

func (b *BufferedCommand) getAndConsume() bool {
	b.wasUsed = true
	return b.isSet
}

func (b *BufferedCommand) clearIfConsumedOrExpired(latestCompletedFrame engine.FrameType) {
	if !b.isSet {
		return
	}
	if b.wasUsed || latestCompletedFrame-b.setFrame >= BufferLifetime {
		b.isSet = false
	}
}

// Buffer is the per-entity input buffer: it remembers raw per-frame command
// state plus a one-activation buffered view of each command's rising edge.
type Buffer struct {
	raw      CommandSet
	buffered [commandCount]BufferedCommand
}

// UpdateCommands records newSet as this frame's raw command state and, for
// every command that transitioned from unset to set, remembers it in the
// buffer so a later IsCommandInitiallyPressed call can still observe the
// press.
func (b *Buffer) UpdateCommands(curFrame engine.FrameType, newSet CommandSet) {
	for cmd := Command(0); cmd < commandCount; cmd++ {
		if newSet.IsSet(cmd) && !b.raw.IsSet(cmd) {
			b.buffered[cmd].rememberSet(curFrame)
		}
	}
	b.raw = newSet
}

// IsCommandInitiallyPressed reports whether cmd has a pending buffered press
// and consumes it: a later call for the same press returns false even if the
// command is still physically held.
func (b *Buffer) IsCommandInitiallyPressed(cmd Command) bool {
	return b.buffered[cmd].getAndConsume()
}

// IsCommandHeld reports the raw, unbuffered state of cmd for this frame.
func (b *Buffer) IsCommandHeld(cmd Command) bool {
	return b.raw.IsSet(cmd)
}

// ClearConsumedOrExpiredInputs drops any buffered press that has already
// been consumed, or that has sat unconsumed for BufferLifetime frames or
// more. Called once per frame after gameplay has had a chance to consume
// presses.
func (b *Buffer) ClearConsumedOrExpiredInputs(curFrame engine.FrameType) {
	for i := range b.buffered {
		b.buffered[i].clearIfConsumedOrExpired(curFrame)
	}
}
