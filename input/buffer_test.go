package input

import (
	"testing"

	"github.com/rivenshard/netcore/engine"
	"github.com/stretchr/testify/assert"
)

func TestCommandSetFirstAndLastSlot(t *testing.T) {
	var set CommandSet
	assert.False(t, set.IsSet(CommandCrouch))

	set = set.With(CommandCrouch, true)
	assert.True(t, set.IsSet(CommandCrouch))
	assert.Equal(t, CommandSet(1), set)

	var lastSlotSet CommandSet
	lastSlotSet = lastSlotSet.With(CommandSprint, true)
	assert.Equal(t, CommandSet(1<<uint(CommandSprint)), lastSlotSet)
}

func TestBufferInitiallyPressedConsumesOnce(t *testing.T) {
	var b Buffer
	b.UpdateCommands(10, CommandSet(0).With(CommandJump, true))

	assert.True(t, b.IsCommandInitiallyPressed(CommandJump))
	assert.False(t, b.IsCommandInitiallyPressed(CommandJump))
}

func TestBufferHeldReflectsRawStateEveryFrame(t *testing.T) {
	var b Buffer
	pressed := CommandSet(0).With(CommandGuard, true)
	b.UpdateCommands(1, pressed)
	b.UpdateCommands(2, pressed)

	assert.True(t, b.IsCommandHeld(CommandGuard))
	// Held across two frames shouldn't re-buffer a second initial press.
	assert.True(t, b.IsCommandInitiallyPressed(CommandGuard))
	assert.False(t, b.IsCommandInitiallyPressed(CommandGuard))
}

// TestInputBufferExpiry mirrors: press Jump at frame 10, never consume it.
// At frame 16 (6 frames later) it must still read as initially pressed.
// The frame-17 expiry half is checked by TestInputBufferExpiresAtEighthFrame.
func TestInputBufferExpiry(t *testing.T) {
	var b Buffer
	b.UpdateCommands(10, CommandSet(0).With(CommandJump, true))

	// Simulate frames ticking forward without ever consuming the press,
	// running the per-frame expiry sweep exactly as the caller would.
	for frame := engine.FrameType(11); frame <= 16; frame++ {
		b.UpdateCommands(frame, 0)
		b.ClearConsumedOrExpiredInputs(frame)
	}

	assert.True(t, b.IsCommandInitiallyPressed(CommandJump))
}

func TestInputBufferExpiresAtEighthFrame(t *testing.T) {
	var b Buffer
	b.UpdateCommands(10, CommandSet(0).With(CommandJump, true))

	for frame := engine.FrameType(11); frame <= 17; frame++ {
		b.UpdateCommands(frame, 0)
		b.ClearConsumedOrExpiredInputs(frame)
	}

	assert.False(t, b.IsCommandInitiallyPressed(CommandJump))
}
