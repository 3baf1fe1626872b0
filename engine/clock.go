package engine

import "time"

// FrameType is the monotonic simulation frame counter shared across the
// kernel, the input buffer, the snapshot store, and the rollback session.
type FrameType uint32

// TimePerFrame is the fixed simulation tick rate. Rollback netcode requires
// a constant frame duration so remote peers can reason about how many
// frames of wall-clock time have passed without exchanging timestamps.
const TimePerFrame = time.Second / 60

// MaxCatchUpFrames caps how many frames a single update will report, so a
// debugger breakpoint or a slow machine hitching doesn't demand the
// simulation suddenly replay dozens of frames at once.
const MaxCatchUpFrames = 3

// FrameClock decides how many simulation frames to advance on a given real
// time update, clamping for both slow hitches and pause/resume edges.
type FrameClock struct {
	now func() time.Time

	lastUpdate     time.Time
	started        bool
	paused         bool
	pauseTime      time.Time
	justResumed    bool
}

// NewFrameClock builds a clock using time.Now. Tests should use
// NewFrameClockWithSource to supply a deterministic time source.
func NewFrameClock() *FrameClock {
	return NewFrameClockWithSource(time.Now)
}

func NewFrameClockWithSource(now func() time.Time) *FrameClock {
	return &FrameClock{now: now}
}

// Start (re)initializes the clock to its just-constructed state.
func (c *FrameClock) Start() {
	c.started = false
	c.paused = false
	c.justResumed = false
}

func (c *FrameClock) IsPaused() bool { return c.paused }

func (c *FrameClock) Pause() {
	c.paused = true
	c.pauseTime = c.now()
}

func (c *FrameClock) Resume() {
	c.paused = false
	c.justResumed = true
}

// CheckHowManyFramesToProcess returns how many simulation frames should run
// to catch up to real time. The very first call always reports exactly one
// frame. Immediately after Resume, at most one frame is reported even if
// more than one frame's worth of time elapsed while paused, so rapid
// pause/resume cycling can't be used to skip frames.
func (c *FrameClock) CheckHowManyFramesToProcess() FrameType {
	if c.paused {
		return 0
	}

	now := c.now()

	if !c.started {
		c.started = true
		c.lastUpdate = now
		return 1
	}

	if c.justResumed {
		c.justResumed = false
		if now.Sub(c.pauseTime) > TimePerFrame {
			c.lastUpdate = now
			return 1
		}
		c.lastUpdate = now
		return 0
	}

	elapsed := now.Sub(c.lastUpdate)
	frames := FrameType(elapsed / TimePerFrame)
	if frames == 0 {
		return 0
	}

	c.lastUpdate = c.lastUpdate.Add(TimePerFrame * time.Duration(frames))

	if frames > MaxCatchUpFrames {
		frames = MaxCatchUpFrames
	}
	return frames
}
