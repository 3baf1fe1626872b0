package rollback

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/rivenshard/netcore/engine"
	"github.com/rivenshard/netcore/input"
	"github.com/rivenshard/netcore/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUser is a minimal deterministic SessionUser: its "simulation" state is
// a single int64 accumulator, updated by summing every peer's CommandSet
// value for the frame. This is enough to exercise rollback/resim equivalence
// without needing the full collision/engine stack in these tests.
type fakeUser struct {
	state        int64
	localInputs  map[engine.FrameType]input.PlayerInput
	processed    []engine.FrameType
	rollbackHits int
	stalls       int
	exitedFrames []engine.FrameType
}

func newFakeUser() *fakeUser {
	return &fakeUser{localInputs: make(map[engine.FrameType]input.PlayerInput)}
}

func (f *fakeUser) GenerateSnapshot(frame engine.FrameType) snapshot.Snapshot {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint64(payload, uint64(f.state))
	return snapshot.Snapshot{Payload: payload, Checksum: crc32.ChecksumIEEE(payload)}
}

func (f *fakeUser) RestoreSnapshot(frame engine.FrameType, snap snapshot.Snapshot) {
	f.state = int64(binary.LittleEndian.Uint64(snap.Payload))
}

func (f *fakeUser) GetInputForNextFrame(frame engine.FrameType) (input.PlayerInput, bool) {
	in, ok := f.localInputs[frame]
	return in, ok
}

func (f *fakeUser) applyFrame(frame engine.FrameType, inputsPerPeer map[int]input.PlayerInput) {
	for _, in := range inputsPerPeer {
		f.state += int64(in.Commands)
	}
	f.processed = append(f.processed, frame)
}

func (f *fakeUser) ProcessFrame(frame engine.FrameType, inputsPerPeer map[int]input.PlayerInput) {
	f.applyFrame(frame, inputsPerPeer)
}

func (f *fakeUser) ProcessFrameWithoutRendering(frame engine.FrameType, inputsPerPeer map[int]input.PlayerInput) {
	f.applyFrame(frame, inputsPerPeer)
}

func (f *fakeUser) OnPostRollback() { f.rollbackHits++ }

func (f *fakeUser) SendTimeQualityReport(frame engine.FrameType) {}

func (f *fakeUser) SendLocalInputsToRemotePlayers(frame engine.FrameType, history []input.PlayerInput) {}

func (f *fakeUser) OnStallingForRemoteInputs(info StallInfo) { f.stalls++ }

func (f *fakeUser) OnInputsExitRollbackWindow(confirmedFrame engine.FrameType) {
	f.exitedFrames = append(f.exitedFrames, confirmedFrame)
}

func neutralInput() input.PlayerInput { return input.PlayerInput{} }

func jumpInput() input.PlayerInput {
	return input.PlayerInput{Commands: input.CommandSet(1)}
}

func TestSessionProceedsNormallyWithNoMispredictions(t *testing.T) {
	user := newFakeUser()
	session := NewSession(user, 1, nil)
	session.MarkSynchronized()

	for f := engine.FrameType(0); f < 5; f++ {
		user.localInputs[f] = neutralInput()
		session.IngestRemoteInput(0, f, neutralInput())

		decision, err := session.Tick()
		require.NoError(t, err)
		assert.Equal(t, ProceedNormally, decision)
	}

	assert.Equal(t, engine.FrameType(5), session.CurrentFrame())
}

func TestSessionStallsWhenPeerFallsOutsideWindow(t *testing.T) {
	user := newFakeUser()
	session := NewSession(user, 1, nil)
	session.MarkSynchronized()

	for f := engine.FrameType(0); f < Window+2; f++ {
		user.localInputs[f] = neutralInput()
		decision, err := session.Tick()
		require.NoError(t, err)
		if f > Window {
			assert.Equal(t, WaitFrame, decision)
		}
	}

	assert.True(t, user.stalls > 0)
}

// TestSessionRollbackEquivalence mirrors the "rollback one frame" scenario:
// simulate forward predicting neutral input for the remote peer, then
// deliver a late confirmation that frame 3 was actually a jump. The
// session must detect the misprediction and roll back. The resulting state
// at frame 5 must equal what a from-scratch simulation with the corrected
// input from frame 3 onward would have produced.
func TestSessionRollbackEquivalence(t *testing.T) {
	user := newFakeUser()
	session := NewSession(user, 1, nil)
	session.MarkSynchronized()

	// Frames 0..2: remote confirmed neutral as we go.
	for f := engine.FrameType(0); f <= 2; f++ {
		user.localInputs[f] = neutralInput()
		session.IngestRemoteInput(0, f, neutralInput())
		_, err := session.Tick()
		require.NoError(t, err)
	}

	// Frame 3: we predict neutral (no confirmation yet arrived).
	user.localInputs[3] = neutralInput()
	_, err := session.Tick()
	require.NoError(t, err)

	// Frame 4: still predicting.
	user.localInputs[4] = neutralInput()
	_, err = session.Tick()
	require.NoError(t, err)

	// Now the real input for frame 3 arrives late: it was actually a jump.
	session.IngestRemoteInput(0, 3, jumpInput())
	// Keep the peer inside the window for the remaining frames.
	session.IngestRemoteInput(0, 4, neutralInput())

	user.localInputs[5] = neutralInput()
	decision, err := session.Tick()
	require.NoError(t, err)
	assert.Equal(t, Rollback, decision)
	assert.Equal(t, 1, user.rollbackHits)

	rolledBackState := user.state

	// Reference run: simulate forward from scratch with the corrected
	// input for frame 3 present from the very start.
	refUser := newFakeUser()
	refSession := NewSession(refUser, 1, nil)
	refSession.MarkSynchronized()

	correctedRemote := map[engine.FrameType]input.PlayerInput{
		0: neutralInput(), 1: neutralInput(), 2: neutralInput(),
		3: jumpInput(), 4: neutralInput(), 5: neutralInput(),
	}
	for f := engine.FrameType(0); f <= 5; f++ {
		refUser.localInputs[f] = neutralInput()
		refSession.IngestRemoteInput(0, f, correctedRemote[f])
		_, err := refSession.Tick()
		require.NoError(t, err)
	}

	assert.Equal(t, refUser.state, rolledBackState)
}

func TestSessionRefusesInputBeforeSynchronized(t *testing.T) {
	user := newFakeUser()
	session := NewSession(user, 1, nil)

	err := session.AddLocalInput(neutralInput())
	assert.ErrorIs(t, err, ErrNotSynchronized)

	_, err = session.Tick()
	assert.ErrorIs(t, err, ErrNotSynchronized)
}

func TestSessionIDIsStableAndUnique(t *testing.T) {
	a := NewSession(newFakeUser(), 1, nil)
	b := NewSession(newFakeUser(), 1, nil)

	assert.NotEmpty(t, a.SessionID())
	assert.Equal(t, a.SessionID(), a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
