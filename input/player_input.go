package input

import "github.com/rivenshard/netcore/fp"

// PlayerInput is the full per-frame input payload for one player: movement
// and look axes plus the command bitset. This is the unit that gets sent
// over the wire and replayed during rollback resimulation.
type PlayerInput struct {
	MoveForward fp.Fixed
	MoveRight   fp.Fixed

	MouseTurn        fp.Fixed
	MouseLookUp      fp.Fixed
	ControllerTurn   fp.Fixed
	ControllerLookUp fp.Fixed

	Commands CommandSet
}
