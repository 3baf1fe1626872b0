package netcode

import (
	"github.com/rivenshard/netcore/fp"
	"github.com/rivenshard/netcore/input"
)

// toInputFrame flattens a PlayerInput into its wire representation.
func toInputFrame(in input.PlayerInput) InputFrame {
	return InputFrame{
		MoveForward:      in.MoveForward.Raw(),
		MoveRight:        in.MoveRight.Raw(),
		MouseTurn:        in.MouseTurn.Raw(),
		MouseLookUp:      in.MouseLookUp.Raw(),
		ControllerTurn:   in.ControllerTurn.Raw(),
		ControllerLookUp: in.ControllerLookUp.Raw(),
		CommandBits:      uint32(in.Commands),
	}
}

// fromInputFrame reconstructs a PlayerInput from its wire representation.
func fromInputFrame(f InputFrame) input.PlayerInput {
	return input.PlayerInput{
		MoveForward:      fp.FromRaw(f.MoveForward),
		MoveRight:        fp.FromRaw(f.MoveRight),
		MouseTurn:        fp.FromRaw(f.MouseTurn),
		MouseLookUp:      fp.FromRaw(f.MouseLookUp),
		ControllerTurn:   fp.FromRaw(f.ControllerTurn),
		ControllerLookUp: fp.FromRaw(f.ControllerLookUp),
		Commands:         input.CommandSet(f.CommandBits),
	}
}
