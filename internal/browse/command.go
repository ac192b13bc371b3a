package browse

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownCommand is returned by ParseCommand.
var ErrUnknownCommand = errors.New("browse: unknown command")

// Command is one user action on a browse session.
type Command int

const (
	CmdToggleTrack Command = iota
	CmdToggleAutoAdvance
	CmdNextMotion
	CmdPrevMotion
	CmdStepForward
	CmdStepBack
	CmdCycleSpeed
	CmdOrbitLeft
	CmdOrbitRight
	CmdOrbitUp
	CmdOrbitDown
	CmdZoomIn
	CmdZoomOut
)

// Camera steps applied by the orbit and zoom commands.
const (
	OrbitStep = math.Pi / 16
	ZoomStep  = 0.8
)

var commandNames = map[Command]string{
	CmdToggleTrack:       "track",
	CmdToggleAutoAdvance: "auto",
	CmdNextMotion:        "next",
	CmdPrevMotion:        "prev",
	CmdStepForward:       "step+",
	CmdStepBack:          "step-",
	CmdCycleSpeed:        "speed",
	CmdOrbitLeft:         "orbit-left",
	CmdOrbitRight:        "orbit-right",
	CmdOrbitUp:           "orbit-up",
	CmdOrbitDown:         "orbit-down",
	CmdZoomIn:            "zoom-in",
	CmdZoomOut:           "zoom-out",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand maps a command name ("track", "auto", "next", "prev",
// "step+", "step-", "speed", "orbit-left", "orbit-right", "orbit-up",
// "orbit-down", "zoom-in", "zoom-out") to a Command.
func ParseCommand(s string) (Command, error) {
	for c, name := range commandNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}
