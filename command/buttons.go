package command

import (
	"fmt"

	"github.com/acs-rover/joyserial/controller"
)

// buttonRule produces the commands for one button's press and release.
// A nil func emits nothing for that transition.
type buttonRule struct {
	press   func(st *State) []Command
	release func(st *State) []Command
}

func emit(cmds ...Command) func(*State) []Command {
	return func(*State) []Command { return append([]Command(nil), cmds...) }
}

// unassigned is shared by every button that has no mapping of its own yet.
var unassigned = buttonRule{
	press:   emit(single(CmdUnassigned)),
	release: emit(single(CmdUnassigned)),
}

var buttonRules = map[controller.Button]buttonRule{
	controller.ButtonSquare: {
		press: togglePark,
	},
	controller.ButtonCross: {
		press:   stop,
		release: emit(single(CmdStop)),
	},
	controller.ButtonCircle: {
		press:   emit(single(CmdNeutral)),
		release: emit(single(CmdNeutral)),
	},
	controller.ButtonTriangle: {
		press:   emit(single(CmdVisionOn)),
		release: emit(single(CmdVisionOff)),
	},
	controller.ButtonL1: {
		press:   unassigned.press,
		release: emit(signed(OpL1Release)),
	},
	controller.ButtonR1: {
		press:   unassigned.press,
		release: emit(signed(OpR1Release)),
	},
}

func togglePark(st *State) []Command {
	st.Parked = !st.Parked
	if st.Parked {
		return []Command{single(CmdPark)}
	}
	return []Command{single(CmdUnpark)}
}

func stop(st *State) []Command {
	out := []Command{single(CmdStop)}
	if st.Parked {
		st.Parked = false
		out = append(out, single(CmdUnpark))
	}
	return out
}

func ruleFor(b controller.Button) (buttonRule, error) {
	if !b.Known() {
		return buttonRule{}, fmt.Errorf("%w: %d", ErrUnrecognizedButton, int(b))
	}
	if r, ok := buttonRules[b]; ok {
		return r, nil
	}
	return unassigned, nil
}

// Press encodes a button press.
func Press(st *State, b controller.Button) ([]Command, error) {
	r, err := ruleFor(b)
	if err != nil || r.press == nil {
		return nil, err
	}
	return r.press(st), nil
}

// Release encodes a button release.
func Release(st *State, b controller.Button) ([]Command, error) {
	r, err := ruleFor(b)
	if err != nil || r.release == nil {
		return nil, err
	}
	return r.release(st), nil
}
