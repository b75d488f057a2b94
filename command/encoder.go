// Package command translates controller events into the byte commands sent to
// the vehicle controller over the serial link.
//
// Each Command is one logical command and must reach the link in a single
// write. Encoding is deterministic: everything it remembers lives in the State
// the caller passes in.
package command

import (
	"errors"
	"fmt"
	"math"

	"github.com/acs-rover/joyserial/controller"
)

// ErrUnrecognizedButton is returned for button ids outside the canonical layout.
var ErrUnrecognizedButton = errors.New("unrecognized button")

// Command is one logical command: a single byte or an opcode and magnitude.
type Command []byte

func single(b byte) Command { return Command{b} }

func signed(op int8) Command { return Command{byte(op)} }

func withMagnitude(op byte, magnitude int) Command {
	return Command{op, byte(int8(magnitude))}
}

// Encode translates ev into zero or more commands, updating st.
// Quit events produce nothing.
func Encode(st *State, ev controller.Event) ([]Command, error) {
	switch ev := ev.(type) {
	case controller.ButtonDown:
		return Press(st, ev.Button)
	case controller.ButtonUp:
		return Release(st, ev.Button)
	case controller.HatMotion:
		return Hat(ev.X, ev.Y), nil
	case controller.AxisMotion:
		return Axis(st, ev.Axis, ev.Value), nil
	case controller.Quit:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported event %T", ev)
	}
}

// Hat encodes a directional pad position.
func Hat(x, y int) []Command {
	out := []Command{single(CmdNeutral)}
	if x == 0 && y == 0 {
		return append(out, single(CmdStop))
	}
	switch {
	case x > 0:
		out = append(out, single(CmdRight))
	case x < 0:
		out = append(out, single(CmdLeft))
	}
	switch {
	case y > 0:
		out = append(out, single(CmdForward))
	case y < 0:
		out = append(out, single(CmdBackward))
	}
	return out
}

// Discretize converts a normalized axis value into the signed percent value
// sent on the link: ceil(pos*100), bounded to ±MaxMagnitude.
func Discretize(pos float64) int {
	v := int(math.Ceil(pos * 100))
	if v > MaxMagnitude {
		return MaxMagnitude
	}
	if v < -MaxMagnitude {
		return -MaxMagnitude
	}
	return v
}

// Axis encodes an axis motion. Nothing is emitted when the discretized value
// matches what was last stored for the axis, or for axes without a mapping.
func Axis(st *State, axis controller.Axis, pos float64) []Command {
	value := Discretize(pos)

	switch axis {
	case controller.AxisLeftX:
		if !st.swap(axis, -value) {
			return nil
		}
		return []Command{directional(value, OpSteerRight, OpSteerCenter, OpSteerLeft)}

	case controller.AxisLeftY:
		if !st.swap(axis, -value) {
			return nil
		}
		st.settled = false
		return []Command{directional(value, OpDriveForward, OpDriveStop, OpDriveReverse)}

	case controller.AxisRightX:
		if !st.swap(axis, value) {
			return nil
		}
		return []Command{withMagnitude(CmdRightStickX, -value)}

	case controller.AxisRightY:
		if !st.swap(axis, value) {
			return nil
		}
		return []Command{withMagnitude(CmdRightStickY, value)}
	}
	return nil
}

// directional picks the opcode by the sign of value and sends the magnitude
// unsigned; centre is a bare opcode.
func directional(value int, positive, centre, negative int8) Command {
	switch {
	case value > 0:
		return withMagnitude(byte(positive), value)
	case value < 0:
		return withMagnitude(byte(negative), -value)
	default:
		return signed(centre)
	}
}

// ClearDeadZone stops the vehicle when the left stick rests near centre.
// raw is the live left stick Y value. If it and the stored left stick Y value
// both sit inside the dead band, the stored value is reset to 0 and a stop is
// emitted once; later calls stay silent until the axis is encoded again.
func ClearDeadZone(st *State, raw float64) []Command {
	if raw <= -DeadBand || raw >= DeadBand {
		return nil
	}
	// ceil maps raw values in (0.05, 0.06) to 6, so the stored band is closed
	stored := st.axes[controller.AxisLeftY]
	if stored < -DeadBand*MaxMagnitude || stored > DeadBand*MaxMagnitude {
		return nil
	}
	st.axes[controller.AxisLeftY] = 0
	if st.settled {
		return nil
	}
	st.settled = true
	return []Command{single(CmdStop)}
}
