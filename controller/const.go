package controller

import "fmt"

// Button identifies a controller button by the index the input backend reports.
type Button int

// PlayStation-style button layout.
const (
	ButtonSquare Button = iota
	ButtonCross
	ButtonCircle
	ButtonTriangle
	ButtonL1
	ButtonR1
	ButtonL2
	ButtonR2
	ButtonShare
	ButtonOptions
	ButtonL3
	ButtonR3
	ButtonPlayStation
	ButtonTouchpad

	buttonCount
)

var buttonNames = [...]string{
	ButtonSquare:      "square",
	ButtonCross:       "cross",
	ButtonCircle:      "circle",
	ButtonTriangle:    "triangle",
	ButtonL1:          "l1",
	ButtonR1:          "r1",
	ButtonL2:          "l2",
	ButtonR2:          "r2",
	ButtonShare:       "share",
	ButtonOptions:     "options",
	ButtonL3:          "l3",
	ButtonR3:          "r3",
	ButtonPlayStation: "playstation",
	ButtonTouchpad:    "touchpad",
}

// Known reports whether b is one of the canonical buttons.
func (b Button) Known() bool {
	return b >= 0 && b < buttonCount
}

func (b Button) String() string {
	if !b.Known() {
		return fmt.Sprintf("button(%d)", int(b))
	}
	return buttonNames[b]
}

// Axis identifies an analog channel by the index the input backend reports.
type Axis int

const (
	AxisLeftX        Axis = 0
	AxisLeftY        Axis = 1
	AxisRightX       Axis = 2
	AxisL2           Axis = 3
	AxisR2           Axis = 4
	AxisRightY       Axis = 5
	AxisMotionRoll   Axis = 6
	AxisMotionPitch1 Axis = 7
	AxisMotionPitch2 Axis = 8
)

func (a Axis) String() string {
	switch a {
	case AxisLeftX:
		return "left-x"
	case AxisLeftY:
		return "left-y"
	case AxisRightX:
		return "right-x"
	case AxisL2:
		return "l2"
	case AxisR2:
		return "r2"
	case AxisRightY:
		return "right-y"
	case AxisMotionRoll:
		return "motion-roll"
	case AxisMotionPitch1:
		return "motion-pitch1"
	case AxisMotionPitch2:
		return "motion-pitch2"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// NormalizeAxis maps a raw signed 16-bit axis reading onto [-1.0, 1.0].
func NormalizeAxis(raw int16) float64 {
	if raw < 0 {
		return float64(raw) / 32768
	}
	return float64(raw) / 32767
}
