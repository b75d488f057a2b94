// Package controller defines the input events and live state a controller
// backend hands to the dispatcher.
package controller

import "fmt"

// Event is one of ButtonDown, ButtonUp, HatMotion, AxisMotion or Quit.
type Event interface {
	isEvent()
}

// ButtonDown is a button press transition.
type ButtonDown struct {
	Controller int
	Button     Button
}

// ButtonUp is a button release transition.
type ButtonUp struct {
	Controller int
	Button     Button
}

// HatMotion reports the new directional pad position. X and Y are each -1, 0 or 1;
// positive X is right, positive Y is up.
type HatMotion struct {
	Controller int
	Hat        int
	X, Y       int
}

// AxisMotion reports a new normalized axis value in [-1.0, 1.0].
type AxisMotion struct {
	Controller int
	Axis       Axis
	Value      float64
}

// Quit asks the dispatcher to stop after the current cycle.
type Quit struct{}

func (ButtonDown) isEvent() {}
func (ButtonUp) isEvent()   {}
func (HatMotion) isEvent()  {}
func (AxisMotion) isEvent() {}
func (Quit) isEvent()       {}

func (e ButtonDown) String() string { return fmt.Sprintf("button-down %s", e.Button) }
func (e ButtonUp) String() string   { return fmt.Sprintf("button-up %s", e.Button) }
func (e HatMotion) String() string  { return fmt.Sprintf("hat (%d, %d)", e.X, e.Y) }
func (e AxisMotion) String() string { return fmt.Sprintf("axis %s %.3f", e.Axis, e.Value) }
func (Quit) String() string         { return "quit" }
