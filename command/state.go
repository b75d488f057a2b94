package command

import "github.com/acs-rover/joyserial/controller"

// State is the dedup and parking state the encoder reads and updates.
// A State must only be used from one goroutine.
type State struct {
	Parked bool

	axes map[controller.Axis]int
	// settled latches the dead-zone stop until left stick Y is encoded again.
	settled bool
}

// NewState returns a State with every tracked axis at 0 and parking off.
func NewState() *State {
	return &State{
		axes: map[controller.Axis]int{
			controller.AxisLeftX:  0,
			controller.AxisLeftY:  0,
			controller.AxisRightX: 0,
			controller.AxisRightY: 0,
		},
	}
}

// Axis returns the last stored discretized value for a.
func (s *State) Axis(a controller.Axis) int {
	return s.axes[a]
}

// swap stores v for axis a and reports whether it differs from the previous value.
func (s *State) swap(a controller.Axis, v int) bool {
	if s.axes[a] == v {
		return false
	}
	s.axes[a] = v
	return true
}
