// Package jsdev reads controllers from the Linux joystick interface
// (/dev/input/jsN) without cgo.
package jsdev

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/acs-rover/joyserial/controller"
)

const (
	eventSize = 8

	typeButton = 0x01
	typeAxis   = 0x02
	typeInit   = 0x80
)

// Config is the jsdev section of the CLI.
type Config struct {
	Devices []string `help:"Joystick devices to open" default:"/dev/input/js0" env:"JOYSERIAL_JSDEV_DEVICES"`
	HatAxes []int    `help:"Axis numbers (x,y) the driver uses for the d-pad; empty if it reports none" env:"JOYSERIAL_JSDEV_HAT_AXES"`
}

// rawEvent mirrors struct js_event.
type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

func readEvent(r io.Reader) (rawEvent, error) {
	var e rawEvent
	err := binary.Read(r, binary.LittleEndian, &e)
	return e, err
}

// state is the live state of one device, updated only from Poll.
type state struct {
	index   int
	name    string
	axes    []float64
	buttons []bool
	hat     controller.Hat
	hatAxes [2]int
	hasHat  bool
}

func newState(index int, name string, axes, buttons int, hatAxes []int) *state {
	s := &state{
		index:   index,
		name:    name,
		axes:    make([]float64, axes),
		buttons: make([]bool, buttons),
		hatAxes: [2]int{-1, -1},
	}
	if len(hatAxes) == 2 {
		s.hatAxes = [2]int{hatAxes[0], hatAxes[1]}
		s.hasHat = true
	}
	return s
}

// apply updates the live state with e and returns the event to dispatch, or
// nil for initial-state reports.
func (s *state) apply(e rawEvent) (controller.Event, error) {
	initial := e.Type&typeInit != 0
	n := int(e.Number)

	switch e.Type &^ typeInit {
	case typeButton:
		if n >= len(s.buttons) {
			s.buttons = append(s.buttons, make([]bool, n+1-len(s.buttons))...)
		}
		s.buttons[n] = e.Value != 0
		if initial {
			return nil, nil
		}
		if e.Value != 0 {
			return controller.ButtonDown{Controller: s.index, Button: controller.Button(n)}, nil
		}
		return controller.ButtonUp{Controller: s.index, Button: controller.Button(n)}, nil

	case typeAxis:
		if s.hasHat && (n == s.hatAxes[0] || n == s.hatAxes[1]) {
			return s.applyHat(n, e.Value, initial), nil
		}
		if n >= len(s.axes) {
			s.axes = append(s.axes, make([]float64, n+1-len(s.axes))...)
		}
		v := controller.NormalizeAxis(e.Value)
		s.axes[n] = v
		if initial {
			return nil, nil
		}
		return controller.AxisMotion{Controller: s.index, Axis: controller.Axis(n), Value: v}, nil
	}
	return nil, fmt.Errorf("unknown joystick event type 0x%02x", e.Type)
}

// applyHat folds a d-pad axis into the hat. The joystick interface reports up
// as negative.
func (s *state) applyHat(n int, v int16, initial bool) controller.Event {
	dir := 0
	switch {
	case v > 0:
		dir = 1
	case v < 0:
		dir = -1
	}
	if n == s.hatAxes[0] {
		s.hat.X = dir
	} else {
		s.hat.Y = -dir
	}
	if initial {
		return nil
	}
	return controller.HatMotion{Controller: s.index, X: s.hat.X, Y: s.hat.Y}
}

func (s *state) snapshot() controller.Snapshot {
	snap := controller.Snapshot{
		Index:   s.index,
		Name:    s.name,
		Axes:    append([]float64(nil), s.axes...),
		Buttons: append([]bool(nil), s.buttons...),
	}
	if s.hasHat {
		snap.Hats = []controller.Hat{s.hat}
	}
	return snap
}
