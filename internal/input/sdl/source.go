// Package sdl reads controllers through SDL2's joystick API.
//
// SDL must be driven from a single OS thread; the package locks the main
// goroutine to its thread at init, so Open and Poll must be called from the
// main goroutine.
package sdl

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/acs-rover/joyserial/controller"
)

func init() {
	runtime.LockOSThread()
}

type pad struct {
	index int
	js    *sdl.Joystick
}

// Source is a controller.Source over every joystick SDL reports.
type Source struct {
	logger *slog.Logger
	pads   map[sdl.JoystickID]*pad
	next   int
}

// Open initializes the SDL joystick subsystem and opens every attached joystick.
func Open(logger *slog.Logger) (*Source, error) {
	if err := sdl.Init(sdl.INIT_JOYSTICK | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}
	sdl.JoystickEventState(sdl.ENABLE)

	s := &Source{
		logger: logger,
		pads:   map[sdl.JoystickID]*pad{},
	}
	for i := 0; i < sdl.NumJoysticks(); i++ {
		s.attach(i)
	}
	if len(s.pads) == 0 {
		logger.Warn("No joysticks found, waiting for one to be connected")
	}
	return s, nil
}

func (s *Source) attach(deviceIndex int) {
	js := sdl.JoystickOpen(deviceIndex)
	if js == nil || !js.Attached() {
		s.logger.Warn("Failed to open joystick", "device", deviceIndex, "error", sdl.GetError())
		return
	}
	id := js.InstanceID()
	if _, ok := s.pads[id]; ok {
		// already open; SDL refcounts opens of the same device
		js.Close()
		return
	}
	s.pads[id] = &pad{index: s.next, js: js}
	s.next++
	s.logger.Info("Joystick connected", "name", js.Name(), "axes", js.NumAxes(), "buttons", js.NumButtons(), "hats", js.NumHats())
}

func (s *Source) detach(id sdl.JoystickID) {
	p, ok := s.pads[id]
	if !ok {
		return
	}
	s.logger.Info("Joystick disconnected", "name", p.js.Name())
	p.js.Close()
	delete(s.pads, id)
}

// Poll waits up to timeout for the first SDL event and drains the rest.
func (s *Source) Poll(ctx context.Context, timeout time.Duration) ([]controller.Event, error) {
	var ev sdl.Event
	if ms := int(timeout / time.Millisecond); ms > 0 {
		ev = sdl.WaitEventTimeout(ms)
	} else {
		ev = sdl.PollEvent()
	}

	var out []controller.Event
	for ; ev != nil; ev = sdl.PollEvent() {
		if e := s.translate(ev); e != nil {
			out = append(out, e)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return out, nil
}

func (s *Source) translate(ev sdl.Event) controller.Event {
	switch ev := ev.(type) {
	case *sdl.QuitEvent:
		return controller.Quit{}

	case *sdl.JoyDeviceAddedEvent:
		s.attach(int(ev.Which))

	case *sdl.JoyDeviceRemovedEvent:
		s.detach(ev.Which)

	case *sdl.JoyButtonEvent:
		idx := s.indexOf(ev.Which)
		if ev.State == sdl.PRESSED {
			return controller.ButtonDown{Controller: idx, Button: controller.Button(ev.Button)}
		}
		return controller.ButtonUp{Controller: idx, Button: controller.Button(ev.Button)}

	case *sdl.JoyHatEvent:
		h := controller.HatFromBits(ev.Value)
		return controller.HatMotion{Controller: s.indexOf(ev.Which), Hat: int(ev.Hat), X: h.X, Y: h.Y}

	case *sdl.JoyAxisEvent:
		return controller.AxisMotion{
			Controller: s.indexOf(ev.Which),
			Axis:       controller.Axis(ev.Axis),
			Value:      controller.NormalizeAxis(ev.Value),
		}
	}
	return nil
}

func (s *Source) indexOf(id sdl.JoystickID) int {
	if p, ok := s.pads[id]; ok {
		return p.index
	}
	return -1
}

// Snapshots reads the live state of every open joystick, ordered by connection.
func (s *Source) Snapshots() []controller.Snapshot {
	out := make([]controller.Snapshot, 0, len(s.pads))
	for _, p := range s.pads {
		js := p.js
		snap := controller.Snapshot{
			Index:   p.index,
			Name:    js.Name(),
			Axes:    make([]float64, js.NumAxes()),
			Buttons: make([]bool, js.NumButtons()),
			Hats:    make([]controller.Hat, js.NumHats()),
		}
		for i := range snap.Axes {
			snap.Axes[i] = controller.NormalizeAxis(js.Axis(i))
		}
		for i := range snap.Buttons {
			snap.Buttons[i] = js.Button(i) == sdl.PRESSED
		}
		for i := range snap.Hats {
			snap.Hats[i] = controller.HatFromBits(js.Hat(i))
		}
		out = append(out, snap)
	}
	controller.SortSnapshots(out)
	return out
}

func (s *Source) Close() error {
	for id := range s.pads {
		s.pads[id].js.Close()
		delete(s.pads, id)
	}
	sdl.QuitSubSystem(sdl.INIT_JOYSTICK | sdl.INIT_EVENTS)
	return nil
}
