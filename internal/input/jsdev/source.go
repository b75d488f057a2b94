package jsdev

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/acs-rover/joyserial/controller"
)

// ErrUnsupported is returned by Open on platforms without the joystick interface.
var ErrUnsupported = errors.New("jsdev: joystick devices are only supported on linux")

type item struct {
	dev  int
	ev   rawEvent
	err  error
	gone bool
}

// device is an open joystick node.
type device interface {
	Read(p []byte) (int, error)
	Close() error
}

// Source is a controller.Source over one or more joystick device nodes.
type Source struct {
	logger  *slog.Logger
	states  []*state
	devices []device
	paths   []string
	gone    []bool
	items   chan item

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newSource(logger *slog.Logger) *Source {
	return &Source{
		logger: logger,
		items:  make(chan item, 256),
	}
}

func (s *Source) add(path string, dev device, st *state) {
	idx := len(s.states)
	s.states = append(s.states, st)
	s.devices = append(s.devices, dev)
	s.paths = append(s.paths, path)
	s.gone = append(s.gone, false)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			ev, err := readEvent(dev)
			if err != nil {
				s.items <- item{dev: idx, err: err, gone: true}
				return
			}
			s.items <- item{dev: idx, ev: ev}
		}
	}()
}

// Poll waits up to timeout for the first event and drains whatever else is queued.
func (s *Source) Poll(ctx context.Context, timeout time.Duration) ([]controller.Event, error) {
	var out []controller.Event

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case it := <-s.items:
			out = s.handle(out, it)
		case <-timer.C:
			return nil, nil
		case <-ctx.Done():
			return nil, nil
		}
	}

	for {
		select {
		case it := <-s.items:
			out = s.handle(out, it)
		default:
			return out, nil
		}
	}
}

func (s *Source) handle(out []controller.Event, it item) []controller.Event {
	if it.gone {
		if !s.gone[it.dev] {
			s.gone[it.dev] = true
			s.logger.Warn("Joystick disconnected", "device", s.paths[it.dev], "error", it.err)
		}
		return out
	}
	ev, err := s.states[it.dev].apply(it.ev)
	if err != nil {
		s.logger.Debug("Skipping joystick event", "device", s.paths[it.dev], "error", err)
		return out
	}
	if ev != nil {
		out = append(out, ev)
	}
	return out
}

// Snapshots returns the state of every device still connected.
func (s *Source) Snapshots() []controller.Snapshot {
	out := make([]controller.Snapshot, 0, len(s.states))
	for i, st := range s.states {
		if s.gone[i] {
			continue
		}
		out = append(out, st.snapshot())
	}
	return out
}

func (s *Source) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		for _, d := range s.devices {
			if err := d.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		// unblock readers stuck on a full channel
		go func() {
			for range s.items {
			}
		}()
		s.wg.Wait()
		close(s.items)
	})
	return errors.Join(errs...)
}
