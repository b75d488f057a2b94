// Package dispatch drives the polling cycle: it pulls controller events,
// encodes them and writes the resulting commands to the serial link.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/acs-rover/joyserial/command"
	"github.com/acs-rover/joyserial/controller"
)

// DefaultRate is the polling cadence in cycles per second.
const DefaultRate = 20

// Sink receives one logical command per Write call.
type Sink interface {
	Write(cmd []byte) error
}

// Observer is notified after every completed cycle with the controller state
// and the commands written during that cycle. Observers must not block and
// must not retain sent after returning.
type Observer interface {
	Observe(snapshots []controller.Snapshot, sent []command.Command)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(snapshots []controller.Snapshot, sent []command.Command)

func (f ObserverFunc) Observe(snapshots []controller.Snapshot, sent []command.Command) {
	f(snapshots, sent)
}

// Dispatcher owns the encoder state. It is not safe for concurrent use.
type Dispatcher struct {
	source    controller.Source
	sink      Sink
	logger    *slog.Logger
	state     *command.State
	interval  time.Duration
	observers []Observer

	sent []command.Command
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithRate sets the number of cycles per second. Non-positive values keep the default.
func WithRate(hz int) Option {
	return func(d *Dispatcher) {
		if hz > 0 {
			d.interval = time.Second / time.Duration(hz)
		}
	}
}

// WithObserver adds an observer notified after every cycle.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observers = append(d.observers, o) }
}

// New returns a dispatcher with a fresh command.State, polling at DefaultRate
// unless WithRate says otherwise.
func New(source controller.Source, sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		source:   source,
		sink:     sink,
		logger:   slog.Default(),
		state:    command.NewState(),
		interval: time.Second / DefaultRate,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Parked reports whether parking mode is on.
func (d *Dispatcher) Parked() bool { return d.state.Parked }

// Axis returns the last stored discretized value for a.
func (d *Dispatcher) Axis(a controller.Axis) int { return d.state.Axis(a) }

// Interval is the time budget of one cycle.
func (d *Dispatcher) Interval() time.Duration { return d.interval }

// Bootstrap sends the initial neutral command the vehicle expects after the
// link comes up.
func (d *Dispatcher) Bootstrap() error {
	return d.write(command.Command{command.CmdNeutral})
}

// Cycle runs one polling cycle without waiting for events. It reports whether
// a quit event was seen.
func (d *Dispatcher) Cycle(ctx context.Context) (bool, error) {
	return d.cycle(ctx, 0)
}

func (d *Dispatcher) cycle(ctx context.Context, timeout time.Duration) (bool, error) {
	d.sent = d.sent[:0]

	events, err := d.source.Poll(ctx, timeout)
	if err != nil {
		return false, fmt.Errorf("poll controller: %w", err)
	}

	quit := false
	for _, ev := range events {
		if _, ok := ev.(controller.Quit); ok {
			quit = true
			continue
		}
		d.logger.Debug("Controller event", "event", ev)

		cmds, err := command.Encode(d.state, ev)
		if err != nil {
			if errors.Is(err, command.ErrUnrecognizedButton) {
				d.logger.Warn("Ignoring unrecognized button", "event", ev, "error", err)
			} else {
				d.logger.Warn("Ignoring event", "event", ev, "error", err)
			}
			continue
		}
		if err := d.writeAll(cmds); err != nil {
			return quit, err
		}
	}

	snapshots := d.source.Snapshots()
	for _, s := range snapshots {
		if err := d.writeAll(command.ClearDeadZone(d.state, s.Axis(controller.AxisLeftY))); err != nil {
			return quit, err
		}
	}

	for _, o := range d.observers {
		o.Observe(snapshots, d.sent)
	}
	return quit, nil
}

// Run cycles at the configured rate until a quit event arrives or ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	next := time.Now()
	for {
		next = next.Add(d.interval)

		quit, err := d.cycle(ctx, time.Until(next))
		if err != nil {
			return err
		}
		if quit {
			d.logger.Info("Quit requested")
			return nil
		}

		wait := time.Until(next)
		if wait <= 0 {
			// fell behind; don't try to catch up with a burst of cycles
			next = time.Now()
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (d *Dispatcher) writeAll(cmds []command.Command) error {
	for _, c := range cmds {
		if err := d.write(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) write(c command.Command) error {
	if err := d.sink.Write(c); err != nil {
		return fmt.Errorf("write command %x: %w", []byte(c), err)
	}
	d.sent = append(d.sent, c)
	return nil
}
