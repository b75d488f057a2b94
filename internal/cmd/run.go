package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/acs-rover/joyserial/dispatch"
	"github.com/acs-rover/joyserial/internal/display"
	"github.com/acs-rover/joyserial/internal/log"
	"github.com/acs-rover/joyserial/internal/mirror"
	"github.com/acs-rover/joyserial/internal/serial"
)

// Run forwards controller input to the vehicle until interrupted.
type Run struct {
	Input   InputConfig   `embed:""`
	Rate    int           `help:"Polling cycles per second" default:"20" env:"JOYSERIAL_RATE"`
	Display bool          `help:"Render live controller state on stdout (logs move to stderr)" env:"JOYSERIAL_DISPLAY"`
	Serial  serial.Config `embed:"" prefix:"serial."`
	MQTT    mirror.Config `embed:"" prefix:"mqtt."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Forward(ctx, logger, rawLogger)
}

func (r *Run) Forward(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	ch, err := serial.Open(r.Serial, logger, rawLogger)
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	src, err := r.Input.Open(logger)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	opts := []dispatch.Option{
		dispatch.WithLogger(logger),
		dispatch.WithRate(r.Rate),
	}
	if r.Display {
		opts = append(opts, dispatch.WithObserver(display.New(os.Stdout)))
	}
	if r.MQTT.Broker != "" {
		m, disconnect, err := mirror.Connect(r.MQTT, logger)
		if err != nil {
			logger.Warn("Command mirror disabled", "error", err)
		} else {
			defer disconnect()
			opts = append(opts, dispatch.WithObserver(m))
		}
	}

	d := dispatch.New(src, ch, opts...)
	if err := d.Bootstrap(); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	logger.Info("Forwarding controller input", "device", ch.Device(), "backend", r.Input.Backend, "interval", d.Interval())
	if err := d.Run(ctx); err != nil {
		return err
	}
	if n := ch.Dropped(); n > 0 {
		logger.Warn("Serial writes dropped during session", "count", n)
	}
	logger.Info("Stopped")
	return nil
}
