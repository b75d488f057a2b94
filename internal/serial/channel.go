// Package serial owns the link to the vehicle microcontroller.
package serial

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.bug.st/serial"

	"github.com/acs-rover/joyserial/internal/log"
)

// ErrNoDevice is returned when none of the candidate devices could be opened.
var ErrNoDevice = errors.New("no serial device could be opened")

// Config is the serial section of the CLI.
type Config struct {
	Devices           []string `help:"Serial devices to try, in order" default:"/dev/ttyACM0,/dev/ttyACM1" env:"JOYSERIAL_SERIAL_DEVICES"`
	Baud              int      `help:"Baud rate" default:"9600" env:"JOYSERIAL_SERIAL_BAUD"`
	IgnoreWriteErrors bool     `help:"Log failed writes and keep running instead of exiting" env:"JOYSERIAL_SERIAL_IGNORE_WRITE_ERRORS"`
}

// Opener opens a named port. It matches serial.Open.
type Opener func(name string, mode *serial.Mode) (io.WriteCloser, error)

func openPort(name string, mode *serial.Mode) (io.WriteCloser, error) {
	return serial.Open(name, mode)
}

// Channel writes commands to an open port, one Write per command.
type Channel struct {
	port   io.WriteCloser
	device string
	cfg    Config
	logger *slog.Logger
	raw    log.RawLogger

	dropped int
}

// Option configures Open.
type Option func(*options)

type options struct {
	open Opener
}

// WithOpener replaces the function used to open ports.
func WithOpener(o Opener) Option {
	return func(opts *options) { opts.open = o }
}

// Mode returns the 8N1 line settings for baud.
func Mode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open tries each configured device in order and returns a Channel on the
// first one that opens.
func Open(cfg Config, logger *slog.Logger, raw log.RawLogger, opts ...Option) (*Channel, error) {
	o := options{open: openPort}
	for _, opt := range opts {
		opt(&o)
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	if len(cfg.Devices) == 0 {
		return nil, fmt.Errorf("%w: no devices configured", ErrNoDevice)
	}

	mode := Mode(cfg.Baud)
	var errs []error
	for _, dev := range cfg.Devices {
		port, err := o.open(dev, mode)
		if err != nil {
			logger.Warn("Failed to open serial device", "device", dev, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", dev, err))
			continue
		}
		logger.Info("Opened serial device", "device", dev, "baud", cfg.Baud)
		return &Channel{
			port:   port,
			device: dev,
			cfg:    cfg,
			logger: logger,
			raw:    raw,
		}, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrNoDevice, errors.Join(errs...))
}

// Device is the path of the open port.
func (c *Channel) Device() string { return c.device }

// Dropped is the number of writes that failed while IgnoreWriteErrors is set.
func (c *Channel) Dropped() int { return c.dropped }

// Write sends cmd in a single write. Failures are returned unless
// IgnoreWriteErrors is set, in which case they are logged and dropped.
func (c *Channel) Write(cmd []byte) error {
	n, err := c.port.Write(cmd)
	if err == nil && n != len(cmd) {
		err = io.ErrShortWrite
	}
	if err != nil {
		err = fmt.Errorf("serial %s: %w", c.device, err)
		if !c.cfg.IgnoreWriteErrors {
			return err
		}
		c.dropped++
		c.logger.Warn("Dropped serial write", "cmd", fmt.Sprintf("%x", cmd), "error", err)
		return nil
	}
	c.raw.Log(c.device, cmd)
	return nil
}

// Close closes the port.
func (c *Channel) Close() error {
	return c.port.Close()
}
