//go:build linux

package jsdev

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	jsiocgaxes    = 0x80016a11
	jsiocgbuttons = 0x80016a12
	jsiocgname    = 0x80006a13 + (128 << 16)
)

func ioctl(f *os.File, req uintptr, dest unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(dest))
	if errno != 0 {
		return fmt.Errorf("ioctl 0x%x: %w", req, errno)
	}
	return nil
}

func describe(f *os.File) (name string, axes, buttons int, err error) {
	var nAxes, nButtons uint8
	buf := make([]byte, 128)
	if err = ioctl(f, jsiocgname, unsafe.Pointer(&buf[0])); err != nil {
		return
	}
	if err = ioctl(f, jsiocgaxes, unsafe.Pointer(&nAxes)); err != nil {
		return
	}
	if err = ioctl(f, jsiocgbuttons, unsafe.Pointer(&nButtons)); err != nil {
		return
	}
	return strings.TrimRight(string(buf), "\x00"), int(nAxes), int(nButtons), nil
}

// Open opens every configured device. Devices that fail to open are skipped;
// an error is returned only if none could be opened.
func Open(cfg Config, logger *slog.Logger) (*Source, error) {
	s := newSource(logger)
	lastErr := errors.New("no devices configured")
	for _, path := range cfg.Devices {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			logger.Warn("Failed to open joystick", "device", path, "error", err)
			lastErr = err
			continue
		}
		name, axes, buttons, err := describe(f)
		if err != nil {
			_ = f.Close()
			logger.Warn("Not a joystick device", "device", path, "error", err)
			lastErr = err
			continue
		}
		logger.Info("Joystick connected", "device", path, "name", name, "axes", axes, "buttons", buttons)
		s.add(path, f, newState(len(s.states), name, axes, buttons, cfg.HatAxes))
	}
	if len(s.states) == 0 {
		return nil, fmt.Errorf("jsdev: no joystick opened: %w", lastErr)
	}
	return s, nil
}
