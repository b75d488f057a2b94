package cmd

import (
	"fmt"
	"log/slog"

	"github.com/acs-rover/joyserial/controller"
	"github.com/acs-rover/joyserial/internal/input/jsdev"
)

// InputConfig selects and configures the controller backend.
type InputConfig struct {
	Backend string       `help:"Controller input backend" enum:"sdl,jsdev" default:"sdl" env:"JOYSERIAL_BACKEND"`
	Jsdev   jsdev.Config `embed:"" prefix:"jsdev."`
}

func (c InputConfig) Open(logger *slog.Logger) (controller.Source, error) {
	switch c.Backend {
	case "sdl", "":
		return openSDL(logger)
	case "jsdev":
		src, err := jsdev.Open(c.Jsdev, logger)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown input backend %q", c.Backend)
	}
}
