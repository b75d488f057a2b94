//go:build !nosdl

package cmd

import (
	"log/slog"

	"github.com/acs-rover/joyserial/controller"
	"github.com/acs-rover/joyserial/internal/input/sdl"
)

func openSDL(logger *slog.Logger) (controller.Source, error) {
	src, err := sdl.Open(logger)
	if err != nil {
		return nil, err
	}
	return src, nil
}
