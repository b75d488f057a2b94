//go:build nosdl

package cmd

import (
	"errors"
	"log/slog"

	"github.com/acs-rover/joyserial/controller"
)

var errNoSDL = errors.New("built without SDL support (nosdl tag), use --backend=jsdev")

func openSDL(*slog.Logger) (controller.Source, error) {
	return nil, errNoSDL
}
