//go:build !linux

package jsdev

import "log/slog"

func Open(cfg Config, logger *slog.Logger) (*Source, error) {
	return nil, ErrUnsupported
}
