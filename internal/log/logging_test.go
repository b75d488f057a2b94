package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace": LevelTrace,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestConsoleSplit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(MultiHandler{hs: NewHandlers(&stdout, &stderr, slog.LevelDebug)})

	logger.Debug("polling")
	logger.Warn("unrecognized button")
	logger.Error("serial gone")

	assert.Contains(t, stdout.String(), "msg=polling")
	assert.Contains(t, stdout.String(), "unrecognized button")
	assert.NotContains(t, stdout.String(), "serial gone")
	assert.Contains(t, stderr.String(), "serial gone")
	assert.NotContains(t, stderr.String(), "polling")
}

func TestTraceLevelName(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(MultiHandler{hs: NewHandlers(&stdout, &stderr, LevelTrace)})

	logger.Log(context.Background(), LevelTrace, "raw")
	assert.Contains(t, stdout.String(), "level=TRACE")
}

func TestSetupLoggerToStderrOnly(t *testing.T) {
	var stderr bytes.Buffer
	logger, raw, closers, err := SetupLoggerTo(Config{Level: "trace"}, &stderr, &stderr)
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Info("forwarding")
	logger.Error("serial gone")
	raw.Log("/dev/ttyACM0", []byte("S"))

	out := stderr.String()
	assert.Contains(t, out, "msg=forwarding")
	assert.Contains(t, out, "serial gone")
	assert.Contains(t, out, "TX /dev/ttyACM0 1 bytes, hex: 53 |S|")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := &rawLogger{w: &buf, now: func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}}

	r.Log("/dev/ttyACM0", []byte{110, 50})
	r.Log("/dev/ttyACM0", nil)
	r.Log("/dev/ttyACM0", []byte("S"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"2024/05/01 12:00:00.000 TX /dev/ttyACM0 2 bytes, hex: 6e 32 |n2|",
		"2024/05/01 12:00:00.000 TX /dev/ttyACM0 1 bytes, hex: 53 |S|",
	}, lines)
}

func TestRawLoggerDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		NewRaw(nil).Log("/dev/ttyACM0", []byte{1})
	})
}
