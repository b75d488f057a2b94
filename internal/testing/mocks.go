package testing

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/acs-rover/joyserial/controller"
)

// MockSource replays one batch of events per Poll call.
type MockSource struct {
	mu        sync.Mutex
	batches   [][]controller.Event
	snapshots []controller.Snapshot
	pollErr   error
	polls     int
	closed    bool
}

// NewMockSource returns a source that yields the given batches in order and
// empty batches after that.
func NewMockSource(t *testing.T, batches ...[]controller.Event) *MockSource {
	t.Helper()
	return &MockSource{batches: batches}
}

func (m *MockSource) Poll(ctx context.Context, timeout time.Duration) ([]controller.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls++
	if m.pollErr != nil {
		return nil, m.pollErr
	}
	if len(m.batches) == 0 {
		return nil, nil
	}
	b := m.batches[0]
	m.batches = m.batches[1:]
	return b, nil
}

// SetSnapshots replaces the live controller state.
func (m *MockSource) SetSnapshots(s ...controller.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = s
}

// SetLeftY sets the live left stick Y of a single connected controller.
func (m *MockSource) SetLeftY(v float64) {
	axes := make([]float64, 6)
	axes[controller.AxisLeftY] = v
	m.SetSnapshots(controller.Snapshot{Name: "mock pad", Axes: axes})
}

func (m *MockSource) FailPoll(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollErr = err
}

func (m *MockSource) Snapshots() []controller.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots
}

func (m *MockSource) Polls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// ErrMockWrite is returned by a MockSink after FailAfter writes.
var ErrMockWrite = errors.New("mock write failed")

// MockSink records every command written to it.
type MockSink struct {
	mu        sync.Mutex
	writes    [][]byte
	failAfter int
}

func NewMockSink() *MockSink {
	return &MockSink{failAfter: -1}
}

// FailAfter makes every write after the first n fail.
func (m *MockSink) FailAfter(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
}

func (m *MockSink) Write(cmd []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter >= 0 && len(m.writes) >= m.failAfter {
		return ErrMockWrite
	}
	m.writes = append(m.writes, append([]byte(nil), cmd...))
	return nil
}

// Writes returns the recorded writes and clears them.
func (m *MockSink) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.writes
	m.writes = nil
	return w
}

// LogBuffer captures text log output for assertions.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Count returns the number of log lines at the given level.
func (b *LogBuffer) Count(level slog.Level) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Count(b.buf.String(), "level="+level.String())
}

// NewTestLogger returns a debug-level text logger writing into a LogBuffer.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogBuffer) {
	t.Helper()
	b := &LogBuffer{}
	return slog.New(slog.NewTextHandler(b, &slog.HandlerOptions{Level: slog.LevelDebug})), b
}
