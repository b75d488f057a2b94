package jsdev

import (
	"context"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acs-rover/joyserial/controller"
	mocks "github.com/acs-rover/joyserial/internal/testing"
)

func TestApply(t *testing.T) {
	type testCase struct {
		name     string
		hatAxes  []int
		events   []rawEvent
		expected []controller.Event
	}

	cases := []testCase{
		{
			name: "initial state is silent",
			events: []rawEvent{
				{Type: typeButton | typeInit, Number: 0, Value: 0},
				{Type: typeAxis | typeInit, Number: 1, Value: 0},
			},
			expected: nil,
		},
		{
			name: "button press and release",
			events: []rawEvent{
				{Type: typeButton, Number: 0, Value: 1},
				{Type: typeButton, Number: 0, Value: 0},
			},
			expected: []controller.Event{
				controller.ButtonDown{Button: controller.ButtonSquare},
				controller.ButtonUp{Button: controller.ButtonSquare},
			},
		},
		{
			name: "axis normalized",
			events: []rawEvent{
				{Type: typeAxis, Number: 0, Value: 32767},
				{Type: typeAxis, Number: 1, Value: -32768},
			},
			expected: []controller.Event{
				controller.AxisMotion{Axis: controller.AxisLeftX, Value: 1},
				controller.AxisMotion{Axis: controller.AxisLeftY, Value: -1},
			},
		},
		{
			name:    "d-pad axes become hat motion",
			hatAxes: []int{6, 7},
			events: []rawEvent{
				{Type: typeAxis, Number: 6, Value: 32767},
				{Type: typeAxis, Number: 7, Value: 32767},
				{Type: typeAxis, Number: 6, Value: 0},
				{Type: typeAxis, Number: 7, Value: 0},
			},
			expected: []controller.Event{
				controller.HatMotion{X: 1, Y: 0},
				controller.HatMotion{X: 1, Y: -1},
				controller.HatMotion{X: 0, Y: -1},
				controller.HatMotion{X: 0, Y: 0},
			},
		},
		{
			name: "unknown type skipped",
			events: []rawEvent{
				{Type: 0x04, Number: 0, Value: 1},
			},
			expected: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newState(0, "pad", 8, 14, tc.hatAxes)
			var got []controller.Event
			for _, e := range tc.events {
				ev, err := st.apply(e)
				if err != nil {
					continue
				}
				if ev != nil {
					got = append(got, ev)
				}
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestApplyGrowsState(t *testing.T) {
	st := newState(2, "pad", 0, 0, nil)
	ev, err := st.apply(rawEvent{Type: typeButton, Number: 13, Value: 1})
	require.NoError(t, err)
	assert.Equal(t, controller.ButtonDown{Controller: 2, Button: controller.ButtonTouchpad}, ev)

	snap := st.snapshot()
	assert.Len(t, snap.Buttons, 14)
	assert.True(t, snap.Buttons[13])
	assert.Equal(t, 2, snap.Index)
}

func TestSourcePoll(t *testing.T) {
	logger, _ := mocks.NewTestLogger(t)
	s := newSource(logger)
	r, w := io.Pipe()
	s.add("/dev/input/js0", r, newState(0, "pad", 6, 14, nil))

	go func() {
		_ = binary.Write(w, binary.LittleEndian, rawEvent{Type: typeAxis | typeInit, Number: 1, Value: 1000})
		_ = binary.Write(w, binary.LittleEndian, rawEvent{Type: typeButton, Number: 1, Value: 1})
	}()

	var got []controller.Event
	require.Eventually(t, func() bool {
		evs, _ := s.Poll(context.Background(), 10*time.Millisecond)
		got = append(got, evs...)
		return len(got) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []controller.Event{controller.ButtonDown{Button: controller.ButtonCross}}, got)

	snaps := s.Snapshots()
	require.Len(t, snaps, 1)
	assert.InDelta(t, 1000.0/32767, snaps[0].Axis(controller.AxisLeftY), 1e-9)

	// disconnect drops the controller from the snapshots
	_ = w.Close()
	require.Eventually(t, func() bool {
		_, _ = s.Poll(context.Background(), 0)
		return len(s.Snapshots()) == 0
	}, time.Second, time.Millisecond)

	require.NoError(t, s.Close())
}

func TestPollTimeout(t *testing.T) {
	logger, _ := mocks.NewTestLogger(t)
	s := newSource(logger)

	start := time.Now()
	evs, err := s.Poll(context.Background(), 20*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, evs)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
