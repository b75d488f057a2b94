package controller

import (
	"cmp"
	"context"
	"slices"
	"time"
)

// Source supplies controller events and live controller state.
type Source interface {
	// Poll returns all pending events. It may block up to timeout waiting for
	// the first one and returns an empty batch if none arrived.
	Poll(ctx context.Context, timeout time.Duration) ([]Event, error)
	// Snapshots returns the live state of every connected controller.
	Snapshots() []Snapshot
	Close() error
}

// Hat is a directional pad position.
type Hat struct {
	X, Y int
}

// Snapshot is the live state of one connected controller.
type Snapshot struct {
	Index   int
	Name    string
	Axes    []float64
	Buttons []bool
	Hats    []Hat
}

// Axis returns the live value of axis a, or 0 if the controller does not have it.
func (s Snapshot) Axis(a Axis) float64 {
	if int(a) < 0 || int(a) >= len(s.Axes) {
		return 0
	}
	return s.Axes[a]
}

// HatFromBits converts an SDL/DirectInput style hat bitmask (up=1, right=2,
// down=4, left=8) into a Hat.
func HatFromBits(v uint8) Hat {
	var h Hat
	if v&0x01 != 0 {
		h.Y++
	}
	if v&0x04 != 0 {
		h.Y--
	}
	if v&0x02 != 0 {
		h.X++
	}
	if v&0x08 != 0 {
		h.X--
	}
	return h
}

// SortSnapshots orders snapshots by controller index.
func SortSnapshots(s []Snapshot) {
	slices.SortFunc(s, func(a, b Snapshot) int { return cmp.Compare(a.Index, b.Index) })
}
