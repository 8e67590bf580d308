package sim

import (
	"context"
	"time"
)

// Clock supplies the two suspension points of a worker: the scheduled offset
// and the in-critical-section duration. Nothing observable happens while a
// worker sleeps.
type Clock interface {
	// Sleep suspends the caller for the given number of ticks, or until ctx is done.
	Sleep(ctx context.Context, ticks int64) error
	// Elapsed returns the time since the clock started.
	Elapsed() time.Duration
}

// WallClock sleeps in real time, Unit per tick.
type WallClock struct {
	Unit  time.Duration
	start time.Time
}

// NewWallClock creates a WallClock starting now.
func NewWallClock(unit time.Duration) *WallClock {
	return &WallClock{Unit: unit, start: time.Now()}
}

// Sleep implements Clock.
func (c *WallClock) Sleep(ctx context.Context, ticks int64) error {
	if ticks <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(ticks) * c.Unit)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Elapsed implements Clock.
func (c *WallClock) Elapsed() time.Duration {
	return time.Since(c.start)
}
