package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWallClock_Sleep_ScalesTicksByUnit(t *testing.T) {
	// GIVEN a 10ms tick
	c := NewWallClock(10 * time.Millisecond)

	// WHEN sleeping 3 ticks
	start := time.Now()
	err := c.Sleep(context.Background(), 3)

	// THEN at least 30ms elapsed
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.GreaterOrEqual(t, c.Elapsed(), 30*time.Millisecond)
}

func TestWallClock_Sleep_ZeroTicksReturnsImmediately(t *testing.T) {
	c := NewWallClock(time.Hour)
	start := time.Now()
	assert.NoError(t, c.Sleep(context.Background(), 0))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWallClock_Sleep_CancelledContext(t *testing.T) {
	// GIVEN a long sleep and a context cancelled shortly after
	c := NewWallClock(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// WHEN / THEN the sleep ends with the context error
	assert.ErrorIs(t, c.Sleep(ctx, 1), context.DeadlineExceeded)
}
