package prefetch

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLimiterAllowsUpToBudget(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(45, time.Hour, clock, discardLogger())
	ctx := context.Background()

	for i := range 45 {
		require.NoError(t, limiter.Acquire(ctx), "request %d should pass without waiting", i+1)
	}
}

func TestLimiterBlocksUntilWindowElapses(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(2, time.Hour, clock, discardLogger())
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))

	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(ctx)
	}()

	// The third acquire must suspend on the clock, not return.
	clock.BlockUntil(1)
	select {
	case <-done:
		t.Fatal("acquire returned before the window elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	clock.Advance(time.Hour)
	require.NoError(t, <-done)

	// The new window has its own budget.
	require.NoError(t, limiter.Acquire(ctx))
}

func TestLimiterResetsAfterIdleWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(1, time.Hour, clock, discardLogger())
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))

	// After the window lapses on its own, the next acquire proceeds
	// immediately without blocking.
	clock.Advance(time.Hour + time.Minute)
	require.NoError(t, limiter.Acquire(ctx))
}

func TestLimiterAcquireHonorsCancellation(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewLimiter(1, time.Hour, clock, discardLogger())

	require.NoError(t, limiter.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- limiter.Acquire(ctx)
	}()

	clock.BlockUntil(1)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}
