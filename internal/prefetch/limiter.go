package prefetch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Limiter bounds provider request volume to a fixed number per rolling hour
// window. Acquire blocks for the remainder of the window once the budget is
// spent; the clock is injectable so tests can fast-forward instead of
// sleeping.
type Limiter struct {
	clock  clockwork.Clock
	max    int
	window time.Duration
	log    *slog.Logger

	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// NewLimiter creates a limiter permitting max requests per window. A nil
// clock uses the real one.
func NewLimiter(max int, window time.Duration, clock clockwork.Clock, log *slog.Logger) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Limiter{
		clock:       clock,
		max:         max,
		window:      window,
		log:         log.With("component", "rate_limiter"),
		windowStart: clock.Now(),
	}
}

// Acquire reserves one request slot, blocking until the current window
// elapses when the budget is already spent. It returns early with the
// context's error on cancellation; the slot is not consumed in that case.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()

	now := l.clock.Now()
	if now.Sub(l.windowStart) > l.window {
		// The window lapsed on its own; reset without blocking.
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.max {
		wait := l.window - now.Sub(l.windowStart)
		if wait < 0 {
			wait = 0
		}
		l.mu.Unlock()

		l.log.Info("Request budget spent, suspending until window elapses",
			"budget", l.max, "wait", wait)

		select {
		case <-l.clock.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}

		l.mu.Lock()
		l.count = 0
		l.windowStart = l.clock.Now()
	}

	l.count++
	l.mu.Unlock()
	return nil
}
