package tasks

import (
	"context"
	"fmt"
	"time"
)

// newPrefetchTask creates the nightly prefetch job. The underlying run may
// sleep through several rate-limit windows and span hours; the scheduler
// runs it on its own goroutine in singleton mode, so other triggers are
// never delayed by it.
func newPrefetchTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "prefetch")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting nightly prefetch task...")
		startTime := time.Now()

		if err := deps.Prefetcher.Run(ctx); err != nil {
			log.ErrorContext(ctx, "Prefetch task failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("prefetch failed: %w", err)
		}

		log.InfoContext(ctx, "Nightly prefetch task completed", "duration", time.Since(startTime))
		return nil
	}
}
