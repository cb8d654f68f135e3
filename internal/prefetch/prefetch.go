// Package prefetch implements the rate-limited fetch loop that populates the
// image cache ahead of demand for every known category.
package prefetch

import (
	"context"
	"errors"
	"log/slog"

	"github.com/edgard/muralbot/internal/catalog"
	"github.com/edgard/muralbot/internal/database"
	"github.com/edgard/muralbot/internal/unsplash"
)

// BatchSize is how many images a single prefetch request asks the provider
// for. Each category costs exactly one request regardless of how many images
// come back.
const BatchSize = 5

// Prefetcher walks the category catalog and fills the cache, respecting the
// provider's hourly request budget.
type Prefetcher struct {
	store    database.Store
	provider unsplash.Client
	limiter  *Limiter
	log      *slog.Logger
}

// NewPrefetcher creates a prefetcher using the given store, provider client,
// and rate limiter.
func NewPrefetcher(store database.Store, provider unsplash.Client, limiter *Limiter, log *slog.Logger) *Prefetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Prefetcher{
		store:    store,
		provider: provider,
		limiter:  limiter,
		log:      log.With("component", "prefetcher"),
	}
}

// Run fetches one batch for every narrow category and every wide
// subcategory, in the catalog's declared order. Per-category failures are
// logged and skipped; only context cancellation aborts the loop. A full run
// may span several rate-limit windows and therefore multiple hours.
func (p *Prefetcher) Run(ctx context.Context) error {
	entries := catalog.Entries()
	p.log.InfoContext(ctx, "Starting prefetch run", "categories", len(entries))
	start := p.limiter.clock.Now()

	fetched := 0
	for _, entry := range entries {
		if err := p.limiter.Acquire(ctx); err != nil {
			p.log.WarnContext(ctx, "Prefetch aborted while waiting for rate limit", "error", err)
			return err
		}

		photos, err := p.provider.RandomPhotos(ctx, entry.Query, BatchSize)
		if err != nil {
			if errors.Is(err, unsplash.ErrRateLimited) {
				p.log.WarnContext(ctx, "Provider quota exceeded, skipping category",
					"category_key", entry.Key)
			} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			} else {
				p.log.ErrorContext(ctx, "Provider fetch failed, skipping category",
					"category_key", entry.Key, "error", err)
			}
			continue
		}
		if len(photos) == 0 {
			continue
		}

		images := make([]database.Image, 0, len(photos))
		for _, photo := range photos {
			images = append(images, database.Image{ImageID: photo.ID, ImageURL: photo.URL})
		}
		if err := p.store.InsertImages(ctx, entry.Key, images); err != nil {
			p.log.ErrorContext(ctx, "Failed to store prefetched images",
				"category_key", entry.Key, "error", err)
			continue
		}
		fetched += len(images)
	}

	p.log.InfoContext(ctx, "Prefetch run complete",
		"categories", len(entries), "images_fetched", fetched, "duration", p.limiter.clock.Since(start))
	return nil
}
