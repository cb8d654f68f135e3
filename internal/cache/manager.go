// Package cache implements the image cache manager: querying unseen images
// for a user, topping the cache up on demand, and recording deliveries.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edgard/muralbot/internal/catalog"
	"github.com/edgard/muralbot/internal/database"
	"github.com/edgard/muralbot/internal/unsplash"
)

// OnDemandFetchCount is the batch size of an on-demand provider fetch when a
// category's cache is empty for a user.
const OnDemandFetchCount = 5

// Manager coordinates the image store and the provider client.
type Manager struct {
	store    database.Store
	provider unsplash.Client
	log      *slog.Logger
}

// NewManager creates a cache manager.
func NewManager(store database.Store, provider unsplash.Client, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:    store,
		provider: provider,
		log:      log.With("component", "cache_manager"),
	}
}

// GetUnseen returns the cached images in categoryKey that the user has not
// seen yet, in insertion order.
func (m *Manager) GetUnseen(ctx context.Context, categoryKey string, userID int64) ([]database.Image, error) {
	return m.store.GetUnseenImages(ctx, categoryKey, userID)
}

// EnsureSupply returns unseen images for the user in categoryKey, performing
// a single on-demand provider fetch when the cache has nothing left for them.
// An empty result is the "category exhausted" outcome, not an error: either
// the provider had nothing new or its call failed, and both are contained
// here.
func (m *Manager) EnsureSupply(ctx context.Context, categoryKey string, userID int64) ([]database.Image, error) {
	images, err := m.store.GetUnseenImages(ctx, categoryKey, userID)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		return images, nil
	}

	m.log.InfoContext(ctx, "Cache empty for user, fetching on demand",
		"category_key", categoryKey, "user_id", userID)

	photos, err := m.provider.RandomPhotos(ctx, catalog.Query(categoryKey), OnDemandFetchCount)
	if err != nil {
		if errors.Is(err, unsplash.ErrRateLimited) {
			m.log.WarnContext(ctx, "On-demand fetch hit provider quota", "category_key", categoryKey)
		} else {
			m.log.ErrorContext(ctx, "On-demand fetch failed", "category_key", categoryKey, "error", err)
		}
		return nil, nil
	}
	if len(photos) == 0 {
		return nil, nil
	}

	fetched := make([]database.Image, 0, len(photos))
	for _, p := range photos {
		fetched = append(fetched, database.Image{ImageID: p.ID, ImageURL: p.URL})
	}
	if err := m.store.InsertImages(ctx, categoryKey, fetched); err != nil {
		return nil, fmt.Errorf("failed to store on-demand images: %w", err)
	}

	return m.store.GetUnseenImages(ctx, categoryKey, userID)
}

// MarkDelivered records a successful external delivery: the image gets a
// seen record (idempotent) and the user's received counter is bumped. It
// must only be called after the outward send succeeded; a failed send leaves
// both untouched.
func (m *Manager) MarkDelivered(ctx context.Context, userID int64, imageID string) error {
	if err := m.store.MarkImageSeen(ctx, userID, imageID); err != nil {
		return fmt.Errorf("failed to record seen image: %w", err)
	}
	if err := m.store.IncrementWallpapersReceived(ctx, userID); err != nil {
		return fmt.Errorf("failed to update received counter: %w", err)
	}

	m.log.DebugContext(ctx, "Recorded wallpaper delivery", "user_id", userID, "image_id", imageID)
	return nil
}
