package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/muralbot/internal/database"
	"github.com/edgard/muralbot/internal/unsplash"
)

type stubProvider struct {
	calls   int
	queries []string
	photos  []unsplash.Photo
	err     error
}

func (s *stubProvider) RandomPhotos(_ context.Context, query string, _ int) ([]unsplash.Photo, error) {
	s.calls++
	s.queries = append(s.queries, query)
	return s.photos, s.err
}

func newTestManager(t *testing.T, provider unsplash.Client) (*Manager, database.Store) {
	t.Helper()

	db, err := database.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB(db) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewStore(db, log)
	return NewManager(store, provider, log), store
}

func TestEnsureSupplyUsesCacheFirst(t *testing.T) {
	provider := &stubProvider{}
	manager, store := newTestManager(t, provider)
	ctx := context.Background()

	require.NoError(t, store.InsertImages(ctx, "Nature", []database.Image{
		{ImageID: "img-1", ImageURL: "https://example.com/1.jpg"},
	}))

	images, err := manager.EnsureSupply(ctx, "Nature", 1)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Zero(t, provider.calls, "cached images should not trigger a provider fetch")
}

func TestEnsureSupplyFetchesOnDemand(t *testing.T) {
	provider := &stubProvider{
		photos: []unsplash.Photo{
			{ID: "img-1", URL: "https://example.com/1.jpg"},
			{ID: "img-2", URL: "https://example.com/2.jpg"},
			{ID: "img-3", URL: "https://example.com/3.jpg"},
			{ID: "img-4", URL: "https://example.com/4.jpg"},
			{ID: "img-5", URL: "https://example.com/5.jpg"},
		},
	}
	manager, _ := newTestManager(t, provider)
	ctx := context.Background()

	images, err := manager.EnsureSupply(ctx, "Nature", 1)
	require.NoError(t, err)
	assert.Len(t, images, 5)
	assert.Equal(t, 1, provider.calls)

	// The fetched batch is cached; a second call is served from the store.
	images, err = manager.EnsureSupply(ctx, "Nature", 1)
	require.NoError(t, err)
	assert.Len(t, images, 5)
	assert.Equal(t, 1, provider.calls)
}

func TestEnsureSupplyQueriesSubcategoryForCompositeKeys(t *testing.T) {
	provider := &stubProvider{
		photos: []unsplash.Photo{{ID: "img-1", URL: "https://example.com/1.jpg"}},
	}
	manager, _ := newTestManager(t, provider)

	_, err := manager.EnsureSupply(context.Background(), "Nature:Mountains", 1)
	require.NoError(t, err)
	require.Len(t, provider.queries, 1)
	assert.Equal(t, "Mountains", provider.queries[0])
}

func TestEnsureSupplyExhaustedOnProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("upstream error")}
	manager, _ := newTestManager(t, provider)

	// A failed on-demand fetch is the exhausted outcome, not an error.
	images, err := manager.EnsureSupply(context.Background(), "Space", 1)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestEnsureSupplyExhaustedOnRateLimit(t *testing.T) {
	provider := &stubProvider{err: unsplash.ErrRateLimited}
	manager, _ := newTestManager(t, provider)

	images, err := manager.EnsureSupply(context.Background(), "Space", 1)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestEnsureSupplyExhaustedWhenAllSeen(t *testing.T) {
	provider := &stubProvider{
		photos: []unsplash.Photo{{ID: "img-1", URL: "https://example.com/1.jpg"}},
	}
	manager, store := newTestManager(t, provider)
	ctx := context.Background()

	require.NoError(t, store.InsertImages(ctx, "Cities", []database.Image{
		{ImageID: "img-1", ImageURL: "https://example.com/1.jpg"},
	}))
	require.NoError(t, store.MarkImageSeen(ctx, 1, "img-1"))

	// The on-demand fetch returns only an already-seen image, so the user
	// still ends up with nothing.
	images, err := manager.EnsureSupply(ctx, "Cities", 1)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Equal(t, 1, provider.calls)
}

func TestMarkDelivered(t *testing.T) {
	provider := &stubProvider{}
	manager, store := newTestManager(t, provider)
	ctx := context.Background()

	_, _, err := store.GetOrCreateUser(ctx, 1, database.GroupNarrow)
	require.NoError(t, err)
	require.NoError(t, store.InsertImages(ctx, "Nature", []database.Image{
		{ImageID: "img-1", ImageURL: "https://example.com/1.jpg"},
	}))

	require.NoError(t, manager.MarkDelivered(ctx, 1, "img-1"))

	unseen, err := manager.GetUnseen(ctx, "Nature", 1)
	require.NoError(t, err)
	assert.Empty(t, unseen)

	user, _, err := store.GetOrCreateUser(ctx, 1, database.GroupNarrow)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.WallpapersReceived)
}
