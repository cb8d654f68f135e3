package tasks

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/muralbot/internal/config"
	"github.com/edgard/muralbot/internal/database"
)

func TestSummaryTaskSkipsWithoutAdmins(t *testing.T) {
	deps := TaskDeps{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &config.Config{},
	}

	// With no admin recipients the task returns before touching the store
	// or the bot, so neither needs to be wired up.
	task := newSummaryTask(deps)
	require.NoError(t, task(context.Background()))
}

func TestFormatSummary(t *testing.T) {
	stats := []database.GroupStats{
		{Group: database.GroupNarrow, WallpapersUsed: 1, WallpapersReceived: 3},
		{Group: database.GroupWide, WallpapersUsed: 2, WallpapersReceived: 4},
	}

	text := FormatSummary(stats)

	assert.Contains(t, text, "Daily summary:")
	assert.Contains(t, text, "Narrow group:\n  - Wallpapers Received: 3\n  - Wallpapers Used: 1\n  - Usage Rate: 33.33%")
	assert.Contains(t, text, "Wide group:\n  - Wallpapers Received: 4\n  - Wallpapers Used: 2\n  - Usage Rate: 50.00%")
	assert.Contains(t, text, "Overall:\n  - Wallpapers Received: 7\n  - Wallpapers Used: 3\n  - Usage Rate: 42.86%")
}

func TestFormatSummaryEmptyStats(t *testing.T) {
	text := FormatSummary(nil)

	// Missing groups show up with zero counters and a zero rate.
	assert.Contains(t, text, "Narrow group:\n  - Wallpapers Received: 0\n  - Wallpapers Used: 0\n  - Usage Rate: 0.00%")
	assert.Contains(t, text, "Wide group:\n  - Wallpapers Received: 0")
	assert.Contains(t, text, "Overall:\n  - Wallpapers Received: 0")
}

func TestFormatSummarySingleGroup(t *testing.T) {
	stats := []database.GroupStats{
		{Group: database.GroupWide, WallpapersUsed: 0, WallpapersReceived: 5},
	}

	text := FormatSummary(stats)

	assert.Contains(t, text, "Wide group:\n  - Wallpapers Received: 5\n  - Wallpapers Used: 0\n  - Usage Rate: 0.00%")
	assert.Contains(t, text, "Overall:\n  - Wallpapers Received: 5")
}
