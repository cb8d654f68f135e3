package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/muralbot/internal/database"
)

// newSummaryTask creates the daily summary job: per-group and overall usage
// statistics sent to the configured admin users.
func newSummaryTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "summary")

	return func(ctx context.Context) error {
		if len(deps.Config.Telegram.AdminUserIDs) == 0 {
			log.InfoContext(ctx, "No admin recipients configured, skipping daily summary")
			return nil
		}

		log.InfoContext(ctx, "Generating daily summary...")
		startTime := time.Now()

		stats, err := deps.Store.GroupStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to aggregate summary stats: %w", err)
		}

		text := FormatSummary(stats)

		for _, adminID := range deps.Config.Telegram.AdminUserIDs {
			_, err := deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID: adminID,
				Text:   text,
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send daily summary",
					"error", err, "admin_id", adminID)
				continue
			}
		}

		log.InfoContext(ctx, "Daily summary complete", "duration", time.Since(startTime))
		return nil
	}
}

// FormatSummary renders the per-group and overall usage statistics. Groups
// with no users are reported with zero counters.
func FormatSummary(stats []database.GroupStats) string {
	byGroup := make(map[string]database.GroupStats, len(stats))
	var total database.GroupStats
	for _, s := range stats {
		byGroup[s.Group] = s
		total.WallpapersUsed += s.WallpapersUsed
		total.WallpapersReceived += s.WallpapersReceived
	}

	var b strings.Builder
	b.WriteString("Daily summary:\n\n")

	writeGroup := func(title string, s database.GroupStats) {
		fmt.Fprintf(&b, "%s:\n", title)
		fmt.Fprintf(&b, "  - Wallpapers Received: %d\n", s.WallpapersReceived)
		fmt.Fprintf(&b, "  - Wallpapers Used: %d\n", s.WallpapersUsed)
		fmt.Fprintf(&b, "  - Usage Rate: %.2f%%\n\n", s.UsageRate())
	}

	writeGroup("Narrow group", byGroup[database.GroupNarrow])
	writeGroup("Wide group", byGroup[database.GroupWide])
	writeGroup("Overall", total)

	return strings.TrimSuffix(b.String(), "\n")
}
