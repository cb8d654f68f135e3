// Package tasks implements the scheduled jobs of the bot: the morning
// distribution prompt, the nightly usage prompt, the daily summary, the
// nightly cache prefetch, and database maintenance.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/muralbot/internal/config"
	"github.com/edgard/muralbot/internal/database"
	"github.com/edgard/muralbot/internal/prefetch"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Bot        *tgbot.Bot
	Prefetcher *prefetch.Prefetcher
}
