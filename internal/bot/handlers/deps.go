// Package handlers contains the Telegram command and callback handlers,
// along with their registration metadata and keyboard builders.
package handlers

import (
	"log/slog"

	"github.com/edgard/muralbot/internal/cache"
	"github.com/edgard/muralbot/internal/config"
	"github.com/edgard/muralbot/internal/database"
	"github.com/edgard/muralbot/internal/policy"
)

// HandlerDeps provides dependencies for Telegram command and callback handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Cache    *cache.Manager
	Cooldown *policy.Cooldown
	Groups   *policy.GroupAssigner
}
