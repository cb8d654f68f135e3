package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewUsageHandler returns the handler for "used:yes" / "used:no" callbacks
// from the nightly usage prompt.
func NewUsageHandler(deps HandlerDeps) bot.HandlerFunc {
	return usageHandler{deps}.Handle
}

type usageHandler struct {
	deps HandlerDeps
}

func (h usageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "usage_feedback")

	query := update.CallbackQuery
	if query == nil {
		log.WarnContext(ctx, "Handler received update without callback query", "update_id", update.ID)
		return
	}
	answerCallback(ctx, b, query.ID, log)

	userID := query.From.ID
	answer := strings.TrimPrefix(query.Data, CallbackUsage)
	log.InfoContext(ctx, "Usage feedback received", "user_id", userID, "answer", answer)

	if answer == "yes" {
		if err := h.deps.Store.IncrementWallpapersUsed(ctx, userID); err != nil {
			log.ErrorContext(ctx, "Failed to record wallpaper usage", "error", err, "user_id", userID)
		}
	}

	sendText(ctx, b, userID, h.deps.Config.Messages.UsageThanks, log)
}
