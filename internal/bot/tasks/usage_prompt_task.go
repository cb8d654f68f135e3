package tasks

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/muralbot/internal/bot/handlers"
)

// newUsagePromptTask creates the nightly job asking every user who has
// received at least one wallpaper whether they set it.
func newUsagePromptTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "usage_prompt")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting nightly usage prompt...")
		startTime := time.Now()

		users, err := deps.Store.ListRecipients(ctx)
		if err != nil {
			return fmt.Errorf("failed to list recipients for usage prompt: %w", err)
		}

		sent := 0
		for _, user := range users {
			_, err := deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID:      user.UserID,
				Text:        deps.Config.Messages.UsagePrompt,
				ReplyMarkup: handlers.UsageKeyboard(),
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send usage prompt",
					"error", err, "user_id", user.UserID)
				continue
			}
			sent++
		}

		log.InfoContext(ctx, "Usage prompt complete",
			"recipients", len(users), "sent", sent, "duration", time.Since(startTime))
		return nil
	}
}
