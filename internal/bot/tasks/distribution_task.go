package tasks

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/muralbot/internal/bot/handlers"
)

// newDistributionTask creates the morning distribution job: every user gets
// a category keyboard matching their group. A failed send for one user never
// blocks the rest of the batch.
func newDistributionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "distribution")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting morning wallpaper distribution...")
		startTime := time.Now()

		users, err := deps.Store.ListUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to list users for distribution: %w", err)
		}

		sent := 0
		for _, user := range users {
			_, err := deps.Bot.SendMessage(ctx, &tgbot.SendMessageParams{
				ChatID:      user.UserID,
				Text:        deps.Config.Messages.MorningPrompt,
				ReplyMarkup: handlers.CategoryKeyboard(user.Group),
			})
			if err != nil {
				log.ErrorContext(ctx, "Failed to send morning prompt",
					"error", err, "user_id", user.UserID)
				continue
			}
			sent++
		}

		log.InfoContext(ctx, "Morning distribution complete",
			"users", len(users), "sent", sent, "duration", time.Since(startTime))
		return nil
	}
}
