package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// selectAndDeliver runs the cooldown gate for a category selection and, when
// permitted, persists the choice and delivers a wallpaper. The click
// timestamp is updated before the delivery attempt, so a failed send still
// consumes the user's slot for the window.
func (deps HandlerDeps) selectAndDeliver(ctx context.Context, b *bot.Bot, userID int64, categoryKey string, log *slog.Logger) {
	user, _, err := deps.Store.GetOrCreateUser(ctx, userID, deps.Groups.Assign())
	if err != nil {
		log.ErrorContext(ctx, "Failed to load user for selection", "error", err, "user_id", userID)
		return
	}

	if !deps.Cooldown.MaySelect(user) {
		log.InfoContext(ctx, "Selection rejected by cooldown", "user_id", userID, "category_key", categoryKey)
		sendText(ctx, b, userID, deps.Config.Messages.Cooldown, log)
		return
	}

	if err := deps.Store.SetChosenCategory(ctx, userID, categoryKey, deps.Cooldown.Now()); err != nil {
		log.ErrorContext(ctx, "Failed to persist category selection", "error", err, "user_id", userID)
		return
	}

	deps.deliverWallpaper(ctx, b, userID, categoryKey, log)
}

// deliverWallpaper sends an unseen wallpaper for the category to the user.
// Delivery means two outward effects: the photo for viewing and the document
// for download. Only when both succeed is the image marked seen and the
// received counter incremented.
func (deps HandlerDeps) deliverWallpaper(ctx context.Context, b *bot.Bot, userID int64, categoryKey string, log *slog.Logger) {
	images, err := deps.Cache.EnsureSupply(ctx, categoryKey, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to ensure wallpaper supply",
			"error", err, "user_id", userID, "category_key", categoryKey)
		sendText(ctx, b, userID, deps.Config.Messages.DeliveryError, log)
		return
	}
	if len(images) == 0 {
		log.InfoContext(ctx, "Category exhausted for user", "user_id", userID, "category_key", categoryKey)
		sendText(ctx, b, userID, fmt.Sprintf(deps.Config.Messages.Exhausted, categoryKey), log)
		return
	}

	img := images[0]

	if _, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: userID,
		Photo:  &models.InputFileString{Data: img.ImageURL},
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send wallpaper photo",
			"error", err, "user_id", userID, "image_id", img.ImageID)
		sendText(ctx, b, userID, deps.Config.Messages.DeliveryError, log)
		return
	}

	if _, err := b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   userID,
		Document: &models.InputFileString{Data: img.ImageURL},
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send wallpaper document",
			"error", err, "user_id", userID, "image_id", img.ImageID)
		sendText(ctx, b, userID, deps.Config.Messages.DeliveryError, log)
		return
	}

	if err := deps.Cache.MarkDelivered(ctx, userID, img.ImageID); err != nil {
		log.ErrorContext(ctx, "Failed to record delivery",
			"error", err, "user_id", userID, "image_id", img.ImageID)
		return
	}

	log.InfoContext(ctx, "Wallpaper delivered",
		"user_id", userID, "category_key", categoryKey, "image_id", img.ImageID)
}

// answerCallback acknowledges a callback query so the client stops its
// loading indicator.
func answerCallback(ctx context.Context, b *bot.Bot, callbackID string, log *slog.Logger) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err)
	}
}

// sendText sends a plain text message to a user's private chat.
func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
