package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/muralbot/internal/catalog"
)

// NewWideCategoryHandler returns the handler for "cat:<Main>" callbacks:
// it shows the subcategory keyboard for the chosen main category.
func NewWideCategoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return wideCategoryHandler{deps}.Handle
}

type wideCategoryHandler struct {
	deps HandlerDeps
}

func (h wideCategoryHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "wide_category")

	query := update.CallbackQuery
	if query == nil {
		log.WarnContext(ctx, "Handler received update without callback query", "update_id", update.ID)
		return
	}
	answerCallback(ctx, b, query.ID, log)

	userID := query.From.ID
	main := strings.TrimPrefix(query.Data, CallbackWideCategory)
	log.InfoContext(ctx, "User picked wide main category", "user_id", userID, "category", main)

	keyboard := SubcategoryKeyboard(main)
	if keyboard == nil {
		log.WarnContext(ctx, "Unknown wide category in callback", "user_id", userID, "category", main)
		sendText(ctx, b, userID, "No subcategories found.", log)
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      userID,
		Text:        fmt.Sprintf(h.deps.Config.Messages.SubcatPrompt, main),
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send subcategory keyboard", "error", err, "user_id", userID)
	}
}

// NewWideSubcategoryHandler returns the handler for "subcat:<Main>:<Sub>"
// callbacks: the final selection of a wide-group user.
func NewWideSubcategoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return wideSubcategoryHandler{deps}.Handle
}

type wideSubcategoryHandler struct {
	deps HandlerDeps
}

func (h wideSubcategoryHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "wide_subcategory")

	query := update.CallbackQuery
	if query == nil {
		log.WarnContext(ctx, "Handler received update without callback query", "update_id", update.ID)
		return
	}
	answerCallback(ctx, b, query.ID, log)

	userID := query.From.ID
	rest := strings.TrimPrefix(query.Data, CallbackWideSubcategory)
	main, sub, ok := strings.Cut(rest, ":")
	if !ok || main == "" || sub == "" {
		log.WarnContext(ctx, "Malformed subcategory callback data", "user_id", userID, "data", query.Data)
		return
	}

	h.deps.selectAndDeliver(ctx, b, userID, catalog.CompositeKey(main, sub), log)
}

// NewNarrowCategoryHandler returns the handler for "narrow_cat:<Category>"
// callbacks: the selection of a narrow-group user.
func NewNarrowCategoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return narrowCategoryHandler{deps}.Handle
}

type narrowCategoryHandler struct {
	deps HandlerDeps
}

func (h narrowCategoryHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "narrow_category")

	query := update.CallbackQuery
	if query == nil {
		log.WarnContext(ctx, "Handler received update without callback query", "update_id", update.ID)
		return
	}
	answerCallback(ctx, b, query.ID, log)

	userID := query.From.ID
	category := strings.TrimPrefix(query.Data, CallbackNarrowCategory)
	if category == "" {
		log.WarnContext(ctx, "Malformed narrow category callback data", "user_id", userID, "data", query.Data)
		return
	}

	h.deps.selectAndDeliver(ctx, b, userID, category, log)
}
