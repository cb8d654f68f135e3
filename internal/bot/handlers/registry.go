package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// Callback data prefixes shared between the keyboards and their handlers.
const (
	CallbackWideCategory    = "cat:"
	CallbackWideSubcategory = "subcat:"
	CallbackNarrowCategory  = "narrow_cat:"
	CallbackUsage           = "used:"
)

// RegisteredHandler represents a handler with its registration metadata and
// middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllHandlers initializes and returns a map of all bot handlers:
// the /start command, the category selection callbacks, and the usage
// feedback callback.
func RegisterAllHandlers(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "/start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["wide_category"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackWideCategory,
		Handler:     NewWideCategoryHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["wide_subcategory"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackWideSubcategory,
		Handler:     NewWideSubcategoryHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["narrow_category"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackNarrowCategory,
		Handler:     NewNarrowCategoryHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}
	handlers["usage_feedback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackUsage,
		Handler:     NewUsageHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
