package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/muralbot/internal/catalog"
	"github.com/edgard/muralbot/internal/database"
)

// CategoryKeyboard builds the morning category keyboard for a user group:
// wide users see the main categories, narrow users the flat list.
func CategoryKeyboard(group string) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	if group == database.GroupWide {
		for _, main := range catalog.Wide {
			rows = append(rows, []models.InlineKeyboardButton{
				{Text: main.Name, CallbackData: CallbackWideCategory + main.Name},
			})
		}
	} else {
		for _, cat := range catalog.Narrow {
			rows = append(rows, []models.InlineKeyboardButton{
				{Text: cat, CallbackData: CallbackNarrowCategory + cat},
			})
		}
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// SubcategoryKeyboard builds the second-level keyboard for a wide main
// category, or nil if the main category is unknown.
func SubcategoryKeyboard(main string) *models.InlineKeyboardMarkup {
	subs := catalog.Subcategories(main)
	if len(subs) == 0 {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(subs))
	for _, sub := range subs {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: sub, CallbackData: CallbackWideSubcategory + main + ":" + sub},
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// UsageKeyboard builds the yes/no keyboard for the nightly usage prompt.
func UsageKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Yes", CallbackData: CallbackUsage + "yes"},
			{Text: "No", CallbackData: CallbackUsage + "no"},
		}},
	}
}
