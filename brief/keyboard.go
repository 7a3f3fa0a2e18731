package brief

import (
	"slices"

	"github.com/go-telegram/bot/models"
	"github.com/kasionely/korner-integrations-service/model"
)

const (
	markerChecked   = "✅"
	markerUnchecked = "⬜"

	labelOther = "Другое"
	labelDone  = "✅ Готово"
)

// RenderKeyboard builds the inline keyboard for the question at step.
// Free text questions have no keyboard and yield nil.
func RenderKeyboard(step int, q model.Question, selected []string) *models.InlineKeyboardMarkup {
	switch q.Kind {
	case model.QuestionKindMultiSelect:
		return RenderMultiSelect(step, q.Options, selected, q.AllowsOther)
	case model.QuestionKindSingleSelect:
		return RenderSingleSelect(step, q.Options)
	default:
		return nil
	}
}

// RenderMultiSelect renders one toggle row per option, an optional "other"
// row and a final confirm row.
func RenderMultiSelect(step int, options, selected []string, allowsOther bool) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(options)+2)
	for i, opt := range options {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         marker(slices.Contains(selected, opt)) + " " + opt,
			CallbackData: EncodeAction(model.ToggleOption{Step: step, Index: i}),
		}})
	}

	if allowsOther {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         marker(slices.Contains(selected, model.OtherOption)) + " " + labelOther,
			CallbackData: EncodeAction(model.ToggleOther{Step: step}),
		}})
	}

	rows = append(rows, []models.InlineKeyboardButton{{
		Text:         labelDone,
		CallbackData: EncodeAction(model.Confirm{Step: step}),
	}})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// RenderSingleSelect renders one row per option.
func RenderSingleSelect(step int, options []string) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(options))
	for i, opt := range options {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         opt,
			CallbackData: EncodeAction(model.ChooseSingle{Step: step, Index: i}),
		}})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func marker(checked bool) string {
	if checked {
		return markerChecked
	}
	return markerUnchecked
}
