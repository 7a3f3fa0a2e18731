package brief_test

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/kasionely/korner-integrations-service/brief"
	"github.com/kasionely/korner-integrations-service/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			out = append(out, btn.Text)
		}
	}
	return out
}

func TestRenderMultiSelect(t *testing.T) {
	kb := brief.RenderMultiSelect(4, []string{"A", "B", "C"}, []string{"B", model.OtherOption}, true)

	require.Len(t, kb.InlineKeyboard, 5)
	for _, row := range kb.InlineKeyboard {
		assert.Len(t, row, 1)
	}
	assert.Equal(t, []string{"⬜ A", "✅ B", "⬜ C", "✅ Другое", "✅ Готово"}, labels(kb))

	assert.Equal(t, "brief_check_4_1", kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "brief_other_4", kb.InlineKeyboard[3][0].CallbackData)
	assert.Equal(t, "brief_done_4", kb.InlineKeyboard[4][0].CallbackData)
}

func TestRenderMultiSelectWithoutOther(t *testing.T) {
	kb := brief.RenderMultiSelect(0, []string{"A", "B"}, nil, false)
	assert.Equal(t, []string{"⬜ A", "⬜ B", "✅ Готово"}, labels(kb))
}

func TestRenderMultiSelectIsIdempotent(t *testing.T) {
	selected := []string{"A"}
	first := brief.RenderMultiSelect(2, []string{"A", "B"}, selected, true)
	second := brief.RenderMultiSelect(2, []string{"A", "B"}, selected, true)
	assert.Equal(t, first, second)
}

func TestRenderSingleSelect(t *testing.T) {
	kb := brief.RenderSingleSelect(12, []string{"Yes", "No"})

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, []string{"Yes", "No"}, labels(kb))
	assert.Equal(t, "brief_radio_12_0", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "brief_radio_12_1", kb.InlineKeyboard[1][0].CallbackData)
}

func TestRenderKeyboardFreeText(t *testing.T) {
	q := model.Question{ID: 1, Text: "Name", Kind: model.QuestionKindFreeText}
	assert.Nil(t, brief.RenderKeyboard(0, q, nil))
}
