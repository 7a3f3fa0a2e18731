package brief_test

import (
	"testing"

	"github.com/kasionely/korner-integrations-service/brief"
	"github.com/kasionely/korner-integrations-service/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := brief.DefaultCatalog()
	require.Equal(t, 13, c.Len())

	for i := 0; i < c.Len(); i++ {
		q, ok := c.At(i)
		require.True(t, ok)
		assert.Equal(t, i+1, q.ID)
		if q.HasOptions() {
			assert.NotEmpty(t, q.Options, "question %d", q.ID)
		}
	}

	last, _ := c.At(c.Len() - 1)
	assert.Equal(t, model.QuestionKindSingleSelect, last.Kind)

	_, ok := c.At(c.Len())
	assert.False(t, ok)
}

func TestNewCatalogRejectsInvalidQuestions(t *testing.T) {
	tests := []struct {
		name      string
		questions []model.Question
	}{
		{"empty", nil},
		{"gap in ids", []model.Question{
			{ID: 1, Text: "a", Kind: model.QuestionKindFreeText},
			{ID: 3, Text: "b", Kind: model.QuestionKindFreeText},
		}},
		{"select without options", []model.Question{
			{ID: 1, Text: "a", Kind: model.QuestionKindSingleSelect},
		}},
		{"free text with options", []model.Question{
			{ID: 1, Text: "a", Kind: model.QuestionKindFreeText, Options: []string{"x"}},
		}},
		{"other on single select", []model.Question{
			{ID: 1, Text: "a", Kind: model.QuestionKindSingleSelect, Options: []string{"x"}, AllowsOther: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := brief.NewCatalog(tt.questions)
			assert.Error(t, err)
		})
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	options := []string{"A", "B"}
	c := brief.MustCatalog([]model.Question{
		{ID: 1, Text: "pick", Kind: model.QuestionKindMultiSelect, Options: options},
	})

	options[0] = "changed"
	q, _ := c.At(0)
	assert.Equal(t, "A", q.Options[0])

	q.Options[1] = "changed"
	q2, _ := c.At(0)
	assert.Equal(t, "B", q2.Options[1])
}
