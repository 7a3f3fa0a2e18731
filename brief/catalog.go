package brief

import (
	"fmt"
	"slices"

	"github.com/kasionely/korner-integrations-service/model"
)

// Catalog is the fixed, ordered list of brief questions.
type Catalog struct {
	questions []model.Question
}

// NewCatalog validates questions and returns an immutable catalog.
func NewCatalog(questions []model.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog has no questions")
	}

	qs := make([]model.Question, len(questions))
	for i, q := range questions {
		if q.ID != i+1 {
			return nil, fmt.Errorf("question %d: expected id %d, got %d", i, i+1, q.ID)
		}
		if q.HasOptions() && len(q.Options) == 0 {
			return nil, fmt.Errorf("question %d: %s question has no options", q.ID, q.Kind)
		}
		if !q.HasOptions() && len(q.Options) > 0 {
			return nil, fmt.Errorf("question %d: free text question has options", q.ID)
		}
		if q.AllowsOther && q.Kind != model.QuestionKindMultiSelect {
			return nil, fmt.Errorf("question %d: only multi-select questions allow other", q.ID)
		}
		q.Options = slices.Clone(q.Options)
		qs[i] = q
	}

	return &Catalog{questions: qs}, nil
}

func MustCatalog(questions []model.Question) *Catalog {
	c, err := NewCatalog(questions)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

// At returns the question at step.
func (c *Catalog) At(step int) (model.Question, bool) {
	if step < 0 || step >= len(c.questions) {
		return model.Question{}, false
	}
	q := c.questions[step]
	q.Options = slices.Clone(q.Options)
	return q, true
}

// DefaultCatalog is the Korner × Qamalladin Media landing page brief.
func DefaultCatalog() *Catalog {
	return MustCatalog([]model.Question{
		{ID: 1, Text: "Ваше имя / никнейм", Kind: model.QuestionKindFreeText},
		{ID: 2, Text: "E-mail | Telegram | WhatsApp", Kind: model.QuestionKindFreeText},
		{
			ID:   3,
			Text: "Вы кто?",
			Kind: model.QuestionKindFreeText,
			Hint: "Инфлюенсер, стример, блоггер, МСБ, Ивент агентство и тд",
		},
		{
			ID:   4,
			Text: "Текст о себе, либо о проекте",
			Kind: model.QuestionKindFreeText,
			Hint: "Расскажите тезисно о том, чем вы занимаетесь",
		},
		{
			ID:   5,
			Text: "Ссылки на платформы",
			Kind: model.QuestionKindFreeText,
			Hint: "Instagram, TikTok, YouTube, Twitch и тд",
		},
		{
			ID:   6,
			Text: "Кто ваша аудитория?",
			Kind: model.QuestionKindFreeText,
			Hint: "Опишите их: возраст, пол и увлечения",
		},
		{
			ID:      7,
			Text:    "География вашей аудитории",
			Kind:    model.QuestionKindMultiSelect,
			Options: []string{"Казахстан", "СНГ (в тч Казахстан)", "Весь мир"},
		},
		{
			ID:   8,
			Text: "Что должно быть на странице?",
			Kind: model.QuestionKindMultiSelect,
			Options: []string{
				"Аватар/логотип",
				"Короткое описание",
				"Социальные иконки",
				"Донаты",
				"Товары",
				"Видео/рилсы",
				"Форма обратной связи",
				"Кнопки мессенджеров",
			},
			AllowsOther: true,
		},
		{
			ID:   9,
			Text: "Есть ли у вас фирменные цвета?",
			Kind: model.QuestionKindFreeText,
			Hint: "Если есть, напишите их, либо код RGB, HEX, CMYK",
		},
		{
			ID:   10,
			Text: "Какой стиль вам ближе?",
			Kind: model.QuestionKindMultiSelect,
			Options: []string{
				"Минимализм",
				"Ярко / Креативно",
				"Премиум",
				"Трендовый стиль",
				"Корпоративный стиль",
				"На усмотрение команды Korner",
			},
		},
		{
			ID:      11,
			Text:    "На каком языке должна быть страница?",
			Kind:    model.QuestionKindMultiSelect,
			Options: []string{"Казахский", "Русский", "Английский"},
		},
		{
			ID:   12,
			Text: "Что должна передавать ваша страница?",
			Kind: model.QuestionKindMultiSelect,
			Options: []string{
				"Мысли / цитаты / фразы",
				"Польза для аудитории",
				"Призыв к действию",
				"Факты и достижения",
				"Инфо о вас",
			},
			AllowsOther: true,
		},
		{
			ID:      13,
			Text:    "Есть ли продукт, который подписчики готовы купить?",
			Kind:    model.QuestionKindSingleSelect,
			Options: []string{"Да, есть", "Нету", "В процессе запуска"},
		},
	})
}
