package brief

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot/models"
	"github.com/kasionely/korner-integrations-service/model"
)

// Messenger is the chat channel the brief talks through.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, opts model.TextOptions) error
	SendWithControl(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (model.MessageRef, error)
	EditControl(ctx context.Context, ref model.MessageRef, markup models.ReplyMarkup) error
	AcknowledgeInteraction(ctx context.Context, interactionID string, opts model.AckOptions) error
}

// Presenter sends questions to the user.
type Presenter struct {
	catalog   *Catalog
	messenger Messenger
}

func NewPresenter(catalog *Catalog, messenger Messenger) *Presenter {
	return &Presenter{catalog: catalog, messenger: messenger}
}

// QuestionText renders the header, prompt and hint of the question at step.
func (p *Presenter) QuestionText(step int) (string, error) {
	q, ok := p.catalog.At(step)
	if !ok {
		return "", fmt.Errorf("no question at step %d", step)
	}

	text := fmt.Sprintf("<b>Вопрос %d из %d</b>\n\n%s", q.ID, p.catalog.Len(), html.EscapeString(q.Text))
	if q.Hint != "" {
		text += fmt.Sprintf("\n<i>%s</i>", html.EscapeString(q.Hint))
	}
	return text, nil
}

// Present sends the question at step, with its keyboard when it has options.
func (p *Presenter) Present(ctx context.Context, chatID int64, step int, selected []string) error {
	text, err := p.QuestionText(step)
	if err != nil {
		return err
	}
	q, _ := p.catalog.At(step)

	if !q.HasOptions() {
		if err := p.messenger.SendText(ctx, chatID, text, model.TextOptions{HTML: true}); err != nil {
			return fmt.Errorf("error sending question %d: %w", q.ID, err)
		}
		return nil
	}

	if _, err := p.messenger.SendWithControl(ctx, chatID, text, RenderKeyboard(step, q, selected)); err != nil {
		return fmt.Errorf("error sending question %d: %w", q.ID, err)
	}
	return nil
}

// Refresh edits the keyboard of an already sent question in place.
func (p *Presenter) Refresh(ctx context.Context, ref model.MessageRef, step int, selected []string) error {
	q, ok := p.catalog.At(step)
	if !ok {
		return fmt.Errorf("no question at step %d", step)
	}
	if err := p.messenger.EditControl(ctx, ref, RenderKeyboard(step, q, selected)); err != nil {
		return fmt.Errorf("error editing keyboard of question %d: %w", q.ID, err)
	}
	return nil
}
