package repo

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/kasionely/korner-integrations-service/model"
)

// TelegramAPI is the part of *bot.Bot the messenger calls.
type TelegramAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// TelegramMessenger sends brief messages through the Telegram Bot API
type TelegramMessenger struct {
	api TelegramAPI
}

// NewTelegramMessenger creates a new messenger
func NewTelegramMessenger(api TelegramAPI) *TelegramMessenger {
	return &TelegramMessenger{api: api}
}

func (t *TelegramMessenger) SendText(ctx context.Context, chatID int64, text string, opts model.TextOptions) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if opts.HTML {
		params.ParseMode = models.ParseModeHTML
	}

	if _, err := t.api.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) SendWithControl(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) (model.MessageRef, error) {
	msg, err := t.api.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		return model.MessageRef{}, fmt.Errorf("error sending message: %w", err)
	}

	ref := model.MessageRef{ChatID: chatID}
	if msg != nil {
		ref.MessageID = msg.ID
	}
	return ref, nil
}

func (t *TelegramMessenger) EditControl(ctx context.Context, ref model.MessageRef, markup models.ReplyMarkup) error {
	_, err := t.api.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      ref.ChatID,
		MessageID:   ref.MessageID,
		ReplyMarkup: markup,
	})
	if err != nil {
		return fmt.Errorf("error editing reply markup: %w", err)
	}
	return nil
}

func (t *TelegramMessenger) AcknowledgeInteraction(ctx context.Context, interactionID string, opts model.AckOptions) error {
	_, err := t.api.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: interactionID,
		Text:            opts.Text,
		ShowAlert:       opts.ShowAlert,
	})
	if err != nil {
		return fmt.Errorf("error answering callback query: %w", err)
	}
	return nil
}
