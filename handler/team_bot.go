package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/kasionely/korner-integrations-service/brief"
	"github.com/kasionely/korner-integrations-service/model"
	"github.com/rs/zerolog"
)

const (
	DefaultStartCommand  = "/qamalladin"
	DefaultCancelCommand = "/cancel"

	fallbackDisplayName = "Пользователь"
	failureText         = "Что-то пошло не так. Попробуйте ещё раз позже."
)

// BriefEngine is the brief state machine the handler dispatches to.
type BriefEngine interface {
	Start(ctx context.Context, cmd model.StartCommand) error
	HandleFreeText(ctx context.Context, msg model.TextMessage) error
	HandleControlEvent(ctx context.Context, ev model.ControlInteraction) error
	Cancel(ctx context.Context, userID, chatID int64) error
}

type TeamBotHandler struct {
	engine        BriefEngine
	catalog       *brief.Catalog
	messenger     brief.Messenger
	startCommand  string
	cancelCommand string
	logger        zerolog.Logger
}

type Option func(*TeamBotHandler)

func WithCommands(start, cancel string) Option {
	return func(h *TeamBotHandler) {
		if start != "" {
			h.startCommand = start
		}
		if cancel != "" {
			h.cancelCommand = cancel
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(h *TeamBotHandler) { h.logger = l }
}

func NewTeamBotHandler(
	engine BriefEngine,
	catalog *brief.Catalog,
	messenger brief.Messenger,
	opts ...Option,
) *TeamBotHandler {
	h := &TeamBotHandler{
		engine:        engine,
		catalog:       catalog,
		messenger:     messenger,
		startCommand:  DefaultStartCommand,
		cancelCommand: DefaultCancelCommand,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handler is registered as the bot's default handler.
func (h *TeamBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if err := h.Dispatch(ctx, update); err != nil && !errors.Is(err, context.Canceled) {
		h.logger.Error().Err(err).Int64("update_id", update.ID).Msg("error handling update")
		if update.Message != nil {
			if err := h.messenger.SendText(ctx, update.Message.Chat.ID, failureText, model.TextOptions{}); err != nil {
				h.logger.Error().Err(err).Msg("error sending failure message")
			}
		}
	}
}

// Dispatch decodes update and hands it to the engine.
func (h *TeamBotHandler) Dispatch(ctx context.Context, update *models.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return h.dispatchCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return h.dispatchMessage(ctx, update.Message)
	default:
		return nil
	}
}

func (h *TeamBotHandler) dispatchCallback(ctx context.Context, cq *models.CallbackQuery) error {
	if !brief.IsCallbackData(cq.Data) {
		return nil
	}

	ev, err := h.decodeCallback(cq)
	if err != nil {
		h.logger.Warn().Err(err).Int64("user_id", cq.From.ID).Str("data", cq.Data).Msg("rejected callback")
		if err := h.messenger.AcknowledgeInteraction(ctx, cq.ID, model.AckOptions{}); err != nil {
			h.logger.Warn().Err(err).Msg("error acknowledging callback")
		}
		return nil
	}

	h.logger.Debug().Int64("user_id", ev.UserID).Str("data", cq.Data).Msg("brief callback")
	return h.engine.HandleControlEvent(ctx, ev)
}

func (h *TeamBotHandler) decodeCallback(cq *models.CallbackQuery) (model.ControlInteraction, error) {
	if cq.Message.Message == nil {
		return model.ControlInteraction{}, errors.New("callback without accessible message")
	}

	action, err := brief.DecodeAction(cq.Data, h.catalog)
	if err != nil {
		return model.ControlInteraction{}, err
	}

	msg := cq.Message.Message
	return model.ControlInteraction{
		UserID:        cq.From.ID,
		ChannelID:     msg.Chat.ID,
		MessageRef:    model.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.ID},
		InteractionID: cq.ID,
		Action:        action,
	}, nil
}

func (h *TeamBotHandler) dispatchMessage(ctx context.Context, msg *models.Message) error {
	if msg.From == nil || msg.Text == "" {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch {
	case strings.HasPrefix(text, h.startCommand):
		return h.engine.Start(ctx, model.StartCommand{
			UserID:      userID,
			DisplayName: displayName(msg.From),
			ChannelID:   chatID,
		})
	case text == h.cancelCommand:
		return h.engine.Cancel(ctx, userID, chatID)
	default:
		return h.engine.HandleFreeText(ctx, model.TextMessage{
			UserID:    userID,
			ChannelID: chatID,
			Text:      text,
		})
	}
}

func displayName(u *models.User) string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return fallbackDisplayName
	}
}
