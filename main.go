package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/kasionely/korner-integrations-service/brief"
	"github.com/kasionely/korner-integrations-service/config"
	"github.com/kasionely/korner-integrations-service/handler"
	"github.com/kasionely/korner-integrations-service/repo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating session store")
	}

	var teamBot *handler.TeamBotHandler
	opts := []bot.Option{
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			teamBot.Handler(ctx, b, update)
		}),
		bot.WithErrorsHandler(func(err error) {
			logger.Error().Err(err).Msg("telegram bot error")
		}),
	}
	if cfg.BotMode == config.BotModeWebhook && cfg.WebhookSecretToken != "" {
		opts = append(opts, bot.WithWebhookSecretToken(cfg.WebhookSecretToken))
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating bot")
	}

	messenger := repo.NewTelegramMessenger(b)
	engine := brief.NewEngine(store, messenger, cfg.ReportChatID,
		brief.WithSessionTTL(cfg.SessionTTL),
		brief.WithLogger(logger.With().Str("component", "brief").Logger()),
	)
	teamBot = handler.NewTeamBotHandler(engine, engine.Catalog(), messenger,
		handler.WithCommands(cfg.StartCommand, cfg.CancelCommand),
		handler.WithLogger(logger.With().Str("component", "handler").Logger()),
	)

	logger.Info().Str("mode", string(cfg.BotMode)).Str("store", string(cfg.StoreBackend)).Msg("bot starting")

	switch cfg.BotMode {
	case config.BotModeWebhook:
		if err := runWebhook(ctx, b, cfg.WebhookListenAddr); err != nil {
			logger.Error().Err(err).Msg("webhook server stopped")
		}
	default:
		b.Start(ctx)
	}

	<-ctx.Done()
	logger.Info().Msg("Bot stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout)
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func newSessionStore(ctx context.Context, cfg *config.Config) (brief.SessionStore, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		return repo.NewRedisStoreFromURL(ctx, cfg.RedisURL)
	case config.StoreFirebase:
		return repo.NewFirebaseStore(ctx, cfg.FirebaseServiceAccountKeyPath, cfg.FirebaseDatabaseURL)
	case config.StoreMemory:
		return repo.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.StoreBackend)
	}
}

// runWebhook serves Telegram webhook updates until ctx is done.
func runWebhook(ctx context.Context, b *bot.Bot, addr string) error {
	go b.StartWebhook(ctx)

	mux := http.NewServeMux()
	mux.Handle("POST /api/webhook/team-bot", b.WebhookHandler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
