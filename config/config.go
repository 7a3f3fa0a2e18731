package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StoreRedis    StoreBackend = "redis"
	StoreFirebase StoreBackend = "firebase"
)

type BotMode string

const (
	BotModePolling BotMode = "polling"
	BotModeWebhook BotMode = "webhook"
)

type Config struct {
	BotToken     string
	ReportChatID int64 // chat that receives completed briefs

	StartCommand  string
	CancelCommand string

	StoreBackend StoreBackend
	SessionTTL   time.Duration
	RedisURL     string

	FirebaseServiceAccountKeyPath string
	FirebaseDatabaseURL           string

	BotMode            BotMode
	WebhookListenAddr  string
	WebhookSecretToken string

	LogLevel  string
	LogFormat string // "json" or "console"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		BotToken: os.Getenv("TEAM_TELEGRAM_BOT_TOKEN"),

		StartCommand:  getEnv("BRIEF_START_COMMAND", "/qamalladin"),
		CancelCommand: getEnv("BRIEF_CANCEL_COMMAND", "/cancel"),

		StoreBackend: StoreBackend(getEnv("SESSION_STORE", string(StoreMemory))),
		RedisURL:     os.Getenv("REDIS_URL"),

		FirebaseServiceAccountKeyPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH"),
		FirebaseDatabaseURL:           os.Getenv("FIREBASE_DATABASE_URL"),

		BotMode:            BotMode(getEnv("BOT_MODE", string(BotModePolling))),
		WebhookListenAddr:  getEnv("WEBHOOK_LISTEN_ADDR", ":3005"),
		WebhookSecretToken: os.Getenv("WEBHOOK_SECRET_TOKEN"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TEAM_TELEGRAM_BOT_TOKEN environment variable not set")
	}

	chatID := os.Getenv("BRIEF_TELEGRAM_CHAT_ID")
	if chatID == "" {
		return nil, fmt.Errorf("BRIEF_TELEGRAM_CHAT_ID environment variable not set")
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BRIEF_TELEGRAM_CHAT_ID %q: %w", chatID, err)
	}
	cfg.ReportChatID = id

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	cfg.SessionTTL = ttl

	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL must be set for the redis session store")
		}
	case StoreFirebase:
		if cfg.FirebaseServiceAccountKeyPath == "" {
			return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_KEY_PATH environment variable not set")
		}
		if cfg.FirebaseDatabaseURL == "" {
			return nil, fmt.Errorf("FIREBASE_DATABASE_URL environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.StoreBackend)
	}

	switch cfg.BotMode {
	case BotModePolling, BotModeWebhook:
	default:
		return nil, fmt.Errorf("unknown BOT_MODE %q", cfg.BotMode)
	}

	return cfg, nil
}
