package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TEAM_TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("BRIEF_TELEGRAM_CHAT_ID", "-1001234")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(-1001234), cfg.ReportChatID)
	assert.Equal(t, "/qamalladin", cfg.StartCommand)
	assert.Equal(t, "/cancel", cfg.CancelCommand)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, BotModePolling, cfg.BotMode)
	assert.Equal(t, ":3005", cfg.WebhookListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRedis(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "2h")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"TEAM_TELEGRAM_BOT_TOKEN": ""}},
		{"missing chat", map[string]string{"BRIEF_TELEGRAM_CHAT_ID": ""}},
		{"bad chat", map[string]string{"BRIEF_TELEGRAM_CHAT_ID": "team"}},
		{"bad ttl", map[string]string{"SESSION_TTL": "forever"}},
		{"negative ttl", map[string]string{"SESSION_TTL": "-1h"}},
		{"unknown store", map[string]string{"SESSION_STORE": "postgres"}},
		{"firebase without key", map[string]string{"SESSION_STORE": "firebase", "FIREBASE_DATABASE_URL": "https://x.firebaseio.com"}},
		{"unknown mode", map[string]string{"BOT_MODE": "push"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
