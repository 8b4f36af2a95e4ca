package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 50, cfg.Relay.MaxParticipantsPerRoom)
	assert.Equal(t, 1000, cfg.Relay.MaxRooms)
	assert.Equal(t, 500, cfg.Relay.MaxMessageLength)
	assert.Equal(t, 1000, cfg.Relay.MaxMessagesPerRoom)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com,https://staging.example.com")
	t.Setenv("MAX_PARTICIPANTS_PER_ROOM", "8")
	t.Setenv("MAX_MESSAGE_LENGTH", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://staging.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 8, cfg.Relay.MaxParticipantsPerRoom)
	// Unparseable values fall back to the default
	assert.Equal(t, 500, cfg.Relay.MaxMessageLength)
}
