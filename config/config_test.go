package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Prefix)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.MaxLifetime)
	assert.Equal(t, 15, cfg.RateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Debug)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")
	t.Setenv("BOT_PREFIX", "!")
	t.Setenv("HELP_IDLE_TIMEOUT", "10s")
	t.Setenv("HELP_MAX_LIFETIME", "1m")
	t.Setenv("DEBUG", "true")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "!", cfg.Prefix)
	assert.Equal(t, 10*time.Second, cfg.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.MaxLifetime)
	assert.True(t, cfg.Debug)
}

func TestParseRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/bot")

	_, err := Parse()
	require.Error(t, err)
}

func TestValidateLifetimeShorterThanIdle(t *testing.T) {
	cfg := Config{Prefix: ".", IdleTimeout: time.Minute, MaxLifetime: time.Second, RateLimit: 1}
	require.Error(t, cfg.Validate())
}
