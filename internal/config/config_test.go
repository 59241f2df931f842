package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "development", cfg.Env)
	require.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	require.Equal(t, 3, cfg.OpenAIMaxRetries)
	require.Equal(t, time.Second, cfg.OpenAIBaseDelay)
	require.Equal(t, "sqlite", cfg.StorageBackend)
}

func TestLoadFractionalBaseDelay(t *testing.T) {
	t.Setenv("OPENAI_BASE_DELAY_SECONDS", "0.5")

	cfg := Load()
	require.Equal(t, 500*time.Millisecond, cfg.OpenAIBaseDelay)
}

func TestLoadWhitelistParsing(t *testing.T) {
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 192.168.0.0/16 ,")

	cfg := Load()
	require.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.RateLimitWhitelist)
}
