package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_USER", "movies")
	t.Setenv("DB_NAME", "movies")
	t.Setenv("APP_PORT", "")
	t.Setenv("API_PREFIX", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "3000", cfg.Port)
	require.Equal(t, "/api", cfg.APIPrefix)
	require.Equal(t, 25, cfg.DBMaxConns)
	require.False(t, cfg.EventsEnabled)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	require.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoadRequiresDatabaseSettings(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "movies")
	_, err := Load()
	require.ErrorContains(t, err, "DB_USER")

	t.Setenv("DB_DRIVER", "sqlite")
	_, err = Load()
	require.ErrorContains(t, err, "DB_DSN")
}

func TestLoadRejectsMalformedPoolSize(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	_, err := Load()
	require.ErrorContains(t, err, "DB_MAX_OPEN_CONNS")
}

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "")

	cfg := LoadRateLimitConfig()
	require.Equal(t, 1, cfg.Capacity)
	require.Equal(t, 2*time.Second, cfg.RefillInterval)
	require.Equal(t, 10*time.Second, cfg.TTL)

	t.Setenv("RATE_LIMIT_BURST", "20")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "500ms")
	cfg = LoadRateLimitConfig()
	require.Equal(t, 20, cfg.Capacity)
	require.Equal(t, 1, cfg.RefillTokens)
	require.Equal(t, 500*time.Millisecond, cfg.RefillInterval)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head,")
	t.Setenv("CACHE_TTL", "bogus")
	t.Setenv("CACHE_ENABLED", "off")

	cfg := LoadCacheConfig()
	require.False(t, cfg.Enabled)
	require.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	require.Equal(t, 30*time.Second, cfg.TTL)
}
