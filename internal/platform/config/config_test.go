package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	t.Setenv("PGSQL_URL", "postgres://localhost/scrapers")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/scrapers", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsProduction)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "https://coinmarketcap.com/currencies", cfg.PriceSourceBaseURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.RefreshConcurrency)
	assert.True(t, cfg.RefreshOnRead)
	assert.Equal(t, 30*time.Second, cfg.RefreshLockTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.True(t, cfg.EnforceUniqueCurrency)
	assert.True(t, cfg.ValidateCurrencyOnCreate)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PRICE_SOURCE_BASE_URL", "http://localhost:1234/currencies/")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("REFRESH_CONCURRENCY", "8")
	t.Setenv("REFRESH_ON_READ", "false")
	t.Setenv("ENFORCE_UNIQUE_CURRENCY", "false")
	t.Setenv("VALIDATE_CURRENCY_ON_CREATE", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://localhost:1234/currencies", cfg.PriceSourceBaseURL)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 8, cfg.RefreshConcurrency)
	assert.False(t, cfg.RefreshOnRead)
	assert.False(t, cfg.EnforceUniqueCurrency)
	assert.False(t, cfg.ValidateCurrencyOnCreate)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable fetch timeout", "FETCH_TIMEOUT", "soon"},
		{"zero fetch timeout", "FETCH_TIMEOUT", "0s"},
		{"negative lock ttl", "REFRESH_LOCK_TTL", "-1s"},
		{"zero concurrency", "REFRESH_CONCURRENCY", "0"},
		{"unknown log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
