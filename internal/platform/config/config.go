package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string
	LogLevel       slog.Level

	// Price source
	PriceSourceBaseURL   string
	PriceSourceSelector  string
	PriceSourceUserAgent string
	FetchTimeout         time.Duration

	// Refresh behaviour
	RefreshConcurrency int
	RefreshOnRead      bool
	RefreshLockTTL     time.Duration
	RedisURL           string // Empty disables the cross-instance refresh lock

	// Create policy
	EnforceUniqueCurrency    bool
	ValidateCurrencyOnCreate bool

	// HTTP surface
	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PRICE_SOURCE_BASE_URL", "https://coinmarketcap.com/currencies")
	v.SetDefault("PRICE_SOURCE_SELECTOR", "")
	v.SetDefault("PRICE_SOURCE_USER_AGENT", "Mozilla/5.0 (compatible; price-scraper/1.0)")
	v.SetDefault("FETCH_TIMEOUT", "10s")
	v.SetDefault("REFRESH_CONCURRENCY", 4)
	v.SetDefault("REFRESH_ON_READ", true)
	v.SetDefault("REFRESH_LOCK_TTL", "30s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ENFORCE_UNIQUE_CURRENCY", true)
	v.SetDefault("VALIDATE_CURRENCY_ON_CREATE", true)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	// Environment variables override .env values, which override defaults.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:              v.GetString("PGSQL_URL"),
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:            v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:           v.GetString("MIGRATIONS_PATH"),
		PriceSourceBaseURL:       strings.TrimRight(v.GetString("PRICE_SOURCE_BASE_URL"), "/"),
		PriceSourceSelector:      v.GetString("PRICE_SOURCE_SELECTOR"),
		PriceSourceUserAgent:     v.GetString("PRICE_SOURCE_USER_AGENT"),
		RefreshConcurrency:       v.GetInt("REFRESH_CONCURRENCY"),
		RefreshOnRead:            v.GetBool("REFRESH_ON_READ"),
		RedisURL:                 v.GetString("REDIS_URL"),
		EnforceUniqueCurrency:    v.GetBool("ENFORCE_UNIQUE_CURRENCY"),
		ValidateCurrencyOnCreate: v.GetBool("VALIDATE_CURRENCY_ON_CREATE"),
		RateLimit:                v.GetString("RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	var err error
	if cfg.FetchTimeout, err = parsePositiveDuration(v, "FETCH_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.RefreshLockTTL, err = parsePositiveDuration(v, "REFRESH_LOCK_TTL"); err != nil {
		return nil, err
	}

	if cfg.RefreshConcurrency < 1 {
		return nil, fmt.Errorf("invalid REFRESH_CONCURRENCY %d: must be at least 1", cfg.RefreshConcurrency)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func parsePositiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}
