package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/price_scraper_app/internal/adapters/lock/redislock"
	"github.com/SscSPs/price_scraper_app/internal/adapters/pricesource/coinmarketcap"
	"github.com/SscSPs/price_scraper_app/internal/core/ports/external"
	"github.com/SscSPs/price_scraper_app/internal/core/services"
	"github.com/SscSPs/price_scraper_app/internal/handlers"
	"github.com/SscSPs/price_scraper_app/internal/middleware"
	"github.com/SscSPs/price_scraper_app/internal/platform/config"
	"github.com/SscSPs/price_scraper_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/price_scraper_app/pkg/database"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// @title Price Scraper API
// @version 1.0
// @description Tracks currency prices scraped from a public web page, refreshing stored values once they go stale.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	var locker external.RefreshLocker
	if cfg.RedisURL != "" {
		redisLocker, err := redislock.InitLocker(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisLocker.Close(); err != nil {
				logger.Error("Error closing redis client", slog.String("error", err.Error()))
			}
		}()
		locker = redisLocker
		logger.Info("Refresh lock backed by redis enabled.")
	}

	priceSource := coinmarketcap.NewClient(coinmarketcap.Config{
		BaseURL:   cfg.PriceSourceBaseURL,
		Selector:  cfg.PriceSourceSelector,
		UserAgent: cfg.PriceSourceUserAgent,
		Timeout:   cfg.FetchTimeout,
	})

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, priceSource, locker)

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Gracefully shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
}
