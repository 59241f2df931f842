package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bilaluali/support-gpt/internal/api"
	"github.com/bilaluali/support-gpt/internal/api/middleware"
	"github.com/bilaluali/support-gpt/internal/chat"
	"github.com/bilaluali/support-gpt/internal/config"
	"github.com/bilaluali/support-gpt/internal/llm"
	"github.com/bilaluali/support-gpt/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Initialize conversation store
	conversations, redisClient := openStore(ctx, cfg, logger)
	defer conversations.Close()

	// Initialize OpenAI client
	openaiClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, llm.OpenAIOptions{
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		MaxTokens:   cfg.OpenAIMaxTokens,
		MaxRetries:  cfg.OpenAIMaxRetries,
		BaseDelay:   cfg.OpenAIBaseDelay,
	}, logger)

	// Create chat service and router
	svc := chat.NewService(conversations, openaiClient, logger)
	router := api.NewRouter(logger, svc, conversations, redisClient, middleware.RateLimiterConfig{
		Whitelist:        cfg.RateLimitWhitelist,
		AutoBlockEnabled: cfg.AutoBlockEnabled,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // completion calls may retry with backoff
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("storage", cfg.StorageBackend).
			Msg("starting SupportGPT server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

// openStore opens the configured conversation store. It also returns a Redis
// client for the rate limiter when one is available (either as the store
// itself or as a side connection), or nil.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.ConversationStore, *redis.Client) {
	switch cfg.StorageBackend {
	case "postgres":
		s, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		logger.Info().Msg("connected to PostgreSQL")
		return s, dialRedis(ctx, cfg, logger)

	case "redis":
		s, err := store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		logger.Info().Msg("connected to Redis")
		return s, s.Client()

	case "memory":
		logger.Warn().Msg("using in-memory storage, conversations will not survive restarts")
		return store.NewMemoryStore(), dialRedis(ctx, cfg, logger)

	default:
		s, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		logger.Info().Msg("connected to SQLite")
		return s, dialRedis(ctx, cfg, logger)
	}
}

// dialRedis connects to Redis for rate limiting when REDIS_URL is set.
func dialRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	return client
}
