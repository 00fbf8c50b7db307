package main

import (
	"context"
	"fmt"

	"github.com/juntosfibro/fibrochat/internal/chat"
	"github.com/juntosfibro/fibrochat/internal/generation"
	"github.com/juntosfibro/fibrochat/internal/moderation"
	"github.com/juntosfibro/fibrochat/internal/server"
	"github.com/juntosfibro/fibrochat/internal/storage"
	"github.com/juntosfibro/fibrochat/pkg/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	ctx := context.Background()

	// Initialize session storage
	var store storage.SessionStore
	switch cfg.Storage.Backend {
	case "postgres":
		logger.Info("Using PostgreSQL session storage")
		dbConfig := storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}
		store, err = storage.NewPostgresStorage(dbConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	case "redis":
		logger.Info("Using Redis session storage")
		store = storage.NewRedisStorage(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	default:
		logger.Info("Using in-memory session storage")
		store = storage.NewMemoryStorage()
	}
	defer store.Close()

	// Initialize generation provider
	var generator generation.Generator
	switch cfg.Generation.Provider {
	case "openai":
		generator = generation.NewOpenAIGenerator(
			cfg.Generation.APIKey,
			cfg.Generation.Model,
			cfg.Generation.MaxTokens,
			cfg.Generation.Temperature,
			logger,
		)
	default:
		generator, err = generation.NewGeminiGenerator(ctx, cfg.Generation.APIKey, cfg.Generation.Model, logger)
		if err != nil {
			logger.Fatal("Failed to create generator", zap.Error(err))
		}
	}

	// Initialize moderation with the default word lists
	moderator := moderation.NewModerator(nil, nil, nil)

	// Initialize dispatcher and HTTP server
	dispatcher := chat.NewDispatcher(moderator, generator, logger)
	srv := server.New(dispatcher, store, logger)

	logger.Info("Starting chat server", zap.Int("port", cfg.Server.Port))
	if err := srv.Router().Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
