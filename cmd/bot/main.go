package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/xaenox/study-buddy/internal/classifier"
	"github.com/xaenox/study-buddy/internal/memory"
	"github.com/xaenox/study-buddy/internal/mentor"
	"github.com/xaenox/study-buddy/internal/oracle"
	"github.com/xaenox/study-buddy/internal/server"
	"github.com/xaenox/study-buddy/internal/storage"
	"github.com/xaenox/study-buddy/internal/telegram"
	"github.com/xaenox/study-buddy/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Wire the pipeline: oracle -> classifier -> mentor
	llm := oracle.NewOpenAI(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		logger,
	)
	clf := classifier.New(llm, logger)
	mem := memory.NewManager(store, cfg.Memory.MaxChars, logger)
	m := mentor.New(store, clf, llm, mem, logger)

	// Optional idle-session eviction
	if cfg.Session.TTLMinutes > 0 {
		ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
		go func() {
			ticker := time.NewTicker(ttl / 2)
			defer ticker.Stop()
			for range ticker.C {
				evicted, err := store.EvictIdle(context.Background(), time.Now().Add(-ttl))
				if err != nil {
					logger.Error("Failed to evict idle sessions", zap.Error(err))
					continue
				}
				if evicted > 0 {
					logger.Info("Evicted idle sessions", zap.Int("count", evicted))
				}
			}
		}()
	}

	// Optional Telegram transport
	if cfg.Telegram.Enabled {
		bot, err := telegram.New(cfg.Telegram.Token, m, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram bot", zap.Error(err))
		}
		go func() {
			if err := bot.Start(); err != nil {
				logger.Error("Telegram bot stopped", zap.Error(err))
			}
		}()
	}

	// HTTP API
	handler := server.NewHandler(m, logger)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting HTTP server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler.Routes()); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}
}
