package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/shopbot/internal/bot"
	"github.com/xaenox/shopbot/internal/catalog"
	"github.com/xaenox/shopbot/internal/classifier"
	"github.com/xaenox/shopbot/internal/models"
	"github.com/xaenox/shopbot/internal/session"
	"github.com/xaenox/shopbot/internal/storage"
	"github.com/xaenox/shopbot/pkg/config"
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

	dbConfig := storage.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	// Initialize session storage
	var store storage.Store
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory session storage")
		store = storage.NewMemoryStore()
	} else {
		logger.Info("Using PostgreSQL session storage")
		store, err = storage.NewPostgresStore(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize session storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize catalog provider
	var provider catalog.Provider
	if cfg.Catalog.UseInMemory {
		logger.Info("Using seed catalog")
		provider = catalog.NewStaticProvider(nil)
	} else {
		logger.Info("Using PostgreSQL catalog")
		provider, err = catalog.NewPostgresProvider(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize catalog", zap.Error(err))
		}
	}
	defer provider.Close()

	clf := classifier.NewRuleClassifier()

	var b *bot.Bot
	factory := func(chatID int64, onMessage func(models.Message)) *session.Session {
		chatStore := storage.NewPrefixStore(store, fmt.Sprintf("chat:%d:", chatID))
		return session.New(clf, provider, chatStore, b, logger, session.Options{
			HistoryLimit: cfg.Session.HistoryLimit,
			MinDelay:     time.Duration(cfg.Session.MinDelayMs) * time.Millisecond,
			MaxDelay:     time.Duration(cfg.Session.MaxDelayMs) * time.Millisecond,
			OnMessage:    onMessage,
		})
	}

	b, err = bot.New(cfg.Telegram.Token, factory, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
