package main

import (
	"fmt"
	"os"
	"time"

	"github.com/budgettracker/backend/config"
	httpDelivery "github.com/budgettracker/backend/internal/delivery/http"
	"github.com/budgettracker/backend/internal/domain"
	"github.com/budgettracker/backend/internal/infrastructure/fetcher"
	"github.com/budgettracker/backend/internal/infrastructure/storage"
	"github.com/budgettracker/backend/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Server)

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Type).
		Msg("starting BudgetTracker backend v1.0.0")

	// Initialize infrastructure dependencies
	repo, err := openStorage(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open purchase storage")
	}
	defer repo.Close()

	pageFetcher := fetcher.NewClient(fetcher.Config{
		UserAgent:    cfg.Extraction.UserAgent,
		MaxBodyBytes: cfg.Extraction.MaxBodyBytes,
	})
	log.Info().
		Dur("timeout", cfg.Extraction.Timeout).
		Int64("max_body_bytes", cfg.Extraction.MaxBodyBytes).
		Msg("page fetcher configured")

	// Initialize usecase layer
	extractor := usecase.NewLinkExtractor(pageFetcher, usecase.LinkExtractorConfig{
		FetchTimeout: cfg.Extraction.Timeout,
	})
	purchases := usecase.NewPurchaseService(repo)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(extractor, purchases)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Int("rate_limit_per_ip", cfg.RateLimit.PerIP).Msg("server listening")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// setupLogging writes human-readable logs in development and JSON elsewhere
func setupLogging(cfg config.ServerConfig) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func openStorage(cfg config.StorageConfig) (domain.PurchaseRepository, error) {
	switch cfg.Type {
	case "sqlite":
		store, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return storage.NewMemoryStore(), nil
	}
}
