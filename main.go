package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delta-trading-bot/config"
	"delta-trading-bot/internal/api"
	"delta-trading-bot/internal/bot"
	"delta-trading-bot/internal/cache"
	"delta-trading-bot/internal/database"
	"delta-trading-bot/internal/delta"
	"delta-trading-bot/internal/events"
	"delta-trading-bot/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logging.New("info", true)
		fallback.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger := logging.New(cfg.LoggingConfig.Level, cfg.LoggingConfig.Pretty)
	logger.Info().Strs("symbols", cfg.TradingConfig.Symbols).
		Bool("mock_mode", cfg.DeltaConfig.MockMode).
		Msg("Starting Delta grid trading bot")

	var client delta.ExchangeClient
	if cfg.DeltaConfig.MockMode {
		client = delta.NewMockClient(10000)
	} else {
		client = delta.NewClient(cfg.DeltaConfig.APIKey, cfg.DeltaConfig.APISecret, cfg.DeltaConfig.BaseURL)
	}

	bus := events.NewEventBus()
	bus.SubscribeAll(func(e events.Event) {
		logger.Debug().Str("event", string(e.Type)).Interface("data", e.Data).Msg("Event")
	})

	// Optional PostgreSQL persistence.
	var repo *database.Repository
	if cfg.DatabaseConfig.Enabled {
		db, err := database.NewDB(database.Config{
			Host:     cfg.DatabaseConfig.Host,
			Port:     cfg.DatabaseConfig.Port,
			User:     cfg.DatabaseConfig.User,
			Password: cfg.DatabaseConfig.Password,
			Database: cfg.DatabaseConfig.Database,
			SSLMode:  cfg.DatabaseConfig.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.RunMigrations(migrateCtx); err != nil {
			cancel()
			logger.Fatal().Err(err).Msg("Migrations failed")
		}
		cancel()

		repo = database.NewRepository(db)
	}

	// Optional Redis state persistence.
	var store *cache.StateStore
	if cfg.RedisConfig.Enabled {
		store, err = cache.NewStateStore(cfg.RedisConfig, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Redis setup failed")
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bots := make(map[string]*bot.Bot, len(cfg.TradingConfig.Symbols))
	for _, symbol := range cfg.TradingConfig.Symbols {
		b, err := bot.New(symbol, cfg, bot.Deps{
			Client: client,
			Bus:    bus,
			Store:  store,
			Repo:   repo,
			Logger: logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Str("symbol", symbol).Msg("Bot setup failed")
		}
		bots[symbol] = b
	}

	// Live ticker stream feeds bots between cycles. The mock client has no
	// stream; bots fall back to polling.
	var stream *delta.Stream
	if !cfg.DeltaConfig.MockMode {
		stream = delta.NewStream(cfg.DeltaConfig.StreamURL, cfg.TradingConfig.Symbols, func(tick delta.TickerUpdate) {
			if b, ok := bots[tick.Symbol]; ok {
				b.ObservePrice(tick.LastPrice)
			}
		}, logger)
		stream.Start(ctx)
	}

	for _, b := range bots {
		b.Start(ctx)
	}

	var server *api.Server
	if cfg.ServerConfig.Enabled {
		server = api.NewServer(cfg.ServerConfig, bots, repo, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error().Err(err).Msg("HTTP server failed")
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("HTTP server shutdown failed")
		}
	}
	if stream != nil {
		stream.Stop()
	}
	for _, b := range bots {
		b.Stop(shutdownCtx)
	}
	cancel()

	logger.Info().Msg("Shutdown complete")
}
