package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/smartbet/internal/api"
	"github.com/rickgao/smartbet/internal/config"
	"github.com/rickgao/smartbet/internal/database"
	"github.com/rickgao/smartbet/internal/elo"
	"github.com/rickgao/smartbet/internal/ratings"
	"github.com/rickgao/smartbet/internal/report"
	"github.com/rickgao/smartbet/internal/server"
	"github.com/rickgao/smartbet/internal/updater"
	"github.com/rickgao/smartbet/internal/version"
	"github.com/rickgao/smartbet/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/smartbet.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single update cycle and exit")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "config", *configPath)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting smartbet",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"once", *once,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Rating storage
	persister, closeStorage, err := ratings.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to open ratings storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	// One engine per configured sport
	profiles, err := cfg.Profiles()
	if err != nil {
		logger.Error("invalid sport profiles", "error", err)
		os.Exit(1)
	}
	engines := make(map[string]*elo.Engine)
	for _, sport := range cfg.FeedSports() {
		engine, err := elo.New(ctx, sport, profiles, persister, logger)
		if err != nil {
			logger.Error("failed to create engine", "sport", sport, "error", err)
			os.Exit(1)
		}
		engines[sport] = engine
	}

	// Provider clients
	fixturesClient := api.NewFootballDataClient(
		cfg.Providers.Fixtures.BaseURL,
		cfg.Providers.Fixtures.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Providers.Fixtures.Timeout),
		api.WithRetries(cfg.Providers.Fixtures.MaxRetries, time.Second),
		api.WithUserAgent(version.UserAgent()),
	)
	oddsClient := api.NewOddsClient(
		cfg.Providers.Odds.BaseURL,
		cfg.Providers.Odds.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Providers.Odds.Timeout),
		api.WithRetries(cfg.Providers.Odds.MaxRetries, time.Second),
		api.WithUserAgent(version.UserAgent()),
	)
	sources := updater.Sources{
		Fixtures: api.NewFixtureFeed(fixturesClient),
		Odds:     api.NewOddsFeed(oddsClient, cfg.Providers.Odds.Regions),
	}

	// Run handlers
	page, err := report.New(cfg.Report, logger)
	if err != nil {
		logger.Error("failed to load report template", "error", err)
		os.Exit(1)
	}
	if err := page.EnsureExists(ctx, time.Now()); err != nil {
		logger.Warn("failed to write placeholder report", "path", page.Path(), "error", err)
	}
	handlers := []updater.RunHandler{page}

	if cfg.Predictions.Enabled {
		pool, err := database.Connect(ctx, cfg.Predictions.Database)
		if err != nil {
			logger.Error("failed to connect to predictions database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		predictionLog := writer.NewPredictionWriter(pool, logger)
		if err := predictionLog.Migrate(ctx); err != nil {
			logger.Error("failed to migrate predictions table", "error", err)
			os.Exit(1)
		}
		handlers = append(handlers, predictionLog)
		logger.Info("prediction log enabled",
			"host", cfg.Predictions.Database.Host,
			"database", cfg.Predictions.Database.Name,
		)
	}

	upd, err := updater.New(updater.ConfigFrom(cfg.Updater), cfg.Feeds, engines, sources, logger, handlers...)
	if err != nil {
		logger.Error("failed to create updater", "error", err)
		os.Exit(1)
	}

	if *once {
		run, err := upd.RunOnce(ctx)
		if err != nil {
			logger.Error("update failed", "error", err)
			os.Exit(1)
		}
		logger.Info("update complete", "run_id", run.ID, "matches", len(run.Entries))
		return
	}

	// HTTP API
	srv := server.New(cfg.Server, engines, upd, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start http server", "error", err)
		os.Exit(1)
	}

	if err := upd.Start(ctx); err != nil {
		logger.Error("failed to start updater", "error", err)
		os.Exit(1)
	}

	logger.Info("smartbet running",
		"sports", len(engines),
		"feeds", len(cfg.Feeds),
		"port", cfg.Server.Port,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("http server shutdown failed", "error", err)
	}
	if err := upd.Stop(shutdownCtx); err != nil {
		logger.Warn("updater shutdown failed", "error", err)
	}

	logger.Info("smartbet stopped")
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
