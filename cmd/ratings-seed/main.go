// Command ratings-seed loads a <sport>_elo.json style table into the
// configured rating storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rickgao/smartbet/internal/config"
	"github.com/rickgao/smartbet/internal/elo"
	"github.com/rickgao/smartbet/internal/ratings"
	"github.com/rickgao/smartbet/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/smartbet.yaml", "path to config file")
	sport := flag.String("sport", "", "sport of the table (soccer, basketball, ...)")
	input := flag.String("in", "", "path to the JSON rating table")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background(), *configPath, *sport, *input, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, sport, input string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if sport == "" || input == "" {
		return fmt.Errorf("-sport and -in are required")
	}

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return err
	}

	profiles, err := cfg.Profiles()
	if err != nil {
		return err
	}
	profile, err := profiles.Lookup(sport)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read table: %w", err)
	}
	table, err := ratings.Decode(data)
	if err != nil {
		return err
	}

	persister, closeStorage, err := ratings.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	// Route the records through a store so ratings and form are normalised
	// the same way the service reads them.
	store := elo.NewStore(ctx, profile, nil, logger)
	for team, rec := range table {
		store.Put(team, rec)
	}
	if err := persister.Save(ctx, profile.Sport, store.Snapshot()); err != nil {
		return fmt.Errorf("save %s ratings: %w", profile.Sport, err)
	}

	logger.Info("ratings seeded",
		"version", version.Version,
		"sport", profile.Sport,
		"teams", store.Len(),
		"driver", cfg.Storage.Driver,
	)
	return nil
}
