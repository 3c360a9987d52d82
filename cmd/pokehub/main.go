// Package main is the entry point for PokéHub.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"

	"github.com/samdwyer/pokehub/internal/battle"
	"github.com/samdwyer/pokehub/internal/config"
	"github.com/samdwyer/pokehub/internal/game"
	"github.com/samdwyer/pokehub/internal/gamedata"
	"github.com/samdwyer/pokehub/internal/roster"
	"github.com/samdwyer/pokehub/internal/storage/bbolt"
	"github.com/samdwyer/pokehub/internal/storage/sqlite"
	"github.com/samdwyer/pokehub/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pokehub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to tcell, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := zerolog.New(logFile).Level(cfg.Level()).With().Timestamp().Logger()

	telemetry.Honeycomb{APIKey: cfg.HoneycombAPIKey, Dataset: cfg.HoneycombDataset}.Configure()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		// Continue without telemetry - the game still works.
		logger.Warn().Err(err).Msg("telemetry setup failed, running without observability")
		telemetry.UseNoop()
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("shut down telemetry")
			}
		}()
	}

	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load game data: %w", err)
	}

	rosterDB, err := bbolt.Open(cfg.RosterPath)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer rosterDB.Close()

	store, err := roster.Open(ctx,
		roster.WithPersister(rosterDB),
		roster.WithLogger(logger.With().Str("component", "roster").Logger()),
	)
	if err != nil {
		return fmt.Errorf("restore roster: %w", err)
	}

	history, err := sqlite.Open(ctx, cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open battle history: %w", err)
	}
	defer history.Close()

	seed := cfg.SeedOrNow()
	logger.Info().Int64("seed", seed).Int("roster_size", store.Len()).Msg("starting pokehub")

	engine := battle.NewEngine(store, catalog, rand.New(rand.NewSource(seed)),
		battle.WithLogger(logger.With().Str("component", "battle").Logger()),
		battle.WithRecorder(history),
		battle.WithOpponentDelay(cfg.OpponentDelay),
		battle.WithPersistHP(cfg.PersistHP),
	)

	g, err := game.New(game.Config{
		Catalog: catalog,
		Manager: roster.NewManager(store, catalog.Species, logger.With().Str("component", "team").Logger()),
		Engine:  engine,
		History: history,
		Logger:  logger.With().Str("component", "game").Logger(),
	})
	if err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}

	return g.Run(ctx)
}
