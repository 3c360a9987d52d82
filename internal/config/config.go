// Package config loads PokéHub settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds runtime settings.
type Config struct {
	// Seed for the battle RNG. Zero means seed from the clock.
	Seed int64 `env:"POKEHUB_SEED" envDefault:"0"`

	RosterPath  string `env:"POKEHUB_ROSTER_PATH" envDefault:"pokehub-roster.db"`
	HistoryPath string `env:"POKEHUB_HISTORY_PATH" envDefault:"pokehub-history.db"`

	OpponentDelay time.Duration `env:"POKEHUB_OPPONENT_DELAY" envDefault:"1200ms"`
	PersistHP     bool          `env:"POKEHUB_PERSIST_HP" envDefault:"true"`

	LogPath  string `env:"POKEHUB_LOG_PATH" envDefault:"pokehub.log"`
	LogLevel string `env:"POKEHUB_LOG_LEVEL" envDefault:"info"`

	HoneycombAPIKey  string `env:"HONEYCOMB_POKEHUB_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_POKEHUB_DATASET" envDefault:"pokehub"`
}

// Load reads the named .env files (".env" when none are given) and parses the
// environment. A missing .env file is not an error; variables may be set
// directly.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.OpponentDelay < 0 {
		return Config{}, fmt.Errorf("opponent delay must not be negative: %s", cfg.OpponentDelay)
	}
	return cfg, nil
}

// Level returns the configured log level, info when it does not parse.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// SeedOrNow returns the configured seed, or the current time when unset.
func (c Config) SeedOrNow() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
