// Package config loads engine configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/multierr"
)

// Config holds the engine's runtime settings. House edges are decimal
// percentages (1.0 means 1%); they are read once at startup and treated as
// immutable inputs during derivations.
type Config struct {
	Addr            string        `env:"ENGINE_ADDR" envDefault:":8080"`
	DatabasePath    string        `env:"ENGINE_DB_PATH" envDefault:"outcome-engine.db"`
	ShutdownTimeout time.Duration `env:"ENGINE_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Plinko has no edge knob: its edge is baked into the published payout
	// tables, and blackjack's into the dealer draw rules.
	HouseEdgeDice  float64 `env:"HOUSE_EDGE_DICE" envDefault:"1.0"`
	HouseEdgeLimbo float64 `env:"HOUSE_EDGE_LIMBO" envDefault:"1.0"`
	HouseEdgeMines float64 `env:"HOUSE_EDGE_MINES" envDefault:"1.0"`
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var err error

	edges := map[string]float64{
		"dice":  c.HouseEdgeDice,
		"limbo": c.HouseEdgeLimbo,
		"mines": c.HouseEdgeMines,
	}
	for game, edge := range edges {
		if edge < 0 || edge >= 100 {
			err = multierr.Append(err, fmt.Errorf("house edge for %s must be in [0, 100), got %v", game, edge))
		}
	}

	if c.DatabasePath == "" {
		err = multierr.Append(err, fmt.Errorf("database path must not be empty"))
	}

	return err
}
