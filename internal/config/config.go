// Package config loads tool configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the ambient settings every command shares. Flags override
// these where a command defines them.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"PLOTLOOM_LOG_LEVEL" envDefault:"info"`
	// LogFormat is json or text.
	LogFormat string `env:"PLOTLOOM_LOG_FORMAT" envDefault:"text"`
	// SnapshotDir is where project snapshots land unless a command names
	// an explicit output path. Empty means the project's own directory.
	SnapshotDir string `env:"PLOTLOOM_SNAPSHOT_DIR"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &c, nil
}
