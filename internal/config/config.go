// Package config handles application configuration and setup
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/retroenv/retrogolib/log"
)

// Env holds settings that can be provided through the environment instead of
// flags, useful when the generator runs inside build scripts.
type Env struct {
	SinkDir string `envconfig:"PUZZLEROM_SINK_DIR"`
	RomFile string `envconfig:"PUZZLEROM_ROM_FILE"`
}

// LoadEnv reads environment provided settings.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("processing environment config: %w", err)
	}
	return env, nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
