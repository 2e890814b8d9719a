// Package config loads featuretrack settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds defaults for the featuretrack command. Command-line flags
// override every field.
type Config struct {
	SearchSize  int     `env:"ALGO_TRACK_SEARCH_SIZE"   envDefault:"128"`
	RefSize     int     `env:"ALGO_TRACK_REF_SIZE"      envDefault:"32"`
	Step        float64 `env:"ALGO_TRACK_STEP"          envDefault:"50"`
	Workers     int     `env:"ALGO_TRACK_WORKERS"       envDefault:"0"`
	MaxInFlight int     `env:"ALGO_TRACK_MAX_IN_FLIGHT" envDefault:"5000"`
	Mode        string  `env:"ALGO_TRACK_MODE"          envDefault:"same"`
	Taper       string  `env:"ALGO_TRACK_TAPER"         envDefault:"rectangular"`
	MinStrength float64 `env:"ALGO_TRACK_MIN_STRENGTH"  envDefault:"0"`

	OTelEndpoint string `env:"ALGO_TRACK_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"ALGO_TRACK_OTEL_ENABLED" envDefault:"true"`

	OTelSampleRatio float64 `env:"ALGO_TRACK_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
