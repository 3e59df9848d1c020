// Package config reads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Package overrides the package file next to the executable.
	Package      string `env:"REDBACK_PACKAGE"`
	WindowWidth  int    `env:"REDBACK_WINDOW_WIDTH" envDefault:"1280"`
	WindowHeight int    `env:"REDBACK_WINDOW_HEIGHT" envDefault:"720"`
	MaxFPS       int    `env:"REDBACK_MAX_FPS" envDefault:"60"`
	LogFile      string `env:"REDBACK_LOG_FILE"`
	LogDebug     bool   `env:"REDBACK_LOG_DEBUG"`
	DebugUI      bool   `env:"REDBACK_DEBUG_UI"`
	OTelEndpoint string `env:"REDBACK_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if c.MaxFPS <= 0 {
		return fmt.Errorf("invalid max fps %d", c.MaxFPS)
	}
	return nil
}
