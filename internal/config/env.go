package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds settings read from the environment.
type Env struct {
	Debug   bool   `env:"TUIREAD_DEBUG"`
	LogFile string `env:"TUIREAD_LOG_FILE"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	cfg, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogPath()
	}
	return cfg, nil
}
