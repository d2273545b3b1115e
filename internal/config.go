package internal

import (
	"fmt"

	"github.com/hbomb79/Reel/internal/api"
	"github.com/hbomb79/Reel/internal/download"
	"github.com/hbomb79/Reel/internal/engine"
	"github.com/hbomb79/Reel/internal/store"
	"github.com/ilyakaznacheev/cleanenv"
)

// ReelConfig is the struct used to contain the
// various user config supplied by file, environment
// or manually inside the code.
type ReelConfig struct {
	RestConfig api.RestConfig  `toml:"rest" yaml:"rest"`
	Store      store.Config    `toml:"store" yaml:"store"`
	Engine     engine.Config   `toml:"engine" yaml:"engine"`
	Download   download.Config `toml:"download" yaml:"download"`
	LogLevel   string          `toml:"log_level" yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads the configuration file at the path provided (TOML or YAML,
// judged by extension), with environment variables taking precedence. An empty
// path loads the configuration from the environment alone.
func LoadConfig(configPath string) (*ReelConfig, error) {
	config := &ReelConfig{}
	if configPath == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}

	return config, nil
}

// Usage describes every environment variable Reel understands.
func Usage() string {
	description, err := cleanenv.GetDescription(&ReelConfig{}, nil)
	if err != nil {
		return ""
	}

	return description
}
