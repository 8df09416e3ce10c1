package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config.yaml"

// Load reads configuration and validates it. Precedence: environment
// variables over YAML over env-default tags. A .env file in the working
// directory is side-loaded first when present.
//
// The YAML path comes from CONFIG_PATH. When CONFIG_PATH is unset and no
// ./config.yaml exists, configuration comes from the environment alone;
// a missing file named explicitly via CONFIG_PATH is an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, explicit := os.Getenv("CONFIG_PATH"), true
	if path == "" {
		path, explicit = defaultConfigPath, false
	}

	var cfg Config
	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
