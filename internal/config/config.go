package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Output
	Format string // "text" or "json"

	// Default scenario file, used when no path is given on the command line
	ScenarioPath string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		Format:       getEnvDefault("SEISAN_FORMAT", "text"),
		ScenarioPath: getEnvDefault("SEISAN_SCENARIO", "scenario.yaml"),
	}

	if cfg.Format != "text" && cfg.Format != "json" {
		return nil, fmt.Errorf("SEISAN_FORMAT must be \"text\" or \"json\", got %q", cfg.Format)
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
