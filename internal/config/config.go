// Package config loads service configuration from the environment.
//
// A .env file in the working directory is read first when present (handy for
// local development); real environment variables always win because
// godotenv.Load never overrides a variable that is already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string     `env:"DB_PATH" envDefault:"data/spark.db"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`

	// CORSOrigins lists the browser origins allowed to call the API,
	// e.g. CORS_ORIGINS=https://spark.example,http://localhost:5173
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	// AnalyticsWindow is how many recent analytics events are kept.
	AnalyticsWindow int `env:"ANALYTICS_WINDOW" envDefault:"100"`
	// AnalyticsFile persists the analytics window between restarts. Empty disables it.
	AnalyticsFile string `env:"ANALYTICS_FILE"`

	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`
}

// Load reads .env files (if any) and then parses the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.AnalyticsWindow <= 0 {
		return fmt.Errorf("ANALYTICS_WINDOW must be positive, got %d", c.AnalyticsWindow)
	}
	return nil
}
