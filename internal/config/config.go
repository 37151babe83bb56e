// Package config holds the environment-backed configuration for the
// departure window service. Values are loaded once at startup; a missing
// required value or invalid format fails the process immediately.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Routing provider
	RoutesAPIKey   string `envconfig:"ROUTES_API_KEY" validate:"required"`
	RoutesBaseURL  string `envconfig:"ROUTES_BASE_URL" default:"https://routes.googleapis.com" validate:"url"`
	GeocodeBaseURL string `envconfig:"GEOCODE_BASE_URL" default:"https://maps.googleapis.com" validate:"url"`

	// Search policy
	MinWindowMinutes      int `envconfig:"MIN_WINDOW_MINUTES" default:"15" validate:"gte=5,lte=120"`
	SampleIntervalMinutes int `envconfig:"SAMPLE_INTERVAL_MINUTES" default:"15" validate:"gte=1,lte=60"`
	MaxSamples            int `envconfig:"MAX_SAMPLES" default:"12" validate:"gte=1,lte=48"`

	// Estimate/geocode caching
	CacheBackend string        `envconfig:"CACHE_BACKEND" default:"none" validate:"oneof=none sqlite postgres redis"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	DBPath       string        `envconfig:"DB_PATH" default:"data/app.db"`
	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	RedisAddr    string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.CacheBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("validate config: DATABASE_URL is required when CACHE_BACKEND=postgres")
	}

	return &cfg, nil
}

// MinWindow returns the minimum effective search window as a duration.
func (c *Config) MinWindow() time.Duration {
	return time.Duration(c.MinWindowMinutes) * time.Minute
}

// SampleInterval returns the candidate cadence as a duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalMinutes) * time.Minute
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
