// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string of the document store. Required.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// LogLevel controls the minimum log level. Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins,
	// comma-separated in CORS_ORIGINS.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`

	// DocumentKey names the stored graph document.
	DocumentKey string `env:"DOCUMENT_KEY" envDefault:"common-trips"`

	// MaxBodyBytes caps uploaded document size.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	Geocoder GeocoderConfig `envPrefix:"GEOCODER_"`
	Enrich   EnrichConfig   `envPrefix:"ENRICH_"`
}

// GeocoderConfig configures the reverse-geocoding client.
type GeocoderConfig struct {
	URL       string        `env:"URL" envDefault:"https://nominatim.openstreetmap.org"`
	UserAgent string        `env:"USER_AGENT" envDefault:"travel-graph/1.0"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
	CacheSize int           `env:"CACHE_SIZE" envDefault:"1024"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"24h"`
}

// EnrichConfig configures background display-name enrichment.
type EnrichConfig struct {
	Disabled    bool `env:"DISABLED" envDefault:"false"`
	Concurrency int  `env:"CONCURRENCY" envDefault:"4"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) {
			return Config{}, describe(aggErr)
		}
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	return cfg, nil
}

// describe collapses env's per-field errors into one message that names
// every missing required variable.
func describe(agg env.AggregateError) error {
	var missing, other []string
	for _, e := range agg.Errors {
		var req env.EnvVarIsNotSetError
		var empty env.EmptyEnvVarError
		switch {
		case errors.As(e, &req):
			missing = append(missing, req.Key)
		case errors.As(e, &empty):
			missing = append(missing, empty.Key)
		default:
			other = append(other, e.Error())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return fmt.Errorf("parse env: %s", strings.Join(other, "; "))
}

// trimAll trims each entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
