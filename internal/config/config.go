// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// CacheTTL is how long the in-memory copy of the traffic_stops table is
	// served before it is reloaded. Defaults to 5m. Zero disables caching.
	CacheTTL time.Duration

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// AutoMigrate applies pending goose migrations at start-up when true.
	AutoMigrate bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first optional variable that cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "5m")); err != nil || cfg.CacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL: invalid duration %q", os.Getenv("CACHE_TTL"))
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: invalid byte count %q", os.Getenv("MAX_BODY_BYTES"))
	}
	if cfg.AutoMigrate, err = strconv.ParseBool(getEnv("AUTO_MIGRATE", "false")); err != nil {
		return Config{}, fmt.Errorf("AUTO_MIGRATE: invalid boolean %q", os.Getenv("AUTO_MIGRATE"))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
