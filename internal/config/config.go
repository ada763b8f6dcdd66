// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
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
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RateLimitRPS and RateLimitBurst configure the per-client token bucket.
	// Defaults: 5 requests/second, bursts of 30.
	RateLimitRPS   float64
	RateLimitBurst int

	// GeocoderURL is the base URL of the Nominatim-compatible geocoder.
	GeocoderURL string
	// GeocoderUserAgent identifies this service to the geocoder, which
	// rejects anonymous clients.
	GeocoderUserAgent string
	// GeocoderCountry restricts postal code searches. Defaults to "USA".
	GeocoderCountry string
	// GeocoderTimeout bounds each geocoder HTTP call. Defaults to 5s.
	GeocoderTimeout time.Duration
	// GeocoderBudget bounds the whole geocode, retries included, of one
	// recommendation request. Defaults to 3s.
	GeocoderBudget time.Duration

	// ThesaurusPath points at a YAML synonym file. Empty uses the embedded list.
	ThesaurusPath string

	// ScorerFoldCase makes synonym matching case-insensitive. Defaults to false.
	ScorerFoldCase bool

	// AutoMigrate applies pending migrations at startup. Defaults to true.
	AutoMigrate bool
}

// LoadDotEnv loads variables from the given .env files (".env" if none) into
// the process environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config.LoadDotEnv: %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, along
// with any values that could not be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "CafeApp"),
		GeocoderCountry:   getEnv("GEOCODER_COUNTRY", "USA"),
		ThesaurusPath:     os.Getenv("THESAURUS_PATH"),
	}

	var (
		missing []string
		errs    []error
	)

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.MaxBodyBytes = parse(&errs, "MAX_BODY_BYTES", int64(1<<20), func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	cfg.RateLimitRPS = parse(&errs, "RATE_LIMIT_RPS", 5.0, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	cfg.RateLimitBurst = parse(&errs, "RATE_LIMIT_BURST", 30, strconv.Atoi)
	cfg.GeocoderTimeout = parse(&errs, "GEOCODER_TIMEOUT", 5*time.Second, time.ParseDuration)
	cfg.GeocoderBudget = parse(&errs, "GEOCODER_BUDGET", 3*time.Second, time.ParseDuration)
	cfg.ScorerFoldCase = parse(&errs, "SCORER_FOLD_CASE", false, strconv.ParseBool)
	cfg.AutoMigrate = parse(&errs, "AUTO_MIGRATE", true, strconv.ParseBool)

	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if cfg.GeocoderTimeout <= 0 || cfg.GeocoderBudget <= 0 {
		errs = append(errs, errors.New("GEOCODER_TIMEOUT and GEOCODER_BUDGET must be positive"))
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}

	if len(missing) > 0 {
		errs = append([]error{fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))}, errs...)
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

// parse converts the variable named key with fn, returning fallback when it
// is unset. Parse failures are appended to errs.
func parse[T any](errs *[]error, key string, fallback T, fn func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := fn(strings.TrimSpace(raw))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return fallback
	}
	return v
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
