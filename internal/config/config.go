// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Rate sources.
const (
	RatesSourceStore = "store"
	RatesSourceHTTP  = "http"
)

type Config struct {
	// HTTP server
	Port int

	// Database
	DBPath string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Exchange rates
	RatesSource  string
	RatesURL     string
	RatesTTL     time.Duration
	RatesTimeout time.Duration

	// CORS
	AllowedOrigin string
}

// Load reads the configuration from the environment. A .env file in the
// working directory, or the file named by ENV_FILE, is loaded first; variables
// already set in the environment win.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:          getEnvInt("PORT", 8080),
		DBPath:        getEnv("DB_PATH", "./data/fintrack.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		RatesSource:   getEnv("RATES_SOURCE", RatesSourceStore),
		RatesURL:      getEnv("RATES_URL", ""),
		RatesTTL:      getEnvDuration("RATES_TTL", time.Hour),
		RatesTimeout:  getEnvDuration("RATES_TIMEOUT", 10*time.Second),
		AllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}

	return cfg, cfg.Validate()
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 characters")
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, "token duration must be positive")
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	switch c.RatesSource {
	case RatesSourceStore:
	case RatesSourceHTTP:
		if c.RatesURL == "" {
			errs = append(errs, "RATES_URL is required when RATES_SOURCE=http")
		} else if u, err := url.Parse(c.RatesURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid rates URL '%s'", c.RatesURL))
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid rates source '%s': must be %s or %s", c.RatesSource, RatesSourceStore, RatesSourceHTTP))
	}
	if c.RatesTTL <= 0 {
		errs = append(errs, "rates TTL must be positive")
	}
	if c.RatesTimeout <= 0 {
		errs = append(errs, "rates timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
