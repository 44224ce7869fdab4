package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	return &Config{
		Port:          8080,
		DBPath:        "./data/test.db",
		JWTSecret:     testSecret,
		TokenDuration: time.Hour,
		LogLevel:      "info",
		LogFormat:     "text",
		RatesSource:   RatesSourceStore,
		RatesTTL:      time.Hour,
		RatesTimeout:  time.Second,
	}
}

// clearEnv unsets keys for the duration of the test; godotenv never
// overrides a variable that is set, even to the empty string.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

var envKeys = []string{"PORT", "DB_PATH", "JWT_SECRET", "TOKEN_DURATION", "LOG_LEVEL", "LOG_FORMAT", "RATES_SOURCE", "RATES_URL", "RATES_TTL", "RATES_TIMEOUT"}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, envKeys...)
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "./data/fintrack.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.TokenDuration)
	assert.Equal(t, RatesSourceStore, cfg.RatesSource)
	assert.Equal(t, time.Hour, cfg.RatesTTL)
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=9090\nJWT_SECRET=" + testSecret + "\nRATES_TTL=5m\nLOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	clearEnv(t, envKeys...)
	t.Setenv("ENV_FILE", envFile)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.RatesTTL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "invalid port"},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "JWT_SECRET"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "invalid log format"},
		{name: "http source without url", mutate: func(c *Config) { c.RatesSource = RatesSourceHTTP }, wantErr: "RATES_URL is required"},
		{
			name: "http source with url",
			mutate: func(c *Config) {
				c.RatesSource = RatesSourceHTTP
				c.RatesURL = "https://rates.example.com/latest"
			},
		},
		{
			name: "http source with bad scheme",
			mutate: func(c *Config) {
				c.RatesSource = RatesSourceHTTP
				c.RatesURL = "ftp://rates.example.com"
			},
			wantErr: "invalid rates URL",
		},
		{name: "unknown source", mutate: func(c *Config) { c.RatesSource = "carrier-pigeon" }, wantErr: "invalid rates source"},
		{name: "zero ttl", mutate: func(c *Config) { c.RatesTTL = 0 }, wantErr: "rates TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
