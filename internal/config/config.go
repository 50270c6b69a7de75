// Package config handles loading and validating configuration from
// environment variables and the optional watchlist file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultWatchlist covers the liquid names a fresh install should watch.
var DefaultWatchlist = []string{"SPY", "QQQ", "NVDA", "TSLA", "AAPL", "AMD", "AMZN", "MSFT", "META", "GOOGL"}

// Config holds all configuration values for the scanner.
type Config struct {
	// Market data
	PolygonAPIKey string
	StreamURL     string

	// Detection
	Watchlist         []string
	NotionalThreshold float64
	BufferCapacity    int
	BackfillLimit     int

	// UI
	UIRefreshRate time.Duration

	// Logging
	LogLevel string
}

// watchlistFile is the YAML shape of an on-disk watchlist.
type watchlistFile struct {
	Watchlist []struct {
		Symbol string `yaml:"symbol"`
		Name   string `yaml:"name,omitempty"`
	} `yaml:"watchlist"`
}

// Load reads configuration from environment variables with fallback to a
// .env file. Priority order: environment variables > .env file > defaults.
// The watchlist comes from WATCHLIST (comma-separated), else from the YAML
// file named by WATCHLIST_FILE, else the built-in default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PolygonAPIKey: getEnv("POLYGON_API_KEY", ""),
		StreamURL:     getEnv("POLYGON_WS_URL", "wss://socket.polygon.io/options"),

		NotionalThreshold: getEnvFloat("NOTIONAL_THRESHOLD", 50000),
		BufferCapacity:    getEnvInt("BUFFER_CAPACITY", 500),
		BackfillLimit:     getEnvInt("BACKFILL_LIMIT", 250),

		UIRefreshRate: time.Duration(getEnvInt("UI_REFRESH_MS", 1000)) * time.Millisecond,

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	watchlist, err := loadWatchlist(getEnv("WATCHLIST", ""), getEnv("WATCHLIST_FILE", ""))
	if err != nil {
		return nil, fmt.Errorf("loading watchlist: %w", err)
	}
	cfg.Watchlist = watchlist

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set and valid.
func (c *Config) Validate() error {
	if c.StreamURL == "" {
		return fmt.Errorf("POLYGON_WS_URL is required")
	}

	if c.NotionalThreshold <= 0 {
		return fmt.Errorf("NOTIONAL_THRESHOLD must be positive")
	}

	if c.BufferCapacity <= 0 {
		return fmt.Errorf("BUFFER_CAPACITY must be positive")
	}

	if c.BackfillLimit <= 0 {
		return fmt.Errorf("BACKFILL_LIMIT must be positive")
	}

	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must not be empty")
	}

	return nil
}

// MaskedAPIKey returns the API key safe for logging.
func (c *Config) MaskedAPIKey() string {
	return maskSecret(c.PolygonAPIKey)
}

// loadWatchlist resolves the watched tickers. A comma-separated env value
// wins over the YAML file; symbols are upper-cased, trimmed and deduped with
// their order preserved.
func loadWatchlist(csv, path string) ([]string, error) {
	var raw []string

	switch {
	case csv != "":
		raw = strings.Split(csv, ",")
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var wl watchlistFile
		if err := yaml.Unmarshal(b, &wl); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, w := range wl.Watchlist {
			raw = append(raw, w.Symbol)
		}
	default:
		return append([]string(nil), DefaultWatchlist...), nil
	}

	var symbols []string
	seen := make(map[string]struct{})
	for _, s := range raw {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	return symbols, nil
}

// maskSecret hides all but the first and last 4 characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as a float64 or returns a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
