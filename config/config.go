package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Scraper   ScraperConfig   `toml:"scraper"`
	Cache     CacheConfig     `toml:"cache"`
	Auth      AuthConfig      `toml:"auth"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `toml:"host"` // default: "0.0.0.0"
	Port int    `toml:"port"` // default: 8080
	Mode string `toml:"mode"` // "debug", "release", "test"; default: "release"
}

// ScraperConfig controls fetching and extraction.
type ScraperConfig struct {
	// BaseURL is the site every commander, deck and theme path is resolved against.
	BaseURL string `toml:"base_url"` // default: "https://edhrec.com"

	// RequestTimeout bounds a single HTTP attempt.
	RequestTimeout time.Duration `toml:"request_timeout"` // default: 12s

	// DialTimeout bounds the TCP+TLS connect.
	DialTimeout time.Duration `toml:"dial_timeout"` // default: 10s

	// MaxRetries is the number of additional attempts after a transport
	// failure or 5xx.
	MaxRetries int `toml:"max_retries"` // default: 2

	// RetryBaseDelay is multiplied by the attempt number before each retry.
	RetryBaseDelay time.Duration `toml:"retry_base_delay"` // default: 250ms

	// DefaultBracket is used when a deck request names none.
	DefaultBracket string `toml:"default_bracket"` // default: "upgraded"

	// MaxTags caps tag lists.
	MaxTags int `toml:"max_tags"` // default: 20

	UserAgent string `toml:"user_agent"`
}

// CacheConfig controls the average-deck cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"` // default: true

	// TTL is the lifetime of a cached deck.
	TTL time.Duration `toml:"ttl"` // default: 15m

	// MaxEntries is the maximum number of cached decks.
	MaxEntries int `toml:"max_entries"` // default: 1000

	// CleanupInterval is how often expired decks are purged.
	CleanupInterval time.Duration `toml:"cleanup_interval"` // default: 5m
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool `toml:"enabled"` // default: false

	APIKeys []string `toml:"api_keys"`
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 `toml:"requests_per_second"` // default: 5

	// Burst is the maximum burst size per API key.
	Burst int `toml:"burst"` // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `toml:"level"`  // default: "info"
	Format string `toml:"format"` // "json" or "text"; default: "json"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Scraper: ScraperConfig{
			BaseURL:        "https://edhrec.com",
			RequestTimeout: 12 * time.Second,
			DialTimeout:    10 * time.Second,
			MaxRetries:     2,
			RetryBaseDelay: 250 * time.Millisecond,
			DefaultBracket: "upgraded",
			MaxTags:        20,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			MaxEntries:      1000,
			CleanupInterval: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5.0,
			Burst:             10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file named by
// DECKSCOPE_CONFIG (if set), then DECKSCOPE_* environment variables.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("DECKSCOPE_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = envOr("DECKSCOPE_HOST", cfg.Server.Host)
	cfg.Server.Port = envIntOr("DECKSCOPE_PORT", cfg.Server.Port)
	cfg.Server.Mode = envOr("DECKSCOPE_MODE", cfg.Server.Mode)

	cfg.Scraper.BaseURL = strings.TrimRight(envOr("DECKSCOPE_BASE_URL", cfg.Scraper.BaseURL), "/")
	cfg.Scraper.RequestTimeout = envDurationOr("DECKSCOPE_REQUEST_TIMEOUT", cfg.Scraper.RequestTimeout)
	cfg.Scraper.DialTimeout = envDurationOr("DECKSCOPE_DIAL_TIMEOUT", cfg.Scraper.DialTimeout)
	cfg.Scraper.MaxRetries = envIntOr("DECKSCOPE_MAX_RETRIES", cfg.Scraper.MaxRetries)
	cfg.Scraper.RetryBaseDelay = envDurationOr("DECKSCOPE_RETRY_BASE_DELAY", cfg.Scraper.RetryBaseDelay)
	cfg.Scraper.DefaultBracket = envOr("DECKSCOPE_DEFAULT_BRACKET", cfg.Scraper.DefaultBracket)
	cfg.Scraper.MaxTags = envIntOr("DECKSCOPE_MAX_TAGS", cfg.Scraper.MaxTags)
	cfg.Scraper.UserAgent = envOr("DECKSCOPE_USER_AGENT", cfg.Scraper.UserAgent)

	cfg.Cache.Enabled = envBoolOr("DECKSCOPE_CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.TTL = envDurationOr("DECKSCOPE_CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.MaxEntries = envIntOr("DECKSCOPE_CACHE_MAX_ENTRIES", cfg.Cache.MaxEntries)
	cfg.Cache.CleanupInterval = envDurationOr("DECKSCOPE_CACHE_CLEANUP_INTERVAL", cfg.Cache.CleanupInterval)

	cfg.Auth.Enabled = envBoolOr("DECKSCOPE_AUTH_ENABLED", cfg.Auth.Enabled)
	cfg.Auth.APIKeys = envSliceOr("DECKSCOPE_API_KEYS", cfg.Auth.APIKeys)

	cfg.RateLimit.RequestsPerSecond = envFloatOr("DECKSCOPE_RATE_RPS", cfg.RateLimit.RequestsPerSecond)
	cfg.RateLimit.Burst = envIntOr("DECKSCOPE_RATE_BURST", cfg.RateLimit.Burst)

	cfg.Log.Level = envOr("DECKSCOPE_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envOr("DECKSCOPE_LOG_FORMAT", cfg.Log.Format)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
