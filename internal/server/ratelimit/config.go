package ratelimit

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the limiter's environment variables.
const EnvPrefix = "RATE_LIMIT_"

// EndpointConfig is the limit for one endpoint. A Path ending in "/" matches by prefix.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // bucket capacity; Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// envConfig mirrors the RATE_LIMIT_* variables.
type envConfig struct {
	Enabled         bool          `koanf:"enabled"`
	DefaultLimit    int           `koanf:"default_limit"`
	DefaultWindow   time.Duration `koanf:"default_window"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	Whitelist       string        `koanf:"whitelist"`
	Blacklist       string        `koanf:"blacklist"`
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW,
// RATE_LIMIT_CLEANUP_INTERVAL, RATE_LIMIT_WHITELIST and RATE_LIMIT_BLACKLIST over DefaultConfig.
func LoadConfig() (*Config, error) {
	base := DefaultConfig()
	raw := envConfig{
		Enabled:         base.Enabled,
		DefaultLimit:    base.DefaultLimit,
		DefaultWindow:   base.DefaultWindow,
		CleanupInterval: base.CleanupInterval,
	}

	k := koanf.New(".")
	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, fmt.Errorf("failed to load rate limit environment: %w", err)
	}
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("invalid rate limit configuration: %w", err)
	}

	if raw.DefaultLimit < 0 {
		return nil, fmt.Errorf("%sDEFAULT_LIMIT must be non-negative, got: %d", EnvPrefix, raw.DefaultLimit)
	}
	if raw.DefaultWindow <= 0 {
		return nil, fmt.Errorf("%sDEFAULT_WINDOW must be positive, got: %s", EnvPrefix, raw.DefaultWindow)
	}

	base.Enabled = raw.Enabled
	base.DefaultLimit = raw.DefaultLimit
	base.DefaultWindow = raw.DefaultWindow
	base.CleanupInterval = raw.CleanupInterval
	base.Whitelist = parseIPList(raw.Whitelist)
	base.Blacklist = parseIPList(raw.Blacklist)
	return base, nil
}

// DefaultEndpointConfigs returns the per-endpoint tiers.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Scoring calls the LLM
		{Path: "/fit-scores", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		{Path: "/fit-scores", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/fit-scores/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/executors/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},

		// Probes and scrapes
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/metrics", Method: "GET", Limit: 0},
	}
}

// parseIPList parses a comma-separated list of client identifiers into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
