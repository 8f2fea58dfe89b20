// Package config loads service configuration.
//
// Values are layered, lowest precedence first:
//  1. defaults (Default)
//  2. a YAML file named by KICKINN_CONFIG
//  3. legacy unprefixed variables (DATABASE_URL, JWT_SECRET, LOVABLE_API_KEY, GEMINI_API_KEY)
//  4. environment variables with the KICKINN_ prefix
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/kickinn/kickinn-api/internal/llm"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "KICKINN_"

// FileEnv names the variable holding an optional YAML config path.
const FileEnv = "KICKINN_CONFIG"

// Store backends.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// legacyEnv maps config keys to the unprefixed variables older deployments set.
var legacyEnv = map[string]string{
	"database_url": "DATABASE_URL",
	"jwt_secret":   "JWT_SECRET",
	"llm_api_key":  "LOVABLE_API_KEY",
}

// Config holds the service configuration.
type Config struct {
	Port int `koanf:"port"`

	// Store selects the persistence backend: postgres or sqlite.
	Store       string `koanf:"store"`
	DatabaseURL string `koanf:"database_url"`
	SQLitePath  string `koanf:"sqlite_path"`

	JWTSecret          string `koanf:"jwt_secret"`
	JWTExpirationHours int    `koanf:"jwt_expiration_hours"`

	LLMProvider    string        `koanf:"llm_provider"`
	LLMBaseURL     string        `koanf:"llm_base_url"`
	LLMAPIKey      string        `koanf:"llm_api_key"`
	LLMModel       string        `koanf:"llm_model"`
	LLMTemperature float32       `koanf:"llm_temperature"`
	LLMTimeout     time.Duration `koanf:"llm_timeout"`

	LogLevel       string `koanf:"log_level"`
	LogFormat      string `koanf:"log_format"`
	MetricsEnabled bool   `koanf:"metrics_enabled"`
}

// Default returns the configuration used when nothing is overridden.
// Base URL and model stay empty so the provider's own defaults apply.
func Default() *Config {
	model := llm.DefaultConfig()
	return &Config{
		Port:               8080,
		Store:              StorePostgres,
		SQLitePath:         "kickinn.db",
		JWTExpirationHours: 24,
		LLMProvider:        string(model.Provider),
		LLMTemperature:     model.Temperature,
		LLMTimeout:         model.Timeout,
		LogLevel:           "info",
		LogFormat:          "json",
		MetricsEnabled:     true,
	}
}

// Load builds a Config from defaults, the optional YAML file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	for key, name := range legacyEnv {
		if k.Exists(key) {
			continue
		}
		if v := os.Getenv(name); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, fmt.Errorf("failed to apply %s: %w", name, err)
			}
		}
	}

	// KICKINN_LLM_API_KEY -> llm_api_key
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if cfg.LLMAPIKey == "" && cfg.LLMProvider == string(llm.ProviderGemini) {
		cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg, nil
}

// normalize trims values and validates the configuration.
func (c *Config) normalize() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port must be between 1 and 65535, got: %d", c.Port)
	}

	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: database_url is required when store is %s", StorePostgres)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: sqlite_path is required when store is %s", StoreSQLite)
		}
	default:
		return fmt.Errorf("config error: store must be %s or %s, got: %q", StorePostgres, StoreSQLite, c.Store)
	}

	if c.LLMTimeout < 0 {
		return fmt.Errorf("config error: llm_timeout must be non-negative, got: %s", c.LLMTimeout)
	}
	return nil
}

// LLM returns the model client configuration.
func (c *Config) LLM() *llm.Config {
	return &llm.Config{
		Provider:    llm.Provider(c.LLMProvider),
		BaseURL:     c.LLMBaseURL,
		APIKey:      c.LLMAPIKey,
		Model:       c.LLMModel,
		Temperature: c.LLMTemperature,
		Timeout:     c.LLMTimeout,
	}
}

// JWT returns the validated token configuration.
func (c *Config) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.JWTSecret, c.JWTExpirationHours)
}
