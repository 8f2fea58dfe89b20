// Package llm provides chat-completion clients used to score executor/opportunity fit.
// The default provider is an OpenAI-compatible gateway; Gemini is available as an alternative.
package llm

import (
	"fmt"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGateway is any OpenAI-compatible chat/completions endpoint
	ProviderGateway Provider = "gateway"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

const (
	defaultGatewayURL   = "https://ai.gateway.lovable.dev/v1"
	defaultGatewayModel = "google/gemini-2.5-flash"
	defaultGeminiModel  = "gemini-2.5-flash"
	defaultTemperature  = 0.3
	defaultTimeout      = 60 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the gateway configuration without credentials.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGateway,
		BaseURL:     defaultGatewayURL,
		Model:       defaultGatewayModel,
		Temperature: defaultTemperature,
		Timeout:     defaultTimeout,
	}
}

// normalize fills zero values with provider defaults and checks the provider.
func (c *Config) normalize() error {
	if c.Provider == "" {
		c.Provider = ProviderGateway
	}
	switch c.Provider {
	case ProviderGateway:
		if c.BaseURL == "" {
			c.BaseURL = defaultGatewayURL
		}
		if c.Model == "" {
			c.Model = defaultGatewayModel
		}
	case ProviderGemini:
		if c.Model == "" {
			c.Model = defaultGeminiModel
		}
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.Provider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm temperature out of range: %v (must be 0-2)", c.Temperature)
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return nil
}
