package llm

import (
	"context"
	"errors"
	"fmt"
)

// ChatRequest is a single system+user exchange.
type ChatRequest struct {
	System string
	User   string
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete returns the text of the first completion choice.
	Complete(ctx context.Context, req ChatRequest) (string, error)
	// Model returns the configured model name.
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// ErrRateLimited is returned when the provider rejects the call with HTTP 429.
var ErrRateLimited = errors.New("llm provider rate limit exceeded")

// ErrQuotaExhausted is returned when the provider rejects the call with HTTP 402.
var ErrQuotaExhausted = errors.New("llm provider credits exhausted")

// StatusError is any other non-2xx provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm provider status %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, &cfg)
	default:
		return NewGatewayClient(&cfg, nil)
	}
}
