package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGateway, config.Provider)
	assert.Equal(t, defaultGatewayURL, config.BaseURL)
	assert.Equal(t, defaultGatewayModel, config.Model)
	assert.InDelta(t, 0.3, config.Temperature, 0.0001)
	assert.Equal(t, 60*time.Second, config.Timeout)
}

func TestConfigNormalize_Defaults(t *testing.T) {
	gateway := &Config{}
	require.NoError(t, gateway.normalize())
	assert.Equal(t, ProviderGateway, gateway.Provider)
	assert.Equal(t, defaultGatewayURL, gateway.BaseURL)
	assert.Equal(t, defaultGatewayModel, gateway.Model)
	assert.Equal(t, defaultTimeout, gateway.Timeout)

	gemini := &Config{Provider: ProviderGemini}
	require.NoError(t, gemini.normalize())
	assert.Equal(t, defaultGeminiModel, gemini.Model)
}

func TestConfigNormalize_Rejects(t *testing.T) {
	assert.Error(t, (&Config{Provider: "openai-v0"}).normalize())
	assert.Error(t, (&Config{Temperature: -0.1}).normalize())
	assert.Error(t, (&Config{Temperature: 2.5}).normalize())
}

func TestNewClient_Gateway(t *testing.T) {
	client, err := NewClient(context.Background(), &Config{APIKey: "k", Model: "m"})
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	_, ok := client.(*GatewayClient)
	assert.True(t, ok)
	assert.Equal(t, "m", client.Model())
}

func TestNewClient_DoesNotMutateInput(t *testing.T) {
	cfg := &Config{APIKey: "k"}
	_, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, cfg.Model)
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	assert.Error(t, err)
}
