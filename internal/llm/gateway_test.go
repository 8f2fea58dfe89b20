package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGatewayClient(&Config{
		Provider:    ProviderGateway,
		BaseURL:     srv.URL + "/v1/",
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.3,
		Timeout:     5 * time.Second,
	}, srv.Client())
	require.NoError(t, err)
	return client
}

func TestGatewayClient_Complete(t *testing.T) {
	var received chatCompletionRequest
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"overall_score\":77}"}}]}`))
	})

	content, err := client.Complete(context.Background(), ChatRequest{System: "rubric", User: "profile"})
	require.NoError(t, err)
	assert.Equal(t, `{"overall_score":77}`, content)

	assert.Equal(t, "test-model", received.Model)
	assert.InDelta(t, 0.3, received.Temperature, 0.0001)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Equal(t, "rubric", received.Messages[0].Content)
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "profile", received.Messages[1].Content)
}

func TestGatewayClient_OmitsEmptySystemMessage(t *testing.T) {
	var received chatCompletionRequest
	client := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	_, err := client.Complete(context.Background(), ChatRequest{User: "only user"})
	require.NoError(t, err)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "user", received.Messages[0].Role)
}

func TestGatewayClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"credits exhausted", http.StatusPaymentRequired, ErrQuotaExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.Complete(context.Background(), ChatRequest{User: "x"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGatewayClient_OtherStatus(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := client.Complete(context.Background(), ChatRequest{User: "x"})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, "upstream unavailable", statusErr.Body)
	assert.NotErrorIs(t, err, ErrRateLimited)
}

func TestGatewayClient_NoChoices(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), ChatRequest{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestGatewayClient_InvalidBody(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Complete(context.Background(), ChatRequest{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestGatewayClient_ContextCancelled(t *testing.T) {
	client := newTestGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, ChatRequest{User: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGatewayClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGatewayClient(&Config{BaseURL: "http://example"}, nil)
	assert.Error(t, err)
}
