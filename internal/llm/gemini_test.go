package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"rest 429", &googleapi.Error{Code: http.StatusTooManyRequests}, ErrRateLimited},
		{"wrapped rest 402", fmt.Errorf("call: %w", &googleapi.Error{Code: http.StatusPaymentRequired}), ErrQuotaExhausted},
		{"grpc resource exhausted", status.Error(codes.ResourceExhausted, "quota"), ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapGeminiError(tt.err), tt.wantErr)
		})
	}

	t.Run("other errors wrapped", func(t *testing.T) {
		base := errors.New("boom")
		err := mapGeminiError(base)
		assert.ErrorIs(t, err, base)
		assert.NotErrorIs(t, err, ErrRateLimited)
	})
}

func TestExtractTextFromResponse(t *testing.T) {
	_, err := extractTextFromResponse(nil)
	assert.Error(t, err)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}
