package server

import (
	"errors"
	"net/http"

	"github.com/kickinn/kickinn-api/internal/fitscore"
	"github.com/kickinn/kickinn-api/internal/llm"
)

// Client-facing messages for model provider failures.
const (
	MessageRateLimited    = "Rate limit exceeded. Please try again later."
	MessageQuotaExhausted = "AI credits exhausted. Please add credits to continue."
	MessageParseFailed    = "Failed to parse AI response"
	MessageGatewayError   = "AI gateway error"
	MessagePersistPrefix  = "Failed to save fit score: "
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *fitscore.ValidationError
		parseErr      *fitscore.ParseError
		persistErr    *fitscore.PersistError
		statusErr     *llm.StatusError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, fitscore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, llm.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, llm.ErrQuotaExhausted):
		return http.StatusPaymentRequired
	case errors.As(err, &parseErr), errors.As(err, &statusErr):
		return http.StatusBadGateway
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the message written in the {"error": ...} body for err.
func ErrorMessage(err error) string {
	var (
		validationErr *fitscore.ValidationError
		parseErr      *fitscore.ParseError
		persistErr    *fitscore.PersistError
		statusErr     *llm.StatusError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, llm.ErrRateLimited):
		return MessageRateLimited
	case errors.Is(err, llm.ErrQuotaExhausted):
		return MessageQuotaExhausted
	case errors.As(err, &parseErr):
		return MessageParseFailed
	case errors.As(err, &statusErr):
		return MessageGatewayError
	case errors.As(err, &persistErr):
		return MessagePersistPrefix + persistErr.Err.Error()
	default:
		return err.Error()
	}
}
