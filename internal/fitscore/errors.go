package fitscore

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when no row exists for the caller.
var ErrNotFound = errors.New("not found")

// ValidationError indicates the request is missing or has malformed fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ParseError indicates the model reply could not be turned into a fit score.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PersistError indicates the computed score could not be stored.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to save fit score: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
