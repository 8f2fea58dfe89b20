// Package schemas validates structured model replies against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// FitScoreReply names the schema for fit-score model replies.
const FitScoreReply = "fit_score_reply"

//go:embed *.schema.json
var schemaFiles embed.FS

type compiledSchema struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

// compiled maps a schema name to its *compiledSchema.
var compiled sync.Map

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	noun := "violations"
	if len(parts) == 1 {
		noun = "violation"
	}
	return fmt.Sprintf("%s validation failed with %d %s: %s", e.Schema, len(parts), noun, strings.Join(parts, "; "))
}

// Validate checks doc against the named embedded schema.
// Schema violations are returned as *ValidationError; a document that is not JSON is a plain error.
func Validate(name string, doc []byte) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to decode document for %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

// ValidateFitScoreReply validates a model reply against the fit-score schema.
func ValidateFitScoreReply(reply string) error {
	return Validate(FitScoreReply, []byte(reply))
}

func load(name string) (*gojsonschema.Schema, error) {
	v, _ := compiled.LoadOrStore(name, &compiledSchema{})
	c := v.(*compiledSchema)
	c.once.Do(func() {
		raw, err := schemaFiles.ReadFile(name + ".schema.json")
		if err != nil {
			c.err = fmt.Errorf("unknown schema %q: %w", name, err)
			return
		}
		if c.schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw)); err != nil {
			c.err = fmt.Errorf("invalid schema %q: %w", name, err)
		}
	})
	return c.schema, c.err
}
