package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrForbidden = errors.New("access forbidden")

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every offending field of a rejected input so the
// presentation layer can render an actionable message per field.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends one more offending field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// HasFields reports whether any field was recorded.
func (e *ValidationError) HasFields() bool {
	return len(e.Fields) > 0
}

// CapacityError is returned when an enrollment would exceed a workshop's
// capacity. The caller may recover by choosing another workshop.
type CapacityError struct {
	WorkshopID uint
	Capacity   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("workshop %d is at capacity (%d)", e.WorkshopID, e.Capacity)
}
