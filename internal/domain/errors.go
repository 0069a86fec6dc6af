package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every *ValidationError matches it through errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTaskStatus is returned when a status outside the task enumeration is used.
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors aggregates several field failures.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is reports whether target is ErrValidation.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// errOrNil returns nil for an empty set, so callers can return it directly.
func (v ValidationErrors) errOrNil() error {
	if len(v) == 0 {
		return nil
	}
	if len(v) == 1 {
		return v[0]
	}
	return v
}
