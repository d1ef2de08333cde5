// README: Error taxonomy shared by services and mapped to HTTP status codes at the edge.
package types

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("upstream unavailable")
)

// ValidationError carries a human-readable message for the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid returns a validation error for field.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotFound wraps ErrNotFound with the name of the missing thing.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// Unavailable wraps ErrUnavailable and the underlying cause.
func Unavailable(what string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", what, ErrUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", what, ErrUnavailable, cause)
}
