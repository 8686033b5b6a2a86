package db

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("no rows in result set")
	ErrForbidden    = errors.New("permission denied")
	ErrUnauthorized = errors.New("authentication required")
)

// ValidationError is returned when a request is well formed but breaks a domain rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a *ValidationError from message parts joined by a space.
func NewValidationError(parts ...string) error {
	return &ValidationError{Message: strings.Join(parts, " ")}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
