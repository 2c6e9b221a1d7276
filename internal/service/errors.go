package service

import (
	"errors"
	"fmt"
)

// ErrExternalService marks a failed call to an external provider. The
// transport layer maps it to an upstream-failure status.
var ErrExternalService = errors.New("external service error")

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// ExternalError wraps a provider failure with context and tags it as
// ErrExternalService.
func ExternalError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrExternalService, err)
}
