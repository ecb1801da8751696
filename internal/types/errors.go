package types

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks a feed failure or insufficient history.
// Callers recover locally (substitute neutral defaults, omit a filter
// criterion, skip a single refresh) instead of aborting the batch.
var ErrDataUnavailable = errors.New("data unavailable")

// ValidationError reports a caller input that violates a precondition.
// The operation that would have mutated state is aborted before any
// mutation occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConfigurationError reports an invalid configuration value, rejected
// at configuration time so it never reaches sizing.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

func NewConfigurationError(key, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
