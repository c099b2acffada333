package gemini

import (
	"errors"
	"fmt"
)

// errEmptyResponse marks a 2xx reply that carried no usable text.
var errEmptyResponse = errors.New("model returned an empty response")

// NotConfiguredError indicates the generation capability was never set up
// (typically a missing API key). Callers should fail before attempting any
// remote call.
type NotConfiguredError struct {
	Message string
}

// Error implements the error interface.
func (e *NotConfiguredError) Error() string {
	return e.Message
}

// IsNotConfiguredError checks if an error is a NotConfiguredError.
func IsNotConfiguredError(err error) bool {
	var target *NotConfiguredError
	return errors.As(err, &target)
}

// GenerationError wraps a failed generation call. The underlying message is
// surfaced verbatim to the caller; nothing is masked or retried.
type GenerationError struct {
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError checks if an error is a GenerationError.
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}
