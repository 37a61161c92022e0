package ai

import (
	"errors"
	"fmt"
)

// ValidationError indicates the input was rejected before any provider
// call was made. Validation failures are never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ProviderError indicates the embedding or chat provider returned a
// failure. StatusCode is the HTTP status when known, zero otherwise.
type ProviderError struct {
	StatusCode  int
	RateLimited bool
	Err         error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRateLimited reports whether err is a ProviderError caused by an HTTP
// 429 response. Callers add an extended cooldown before retrying.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.RateLimited
}
