// Package pinerr provides error types shared between pinbump packages.
package pinerr

import (
	"fmt"
	"time"
)

// RetryableError wraps an error caused by a transient condition, e.g. a
// timeout, a reset connection or an exceeded API ratelimit.
type RetryableError struct {
	// Err is the wrapped original error
	Err error
	// After is the earliest point in time that the operation can be retried
	After time.Time
}

func NewRetryableError(originalErr error, retryAfter time.Time) *RetryableError {
	return &RetryableError{
		Err:   originalErr,
		After: retryAfter,
	}
}

func NewRetryableAnytimeError(originalErr error) *RetryableError {
	return &RetryableError{
		Err: originalErr,
	}
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func (e *RetryableError) Error() string {
	if e.After.IsZero() {
		return fmt.Sprintf("retryable error: %s", e.Err)
	}

	return fmt.Sprintf("retryable error (after %s): %s", e.After, e.Err)
}

// ConfigError is returned when an operation can not be executed because
// the configuration or the material it references (e.g. a private key file)
// is missing or invalid.
// Operations failing with a ConfigError must not be retried.
type ConfigError struct {
	// Setting is the name of the configuration option that is invalid.
	Setting string
	Err     error
}

func NewConfigError(setting string, err error) *ConfigError {
	return &ConfigError{Setting: setting, Err: err}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Err)
}
