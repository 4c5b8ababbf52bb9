package dataflows

import (
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures retry behavior for provider calls.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryConfig matches the adapters' contract: a small fixed cap with
// linearly increasing backoff.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 2,
		BaseDelay:  1200 * time.Millisecond,
	}
}

// permanentError wraps an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so WithRetry fails immediately.
func Permanent(err error) error {
	return &permanentError{err: err}
}

// WithRetry executes fn up to MaxRetries+1 times with linear backoff
// (BaseDelay x attempt). A Permanent error aborts without further attempts.
func WithRetry(config *RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(config.BaseDelay * time.Duration(attempt))
		}

		err := fn()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
