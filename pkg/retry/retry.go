package retry

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// Config holds configuration for retry behavior
type Config struct {
	MaxAttempts int           // Maximum number of retry attempts
	BaseDelay   time.Duration // Base delay between retries
	MaxDelay    time.Duration // Maximum delay between retries
	Multiplier  float64       // Backoff multiplier
}

// DefaultConfig returns a default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
	}
}

// Func represents a function that can be retried
type Func func() error

// IsRetryableFunc determines if an error should trigger a retry
type IsRetryableFunc func(error) bool

// WithExponentialBackoff retries a function with exponential backoff
func WithExponentialBackoff(ctx context.Context, config Config, fn Func, isRetryable IsRetryableFunc) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !isRetryable(err) {
			return fmt.Errorf("non-retryable error: %w", err)
		}

		// Don't wait after the last attempt
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := time.Duration(float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt)))
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled by context: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", config.MaxAttempts, lastErr)
}

// IsTemporaryError is a common retry predicate for temporary/transient errors
func IsTemporaryError(err error) bool {
	if err == nil {
		return false
	}

	errorStr := strings.ToLower(err.Error())

	temporaryPatterns := []string{
		"connection refused",
		"timeout",
		"temporary failure",
		"service unavailable",
		"internal server error",
		"too many requests",
		"rate limited",
		"network is unreachable",
		"connection reset",
	}

	for _, pattern := range temporaryPatterns {
		if strings.Contains(errorStr, pattern) {
			return true
		}
	}

	return false
}
