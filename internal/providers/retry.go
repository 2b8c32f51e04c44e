package providers

import (
	"context"
	"errors"
	"time"
)

// retryWithBackoff retries fn on rate-limit and server errors with
// exponential backoff. Auth and client errors are returned immediately.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !retryable(lastErr) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

func retryable(err error) bool {
	var rl *rateLimitError
	var srv *serverError
	return errors.As(err, &rl) || errors.As(err, &srv)
}
