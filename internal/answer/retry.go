package answer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// WithRetry wraps a client so transient failures are retried with backoff.
func WithRetry(c Client) Client {
	return &retrying{inner: c}
}

type retrying struct {
	inner Client
}

func (r *retrying) Model() string { return r.inner.Model() }

func (r *retrying) Answer(ctx context.Context, question, docContext string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(Backoff(attempt - 1)):
			}
		}
		result, err := r.inner.Answer(ctx, question, docContext)
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
