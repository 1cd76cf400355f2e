// Package retry re-runs an operation while its error is worth retrying.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy bounds the attempts.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // linear backoff: attempt * Delay

	// Retryable decides whether err deserves another attempt. Nil retries
	// every error.
	Retryable func(err error) bool
}

// Do calls fn until it succeeds, the policy is exhausted, err is not
// retryable or ctx is done.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := p.Delay
		if p.Backoff {
			delay = time.Duration(attempt) * p.Delay
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	if attempts == 1 {
		return err
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
