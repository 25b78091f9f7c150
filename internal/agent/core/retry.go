package core

import (
	"context"
	"log"
	"time"
)

// RetryPolicy retries a transient operation with multiplicative backoff.
// It wraps the narrowest network call of each pipeline stage; stage
// functions that swallow their own errors and return defaults are never
// retried, because the wrapper only sees the error the function returns.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Backoff  float64
}

// Do runs fn up to Attempts times, sleeping between failures. Each
// failure is logged with the operation name. The last error is returned
// when all attempts fail; ctx cancellation aborts the wait early.
func (p RetryPolicy) Do(ctx context.Context, logger *log.Logger, op string, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := p.Delay
	if delay <= 0 {
		delay = 800 * time.Millisecond
	}
	backoff := p.Backoff
	if backoff <= 1 {
		backoff = 1.6
	}

	var last error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			if last != nil {
				return last
			}
			return err
		}
		last = fn()
		if last == nil {
			return nil
		}
		if logger != nil {
			logger.Printf("retryable error in %s (attempt %d/%d): %v", op, i+1, attempts, last)
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return last
		}
		delay = time.Duration(float64(delay) * backoff)
	}
	return last
}
