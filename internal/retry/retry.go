// Package retry provides bounded exponential-backoff retries for
// transient failures against external services.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/conflictlab/micrag/internal/core/domain"
)

// Policy controls how many times an operation is retried and how long
// to wait between attempts.
type Policy struct {
	// MaxAttempts includes the first attempt; values below 1 mean one
	// attempt, no retries.
	MaxAttempts int

	// BaseDelay is the first backoff delay; each retry doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration

	// RetryIf decides whether an error is worth retrying.
	// Defaults to Transient.
	RetryIf func(error) bool
}

// DefaultPolicy retries transient retrieval and generation failures
// three times with 500ms base backoff.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// Transient reports whether err is a transient external failure.
func Transient(err error) bool {
	return errors.Is(err, domain.ErrRetrievalUnavailable) || errors.Is(err, domain.ErrGeneration)
}

// Do runs fn until it succeeds, the policy is exhausted, or the context
// is cancelled. The last error is returned unwrapped.
func Do(ctx context.Context, policy Policy, fn func(context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryIf := policy.RetryIf
	if retryIf == nil {
		retryIf = Transient
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(policy.delay(attempt - 1)):
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}
		if !retryIf(err) {
			return err
		}
	}
	return err
}

func (p Policy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	d := base << attempt
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}
