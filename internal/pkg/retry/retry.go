// Package retry re-issues client calls that failed for transient reasons.
//
// Retrying is opt-in: a zero Policy performs exactly one attempt. Backoff is
// deterministic (no jitter) so that paced callers stay under upstream rate limits.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy describes how many times, and how far apart, a call is retried.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Defaults to 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps exponential growth. Defaults to 10s.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the wait after each retry. Defaults to 2.
	BackoffFactor float64
}

// Enabled reports whether the policy allows any retry at all.
func (p Policy) Enabled() bool {
	return p.MaxRetries > 0
}

func (p Policy) withDefaults() Policy {
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = time.Second
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 10 * time.Second
	}
	if p.BackoffFactor <= 0 {
		p.BackoffFactor = 2.0
	}
	return p
}

// Backoff returns the wait before retry number attempt (1-indexed).
func (p Policy) Backoff(attempt int) time.Duration {
	p = p.withDefaults()
	if attempt < 1 {
		return 0
	}
	wait := p.InitialBackoff
	for i := 1; i < attempt; i++ {
		wait = time.Duration(float64(wait) * p.BackoffFactor)
		if wait >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if wait > p.MaxBackoff {
		return p.MaxBackoff
	}
	return wait
}

// ShouldRetry decides whether err is transient.
type ShouldRetry func(err error) bool

// OnRetry is invoked before each retry, after the decision to retry was made.
type OnRetry func(attempt int, err error, wait time.Duration)

// Do calls fn until it succeeds, fails permanently, the policy is exhausted or
// ctx is done. The error of the last attempt is returned wrapped, so callers can
// still inspect it with errors.As.
func Do[T any](ctx context.Context, p Policy, shouldRetry ShouldRetry, onRetry OnRetry, fn func() (T, error)) (T, error) {
	var zero T

	value, err := fn()
	if err == nil || !p.Enabled() || shouldRetry == nil || !shouldRetry(err) {
		return value, err
	}

	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		wait := p.Backoff(attempt)
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("context done while retrying: %w", ctx.Err())
		case <-timer.C:
		}

		value, err = fn()
		if err == nil {
			return value, nil
		}
		if !shouldRetry(err) {
			return value, err
		}
	}

	return value, fmt.Errorf("giving up after %d retries: %w", p.MaxRetries, err)
}
