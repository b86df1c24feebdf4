// Package retry provides a backoff policy for transient storage failures.
//
// The policy is composed around store calls by callers; it never lives inside
// the session service itself, so deterministic business-rule rejections stay
// cleanly separated from transport errors. Non-retriable domain errors abort
// immediately regardless of remaining attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	apperrors "github.com/sandlotlabs/dugout/internal/platform/errors"
)

// Policy describes an exponential backoff schedule with a hard timeout.
type Policy struct {
	// MaxAttempts caps how many times the operation runs, including the
	// first attempt. Zero means a single attempt with no retries.
	MaxAttempts uint
	// BaseDelay is the initial wait between attempts.
	BaseDelay time.Duration
	// MaxDelay caps the exponential growth of the wait.
	MaxDelay time.Duration
	// Jitter randomizes each wait by the given factor in [0,1].
	Jitter float64
	// Timeout bounds the total elapsed time across all attempts.
	Timeout time.Duration
}

// DefaultPolicy mirrors the schedule used for session store calls.
var DefaultPolicy = Policy{
	MaxAttempts: 4,
	BaseDelay:   50 * time.Millisecond,
	MaxDelay:    2 * time.Second,
	Jitter:      0.5,
	Timeout:     10 * time.Second,
}

// Do runs op under the policy, retrying transient failures with exponential
// backoff. Business-rule errors (validation, forbidden, not-found, conflict)
// are returned immediately without further attempts.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	b := backoff.NewExponentialBackOff()
	if p.BaseDelay > 0 {
		b.InitialInterval = p.BaseDelay
	}
	if p.MaxDelay > 0 {
		b.MaxInterval = p.MaxDelay
	}
	if p.Jitter >= 0 && p.Jitter <= 1 {
		b.RandomizationFactor = p.Jitter
	}

	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !apperrors.IsRetriable(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))
}

// DoVoid runs an operation with no return value under the policy.
func DoVoid(ctx context.Context, p Policy, op func() error) error {
	_, err := Do(ctx, p, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}
