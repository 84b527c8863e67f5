// Package retry bounds optimistic concurrency retries. Only stale-state conflicts are
// retried; any other error stops the loop at once.
package retry

import (
	"context"
	"errors"
	"time"

	"fooddelivery/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

const (
	initialInterval = 5 * time.Millisecond
	maxInterval     = 100 * time.Millisecond
)

// OnStale runs op up to maxAttempts times while it fails with errs.ErrStaleState,
// waiting a short, growing interval between attempts. When attempts run out the last
// stale error is returned. Context cancellation stops the loop and returns ctx.Err().
func OnStale(ctx context.Context, maxAttempts int, op func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialInterval
	policy.MaxInterval = maxInterval
	policy.MaxElapsedTime = 0

	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		err := op()
		if err == nil || errors.Is(err, errs.ErrStaleState) {
			return err
		}
		return backoff.Permanent(err)
	}, bounded)
}
