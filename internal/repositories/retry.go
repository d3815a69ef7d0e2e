package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/lestrrat-go/backoff/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/apperrors"
)

// Retrier re-runs store operations that fail with connection-level errors,
// backing off exponentially between attempts.
type Retrier struct {
	maxAttempts int
	policy      backoff.Policy
	log         *zap.Logger
}

func NewRetrier(maxAttempts int, initialDelay, maxDelay time.Duration, log *zap.Logger) *Retrier {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if initialDelay <= 0 {
		initialDelay = 100 * time.Millisecond
	}
	if maxDelay < initialDelay {
		maxDelay = initialDelay
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Retrier{
		maxAttempts: maxAttempts,
		policy: backoff.Exponential(
			backoff.WithMinInterval(initialDelay),
			backoff.WithMaxInterval(maxDelay),
			backoff.WithJitterFactor(0.1),
			backoff.WithMaxRetries(maxAttempts),
		),
		log: log,
	}
}

// NoRetry runs every operation exactly once.
func NoRetry() *Retrier {
	return NewRetrier(1, time.Millisecond, time.Millisecond, nil)
}

// Do runs fn until it succeeds, fails with a non-transient error, or the attempts run out.
// Exhausted retries are reported as apperrors.ErrStoreUnavailable.
func (r *Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if r == nil {
		return fn(ctx)
	}

	var lastErr error
	attempts := 0

	b := r.policy.Start(ctx)
	for attempts < r.maxAttempts && backoff.Continue(b) {
		attempts++

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}

		lastErr = err
		r.log.Warn("store operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempts),
			zap.Error(err),
		)
	}

	if lastErr == nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w", op, apperrors.ErrStoreUnavailable)
	}

	return fmt.Errorf("%s after %d attempts: %w: %w", op, attempts, apperrors.ErrStoreUnavailable, lastErr)
}

// IsTransient reports whether err looks like a connection problem worth retrying.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
