package store

import (
	"context"
	stderrors "errors"
	"time"
)

const (
	connectAttempts = 3
	connectDelay    = 500 * time.Millisecond
)

// retryableError marks a failure worth another attempt, such as a refused
// connection while a backend is still starting.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped in retryableError are retried. The unwrapped last
// error is returned when every attempt fails, ctx.Err() when cancelled.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var re *retryableError
		if !stderrors.As(err, &re) {
			return err
		}
		lastErr = re.err

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// connect pings a backend until it answers or connectAttempts run out.
func connect(ctx context.Context, ping func(context.Context) error) error {
	return retry(ctx, connectAttempts, connectDelay, func() error {
		if err := ping(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			return &retryableError{err}
		}
		return nil
	})
}
