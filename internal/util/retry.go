package util

import (
	"context"
	"errors"
	"time"
)

// Retry calls fn up to maxTries times until it returns a nil error.
// If maxTries <= 0, it defaults to 1. Returns the last error if all attempts fail.
func Retry[T any](maxTries int, fn func() (T, error)) (T, error) {
	return RetryWithContext(context.Background(), maxTries, 0, func(context.Context) (T, error) {
		return fn()
	})
}

// RetryErr is Retry for functions without a result.
func RetryErr(maxTries int, fn func() error) error {
	_, err := Retry(maxTries, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryWithContext calls fn up to maxTries times until it returns a nil
// error or ctx is done. Between attempts it waits backoff, doubled after
// every failure. Context errors returned by fn are not retried.
func RetryWithContext[T any](
	ctx context.Context,
	maxTries int,
	backoff time.Duration,
	fn func(context.Context) (T, error),
) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var zero T
	var lastErr error
	wait := backoff
	for i := range maxTries {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err

		if wait <= 0 || i == maxTries-1 {
			continue
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
	return zero, lastErr
}

// RetryErrWithContext is RetryWithContext for functions without a result.
func RetryErrWithContext(
	ctx context.Context,
	maxTries int,
	backoff time.Duration,
	fn func(context.Context) error,
) error {
	_, err := RetryWithContext(ctx, maxTries, backoff, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
