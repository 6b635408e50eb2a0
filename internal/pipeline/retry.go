package pipeline

import (
	"context"
	"time"
)

// sleepFunc is swapped out in tests to avoid real delays.
var sleepFunc = time.Sleep

// withRetry runs fn up to attempts times with exponential backoff between
// failures. The context is checked before each attempt so cancellation cuts
// the loop short.
func withRetry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if i > 0 {
			sleepFunc(backoff * time.Duration(1<<(i-1)))
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, lastErr
}
