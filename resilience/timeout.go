package resilience

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/voxpersona/errors"
)

// CallWithTimeout runs fn with a deadline of d. When the deadline expires
// before the caller's own context is done, the error becomes a retryable
// TIMEOUT AppError naming op. A zero d disables the deadline.
func CallWithTimeout[T any](ctx context.Context, d time.Duration, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	result, err := fn(callCtx)
	if err != nil && ctx.Err() == nil && stderrors.Is(callCtx.Err(), context.DeadlineExceeded) {
		var zero T
		return zero, errors.Timeout(op).WithCause(err)
	}
	return result, err
}

// Policy combines a per-attempt timeout with retry.
type Policy struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
}

// Call runs fn under p: every attempt gets its own deadline.
func Call[T any](ctx context.Context, p Policy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	return Retry(ctx, p.Retry, func(ctx context.Context) (T, error) {
		return CallWithTimeout(ctx, p.Timeout, op, fn)
	})
}
