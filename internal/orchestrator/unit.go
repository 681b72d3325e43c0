package orchestrator

import (
	"context"
	"time"

	"github.com/nao1215/receiptscan/internal/signal"
)

// runUnit executes one producer under its own deadline and wraps the
// outcome. A timeout abandons the producer's goroutine and returns
// signal.ErrTimeout; the producer keeps running until its own context
// check fires, but its late result is discarded.
//
// Design decision: We select on the deadline rather than trusting every
// producer to honor context cancellation promptly. A producer stuck in
// a blocking call must not hold up the whole analysis.
func runUnit[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) signal.Result[T] {
	unitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	// Buffered so an abandoned producer can still deliver and exit.
	done := make(chan outcome, 1)
	go func() {
		value, err := fn(unitCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return signal.Failure[T](out.err)
		}
		return signal.Success(out.value)
	case <-unitCtx.Done():
		if ctx.Err() != nil {
			return signal.Failure[T](ctx.Err())
		}
		return signal.Failure[T](signal.ErrTimeout)
	}
}
