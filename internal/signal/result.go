package signal

import "errors"

// ErrTimeout is the failure reason recorded when a producer exceeds its
// per-unit deadline. The orchestrator treats it like any other failure
// but reports the distinct "timeout" status in the execution log.
var ErrTimeout = errors.New("timeout")

// ErrSkipped is the failure reason recorded when a producer never ran
// because its input dependency was unavailable.
var ErrSkipped = errors.New("skipped")

// Result is the tagged outcome of one signal producer: either a complete
// typed payload or a failure reason. The zero value is a failure with no
// reason, so an unset Result never masquerades as a success.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Success wraps a complete producer payload.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure wraps a producer failure reason.
func Failure[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Ok reports whether the producer completed successfully.
func (r Result[T]) Ok() bool {
	return r.ok
}

// Value returns the payload. It is only meaningful when Ok is true;
// otherwise it returns the zero value of T.
func (r Result[T]) Value() T {
	return r.value
}

// Get returns the payload and whether it is valid, in the comma-ok style.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.ok
}

// Err returns the failure reason, or nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// TimedOut reports whether the failure reason was the per-unit deadline.
func (r Result[T]) TimedOut() bool {
	return !r.ok && errors.Is(r.err, ErrTimeout)
}
