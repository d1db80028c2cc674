package taskpool

import (
	"context"
	"fmt"
)

// TaskID identifies a submitted task. IDs are assigned at submission time,
// start at 1, and are strictly increasing in submission order. Zero is never
// a valid id.
type TaskID uint64

// Task is the canonical task shape used throughout the package.
// It takes a context and returns a result of type R and an error.
// Use TaskFunc / TaskValue / TaskError helpers to adapt common function signatures.
type Task[R any] func(context.Context) (R, error)

// TaskFunc adapts func(ctx) (R, error) to Task[R].
func TaskFunc[R any](fn func(context.Context) (R, error)) Task[R] { return Task[R](fn) }

// TaskValue adapts func(ctx) R to Task[R].
func TaskValue[R any](fn func(context.Context) R) Task[R] {
	return func(ctx context.Context) (R, error) { return fn(ctx), nil }
}

// TaskError adapts func(ctx) error to Task[R].
// The returned Task yields the zero value of R alongside the error.
func TaskError[R any](fn func(context.Context) error) Task[R] {
	return func(ctx context.Context) (R, error) { var zero R; return zero, fn(ctx) }
}

// job is the unit owned by the queue between submission and dequeue.
// Ownership transfers to the dequeuing worker for the duration of execution;
// exactly-once execution follows from the queue handing each job out once.
type job[R any] struct {
	id     TaskID
	run    Task[R]
	future *Future[R] // nil for detached submissions
}

// invoke executes the job body with panic containment. A panicking body is
// reported as an error wrapping ErrTaskPanicked; it never unwinds into the
// worker loop.
func (j *job[R]) invoke(ctx context.Context) (result R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, rec)
		}
	}()
	return j.run(ctx)
}
