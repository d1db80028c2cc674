package taskpool

import (
	"context"
	"sync"
)

// Future is the one-shot cell through which a tracked task's outcome is
// retrieved. It is created by Submit, fulfilled exactly once by the worker
// that executes the task (or by the shutdown coordinator when the task is
// discarded), and read by the caller.
//
// A Future moves through three states: pending, fulfilled with a value, or
// failed with an error. Once resolved it never changes; Get may be called any
// number of times and returns the same outcome. Dropping a Future without
// reading it is legal and does not block the pool.
type Future[R any] struct {
	id TaskID

	once  sync.Once
	done  chan struct{}
	value R
	err   error
}

func newFuture[R any](id TaskID) *Future[R] {
	return &Future[R]{id: id, done: make(chan struct{})}
}

// ID returns the identifier assigned to the task at submission.
// It can be passed to Pool.WaitTask and Pool.IsCompleted.
func (f *Future[R]) ID() TaskID { return f.id }

// resolve publishes the outcome. The sync.Once guards the write-once
// invariant against the execution/discard race during immediate shutdown.
func (f *Future[R]) resolve(value R, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Get blocks until the task has finished and returns its result.
// If the task returned an error or panicked, that failure is returned here,
// at retrieval time. If the task was discarded by an immediate shutdown, Get
// returns ErrTaskNotExecuted.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetContext behaves like Get but gives up when ctx is done, returning
// ctx.Err(). The task itself keeps running; only the wait is abandoned.
func (f *Future[R]) GetContext(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// TryGet returns the outcome without blocking. The boolean reports whether
// the future has been resolved; when false, the value and error are zero.
func (f *Future[R]) TryGet() (R, bool, error) {
	select {
	case <-f.done:
		return f.value, true, f.err
	default:
		var zero R
		return zero, false, nil
	}
}

// Ready reports whether Get would return without blocking.
func (f *Future[R]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
