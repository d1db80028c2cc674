package taskpool

import (
	"context"
	"errors"
)

// RunAll executes the provided tasks on a temporary pool of workerCount
// workers and returns once all of them have finished. It owns the lifecycle:
// construct, submit, wait, graceful shutdown.
//
// Results are returned in submission order. The returned error is errors.Join
// of all task failures (nil if every task succeeded); a failed task
// contributes the zero value of R at its position.
func RunAll[R any](ctx context.Context, workerCount int, tasks []Task[R], opts ...Option) ([]R, error) {
	p, err := New[R](ctx, workerCount, opts...)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	futures := make([]*Future[R], 0, len(tasks))
	for _, t := range tasks {
		f, err := p.Submit(t)
		if err != nil {
			return nil, err
		}
		futures = append(futures, f)
	}

	p.WaitAll()

	results := make([]R, len(futures))
	errs := make([]error, 0, len(futures))
	for i, f := range futures {
		v, err := f.Get()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results[i] = v
	}
	return results, errors.Join(errs...)
}
