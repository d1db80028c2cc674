package taskpool

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// worker is one long-lived execution loop. N of them share the queue and the
// tracker; each repeatedly dequeues and runs one job until the queue reports
// it will produce no more.
type worker[R any] struct {
	queue   *jobQueue[R]
	tracker *completionTracker
	logger  *zap.Logger
	limiter *rate.Limiter
	inst    *instruments
}

func newWorker[R any](
	queue *jobQueue[R],
	tracker *completionTracker,
	logger *zap.Logger,
	limiter *rate.Limiter,
	inst *instruments,
) *worker[R] {
	return &worker[R]{queue: queue, tracker: tracker, logger: logger, limiter: limiter, inst: inst}
}

// run executes jobs until pop reports the queue is done. The job body runs
// outside any pool lock, so a task is free to submit further tasks into the
// same pool. The returned error is always nil; the errgroup signature keeps
// the join in Pool.Shutdown uniform.
func (w *worker[R]) run(ctx context.Context) error {
	for {
		j, ok := w.queue.pop()
		if !ok {
			return nil
		}
		w.inst.depth.Set(float64(w.queue.depth()))

		if w.limiter != nil {
			// The job is already owned by this worker; if the context ends
			// while paced, run it without further delay rather than drop it.
			_ = w.limiter.Wait(ctx)
		}

		started := time.Now()
		result, err := j.invoke(ctx)
		w.inst.duration.Observe(time.Since(started).Seconds())

		if j.future != nil {
			j.future.resolve(result, err)
		} else if err != nil {
			// Detached failures have no future to land in; surface them
			// through the pool logger instead of swallowing them.
			w.logger.Warn("detached task failed",
				zap.Uint64("task_id", uint64(j.id)),
				zap.Error(err),
			)
		}
		if err != nil {
			w.inst.failed.Inc()
		}
		w.inst.completed.Inc()

		// Completion is recorded only after the outcome is published, so a
		// caller woken by WaitTask always finds the future resolved.
		w.tracker.markDone(j.id)
	}
}
