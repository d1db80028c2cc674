// Package taskpool provides a bounded, fixed-size worker pool: a small set of
// long-lived workers executing independently submitted tasks, with per-task
// futures, completion tracking, and two shutdown modes.
//
// Submission
//   - Submit(fn) returns a Future for the task's outcome; the task id is
//     available via Future.ID.
//   - SubmitDetached(fn) returns only the task id; the result is discarded
//     and a failure is logged through the pool logger.
//
// Both never wait on task execution; the queue is unbounded and submission
// blocks only briefly on the queue lock.
//
// Results
// A Future resolves exactly once: with the task's value, with its error or
// panic (wrapped in ErrTaskPanicked), or with ErrTaskNotExecuted when an
// immediate shutdown discards the task before any worker picks it up. Get
// blocks; GetContext bounds the wait; TryGet and Ready poll.
//
// Completion
//   - WaitAll blocks until every task submitted before the call completed.
//     The snapshot is taken once, at entry; tasks submitted during the wait
//     are not included.
//   - WaitTask(id) blocks until that specific task completed; ids never
//     issued (including zero) are a no-op.
//   - IsCompleted(id) is the non-blocking predicate.
//
// Do not call WaitAll from inside a task running on the same pool: if every
// worker does so, nothing can finish and the pool deadlocks. A task may
// freely Submit further tasks; execution holds no pool lock.
//
// Shutdown
// Shutdown(Graceful) runs the entire backlog before workers exit;
// Shutdown(Immediate) discards queued-but-unstarted tasks and resolves their
// futures to ErrTaskNotExecuted. Both join every worker before returning.
// Close is Shutdown(Graceful) behind io.Closer, for use with defer.
//
// Ordering
// Tasks submitted from one goroutine are dequeued in submission order (FIFO);
// completion order across tasks is unspecified.
//
// Observability is optional: WithLogger installs a zap logger (default nop),
// WithMetrics an instrument provider from the metrics subpackage (default
// nop, with in-memory and Prometheus-backed implementations available).
package taskpool
