package taskpool

import (
	"context"
	"sync"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ygrebnov/taskpool/metrics"
)

// ShutdownMode selects the fate of queued-but-unstarted tasks on shutdown.
type ShutdownMode int

const (
	// Graceful runs every already-queued task to completion before the
	// workers exit.
	Graceful ShutdownMode = iota

	// Immediate discards queued tasks that no worker has picked up yet;
	// their futures resolve to ErrTaskNotExecuted. Tasks already executing
	// still run to completion.
	Immediate
)

func (m ShutdownMode) String() string {
	switch m {
	case Graceful:
		return "graceful"
	case Immediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// Pool executes submitted tasks on a fixed set of long-lived worker
// goroutines. It is safe for concurrent use. A Pool must be created with New;
// the zero value is not usable.
//
// Construct, use, and shut down:
//
//	p, err := taskpool.New[int](ctx, 4)
//	if err != nil { ... }
//	defer p.Close()
//
//	f, err := p.Submit(func(ctx context.Context) (int, error) { return 42, nil })
//	if err != nil { ... }
//	v, err := f.Get()
type Pool[R any] struct {
	// noCopy prevents accidental copying of the pool.
	nc noCopy

	cfg config

	ctx    context.Context
	cancel context.CancelFunc

	queue   *jobQueue[R]
	tracker *completionTracker
	inst    *instruments

	workers *errgroup.Group

	shutdownOnce sync.Once
	terminated   chan struct{}
}

// noCopy is a vet-recognized marker to discourage copying types embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a Pool with workerCount long-lived workers and starts them.
// The context is passed to every task body; cancelling it does not stop the
// pool, but tasks may observe it to stop their own work early.
func New[R any](ctx context.Context, workerCount int, opts ...Option) (*Pool[R], error) {
	if workerCount < 1 {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("", "New requires workerCount > 0"))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &Pool[R]{
		cfg:        cfg,
		queue:      newJobQueue[R](),
		tracker:    newCompletionTracker(),
		inst:       newInstruments(cfg.Metrics),
		workers:    &errgroup.Group{},
		terminated: make(chan struct{}),
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < workerCount; i++ {
		w := newWorker[R](p.queue, p.tracker, cfg.Logger, cfg.Limiter, p.inst)
		p.workers.Go(func() error { return w.run(p.ctx) })
	}

	cfg.Logger.Debug("pool started", zap.Int("workers", workerCount))
	return p, nil
}

// Submit enqueues a task and returns the Future through which its result is
// retrieved. The assigned TaskID is available via Future.ID. Submit never
// waits on task execution; it may block briefly on the queue lock. After
// shutdown has been initiated it returns ErrPoolClosed.
func (p *Pool[R]) Submit(fn Task[R]) (*Future[R], error) {
	id := p.tracker.register()
	f := newFuture[R](id)
	if !p.enqueue(&job[R]{id: id, run: fn, future: f}) {
		var zero R
		f.resolve(zero, ErrPoolClosed)
		return nil, ErrPoolClosed
	}
	return f, nil
}

// SubmitDetached enqueues a task whose return value is discarded. It returns
// the assigned TaskID, usable with WaitTask and IsCompleted. A detached
// task's failure is logged through the pool logger and counted in metrics;
// it is not observable through any handle.
func (p *Pool[R]) SubmitDetached(fn Task[R]) (TaskID, error) {
	id := p.tracker.register()
	if !p.enqueue(&job[R]{id: id, run: fn}) {
		return 0, ErrPoolClosed
	}
	return id, nil
}

// enqueue pushes the job, keeping the tracker consistent when the push loses
// the race against shutdown: the already-registered id is marked done so no
// waiter can hang on it.
func (p *Pool[R]) enqueue(j *job[R]) bool {
	if !p.queue.push(j) {
		p.tracker.markDone(j.id)
		return false
	}
	p.inst.submitted.Inc()
	p.inst.depth.Set(float64(p.queue.depth()))
	return true
}

// WaitAll blocks until every task submitted before the call has completed.
// The submitted set is snapshotted once, at entry: tasks submitted while the
// wait is in progress are not waited for. Calling WaitAll from inside a task
// running on this pool can deadlock and must be avoided.
func (p *Pool[R]) WaitAll() {
	_ = p.tracker.waitAll(context.Background())
}

// WaitAllContext behaves like WaitAll but gives up when ctx is done,
// returning ctx.Err().
func (p *Pool[R]) WaitAllContext(ctx context.Context) error {
	return p.tracker.waitAll(ctx)
}

// WaitTask blocks until the task with the given id has completed,
// independent of other tasks' state. An id of zero or one never issued
// returns immediately as a no-op.
func (p *Pool[R]) WaitTask(id TaskID) {
	_ = p.tracker.waitTask(context.Background(), id)
}

// WaitTaskContext behaves like WaitTask but gives up when ctx is done,
// returning ctx.Err().
func (p *Pool[R]) WaitTaskContext(ctx context.Context, id TaskID) error {
	return p.tracker.waitTask(ctx, id)
}

// IsCompleted reports whether the task with the given id has completed.
// Zero and never-issued ids yield false.
func (p *Pool[R]) IsCompleted(id TaskID) bool {
	return p.tracker.isCompleted(id)
}

// Stats returns the total number of tasks submitted and completed as a
// single consistent snapshot. Discarded tasks count as completed.
func (p *Pool[R]) Stats() (submitted, completed uint64) {
	return p.tracker.counts()
}

// Shutdown terminates the pool. The first call picks the mode; every call,
// including concurrent ones, returns only after all workers have exited.
//
// Graceful drains the queue first. Immediate discards queued-but-unstarted
// tasks: their futures resolve to ErrTaskNotExecuted and their ids are
// recorded as completed, so WaitAll and WaitTask never hang on them.
// Shutdown is irreversible; subsequent submissions fail with ErrPoolClosed.
func (p *Pool[R]) Shutdown(mode ShutdownMode) {
	p.shutdownOnce.Do(func() {
		p.cfg.Logger.Debug("shutdown initiated", zap.Stringer("mode", mode))

		if mode == Immediate {
			for _, j := range p.queue.closeNow() {
				if j.future != nil {
					var zero R
					j.future.resolve(zero, ErrTaskNotExecuted)
				}
				p.inst.discarded.Inc()
				p.tracker.markDone(j.id)
			}
		} else {
			p.queue.closeGraceful()
		}

		// Join every worker before declaring the pool terminated; a task
		// must never run against a pool the caller believes is gone.
		_ = p.workers.Wait()
		p.cancel()
		p.inst.depth.Set(0)

		p.cfg.Logger.Debug("pool terminated", zap.Stringer("mode", mode))
		close(p.terminated)
	})
	<-p.terminated
}

// Close shuts the pool down gracefully. It implements io.Closer so a pool
// can be released with defer on all exit paths; the returned error is
// always nil.
func (p *Pool[R]) Close() error {
	p.Shutdown(Graceful)
	return nil
}

// instruments groups the pool's metrics so workers and the submit path share
// one set of handles.
type instruments struct {
	submitted metrics.Counter
	completed metrics.Counter
	failed    metrics.Counter
	discarded metrics.Counter
	depth     metrics.Gauge
	duration  metrics.Histogram
}

func newInstruments(p metrics.Provider) *instruments {
	return &instruments{
		submitted: p.Counter("taskpool_tasks_submitted_total",
			metrics.WithHelp("Tasks accepted by Submit and SubmitDetached."), metrics.WithUnit("1")),
		completed: p.Counter("taskpool_tasks_completed_total",
			metrics.WithHelp("Tasks that finished executing, successfully or not."), metrics.WithUnit("1")),
		failed: p.Counter("taskpool_tasks_failed_total",
			metrics.WithHelp("Tasks that returned an error or panicked."), metrics.WithUnit("1")),
		discarded: p.Counter("taskpool_tasks_discarded_total",
			metrics.WithHelp("Queued tasks dropped by an immediate shutdown."), metrics.WithUnit("1")),
		depth: p.Gauge("taskpool_queue_depth",
			metrics.WithHelp("Tasks currently queued and not yet picked up."), metrics.WithUnit("1")),
		duration: p.Histogram("taskpool_task_duration_seconds",
			metrics.WithHelp("Task execution time."), metrics.WithUnit("seconds")),
	}
}
