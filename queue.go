package taskpool

import "sync"

// jobQueue is the shared FIFO between submitters and workers, encapsulated as
// a monitor: the slice, its mutex, and the condition variable signaling
// non-emptiness or shutdown live behind this type and are never touched
// outside its methods.
//
// The queue is unbounded, so push never waits on task execution. Dequeue
// order equals push order; each job is handed out exactly once.
type jobQueue[R any] struct {
	mu    sync.Mutex
	ready *sync.Cond
	items []*job[R]
	state queueState
}

type queueState int

const (
	queueOpen queueState = iota
	// queueDraining rejects new jobs but keeps serving the backlog (graceful).
	queueDraining
	// queueClosed rejects new jobs and stops serving the backlog (immediate).
	queueClosed
)

func newJobQueue[R any]() *jobQueue[R] {
	q := &jobQueue[R]{}
	q.ready = sync.NewCond(&q.mu)
	return q
}

// push appends the job and wakes one waiting worker. It reports false once
// shutdown has been initiated in either mode.
func (q *jobQueue[R]) push(j *job[R]) bool {
	q.mu.Lock()
	if q.state != queueOpen {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, j)
	q.mu.Unlock()
	q.ready.Signal()
	return true
}

// pop blocks until a job is available or the queue will produce no more, in
// which case it reports false and the calling worker should exit. During a
// graceful drain the backlog is still served; after an immediate close it is
// not (the coordinator disposes of leftovers via takeAll).
func (q *jobQueue[R]) pop() (*job[R], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && q.state == queueOpen {
		q.ready.Wait()
	}
	if q.state == queueClosed || len(q.items) == 0 {
		return nil, false
	}
	j := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return j, true
}

// closeGraceful stops intake and wakes all workers so they drain the backlog
// and exit once it is empty.
func (q *jobQueue[R]) closeGraceful() {
	q.mu.Lock()
	if q.state == queueOpen {
		q.state = queueDraining
	}
	q.mu.Unlock()
	q.ready.Broadcast()
}

// closeNow stops intake and dequeue, wakes all workers, and returns the jobs
// that were still queued so the caller can resolve their futures.
func (q *jobQueue[R]) closeNow() []*job[R] {
	q.mu.Lock()
	leftover := q.items
	q.items = nil
	q.state = queueClosed
	q.mu.Unlock()
	q.ready.Broadcast()
	return leftover
}

// depth returns the current backlog size.
func (q *jobQueue[R]) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
