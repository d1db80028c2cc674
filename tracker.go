package taskpool

import (
	"context"
	"sync"
)

// completionTracker is the shared registry recording which tasks have
// finished. Workers are the writers; any goroutine blocked in a wait
// operation is a reader. It owns its own lock, distinct from the queue's, so
// a long wait never delays submissions.
//
// Completed ids are stored compactly: contiguous completions from id 1 up to
// `contiguous` are implied, out-of-order completions above that sit in
// `sparse` until the gap below them closes. Waiters park on `changed`, a
// generation channel closed and replaced on every completion, so a wakeup is
// never lost between the predicate check and the wait.
type completionTracker struct {
	mu sync.Mutex

	lastID     TaskID // highest id ever assigned
	doneCount  uint64
	contiguous TaskID // every id in [1, contiguous] has completed
	sparse     map[TaskID]struct{}

	changed chan struct{}
}

func newCompletionTracker() *completionTracker {
	return &completionTracker{
		sparse:  make(map[TaskID]struct{}),
		changed: make(chan struct{}),
	}
}

// register assigns the next task id and counts it as submitted.
func (t *completionTracker) register() TaskID {
	t.mu.Lock()
	t.lastID++
	id := t.lastID
	t.mu.Unlock()
	return id
}

// markDone records the completion of id and wakes every waiter. Counter
// update and notification happen under the same lock acquisition, so a waiter
// that observed the old state is guaranteed to see the generation change.
func (t *completionTracker) markDone(id TaskID) {
	t.mu.Lock()
	if id <= t.contiguous {
		// Double completion would break the exactly-once invariant upstream.
		t.mu.Unlock()
		return
	}
	if _, dup := t.sparse[id]; dup {
		t.mu.Unlock()
		return
	}
	t.sparse[id] = struct{}{}
	t.doneCount++
	for {
		if _, ok := t.sparse[t.contiguous+1]; !ok {
			break
		}
		delete(t.sparse, t.contiguous+1)
		t.contiguous++
	}
	ch := t.changed
	t.changed = make(chan struct{})
	t.mu.Unlock()
	close(ch)
}

// completedLocked reports whether id has finished. Caller holds t.mu.
func (t *completionTracker) completedLocked(id TaskID) bool {
	if id <= t.contiguous {
		return true
	}
	_, ok := t.sparse[id]
	return ok
}

// isCompleted reports whether the task with the given id has finished.
// Zero and never-issued ids yield false.
func (t *completionTracker) isCompleted(id TaskID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == 0 || id > t.lastID {
		return false
	}
	return t.completedLocked(id)
}

// waitAll blocks until every task submitted before the call has completed.
// The submitted set is snapshotted once, at entry: tasks submitted while the
// wait is in progress are not waited for.
func (t *completionTracker) waitAll(ctx context.Context) error {
	t.mu.Lock()
	target := t.lastID
	for t.contiguous < target {
		ch := t.changed
		t.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		t.mu.Lock()
	}
	t.mu.Unlock()
	return nil
}

// waitTask blocks until the task with the given id has completed. Zero and
// never-issued ids return immediately as a no-op.
func (t *completionTracker) waitTask(ctx context.Context, id TaskID) error {
	t.mu.Lock()
	if id == 0 || id > t.lastID {
		t.mu.Unlock()
		return nil
	}
	for !t.completedLocked(id) {
		ch := t.changed
		t.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		t.mu.Lock()
	}
	t.mu.Unlock()
	return nil
}

// counts returns the total submitted and completed task counts as a single
// consistent snapshot.
func (t *completionTracker) counts() (submitted, completed uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return uint64(t.lastID), t.doneCount
}
