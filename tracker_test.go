package taskpool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTracker_RegisterAssignsIncreasingIDs(t *testing.T) {
	tr := newCompletionTracker()
	for want := TaskID(1); want <= 5; want++ {
		require.Equal(t, want, tr.register())
	}
}

func TestTracker_RegisterConcurrentIDsDistinct(t *testing.T) {
	tr := newCompletionTracker()

	const n = 500
	ids := make(chan TaskID, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- tr.register()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[TaskID]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "id %d assigned twice", id)
		seen[id] = struct{}{}
	}
	require.Len(t, seen, n)
}

func TestTracker_IsCompleted(t *testing.T) {
	tr := newCompletionTracker()
	id := tr.register()

	require.False(t, tr.isCompleted(0), "zero id is never completed")
	require.False(t, tr.isCompleted(id))
	require.False(t, tr.isCompleted(99), "never-issued id is never completed")

	tr.markDone(id)
	require.True(t, tr.isCompleted(id))
}

func TestTracker_OutOfOrderCompletion(t *testing.T) {
	tr := newCompletionTracker()
	for range 3 {
		tr.register()
	}

	tr.markDone(3)
	require.True(t, tr.isCompleted(3))
	require.False(t, tr.isCompleted(1))
	require.False(t, tr.isCompleted(2))

	tr.markDone(1)
	tr.markDone(2)
	require.True(t, tr.isCompleted(1))
	require.True(t, tr.isCompleted(2))

	_, completed := tr.counts()
	require.Equal(t, uint64(3), completed)
}

func TestTracker_MarkDoneIgnoresDuplicates(t *testing.T) {
	tr := newCompletionTracker()
	tr.register()
	tr.register()

	tr.markDone(2)
	tr.markDone(2)
	tr.markDone(1)
	tr.markDone(1)

	_, completed := tr.counts()
	require.Equal(t, uint64(2), completed)
}

func TestTracker_WaitTaskInvalidIDIsNoOp(t *testing.T) {
	tr := newCompletionTracker()
	tr.register()

	start := time.Now()
	require.NoError(t, tr.waitTask(context.Background(), 0))
	require.NoError(t, tr.waitTask(context.Background(), 42))
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestTracker_WaitTaskBlocksForSpecificID(t *testing.T) {
	tr := newCompletionTracker()
	for range 3 {
		tr.register()
	}

	released := make(chan struct{})
	go func() {
		_ = tr.waitTask(context.Background(), 2)
		close(released)
	}()

	tr.markDone(1)
	tr.markDone(3)
	select {
	case <-released:
		t.Fatal("waitTask(2) returned before task 2 completed")
	case <-time.After(30 * time.Millisecond):
	}

	tr.markDone(2)
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("waitTask(2) did not return after task 2 completed")
	}
}

func TestTracker_WaitAllSnapshotsAtEntry(t *testing.T) {
	tr := newCompletionTracker()
	tr.register()
	tr.register()

	released := make(chan struct{})
	go func() {
		_ = tr.waitAll(context.Background())
		close(released)
	}()

	time.Sleep(10 * time.Millisecond)

	// A task registered after the wait started must not extend the wait.
	late := tr.register()

	tr.markDone(1)
	tr.markDone(2)

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("waitAll did not return after the snapshotted tasks completed")
	}
	require.False(t, tr.isCompleted(late))
}

func TestTracker_WaitAllContextCancellation(t *testing.T) {
	tr := newCompletionTracker()
	tr.register()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, tr.waitAll(ctx), context.DeadlineExceeded)
}

func TestTracker_WaitAllEmptyReturnsImmediately(t *testing.T) {
	tr := newCompletionTracker()
	require.NoError(t, tr.waitAll(context.Background()))
}

func TestTracker_ConcurrentMarking(t *testing.T) {
	tr := newCompletionTracker()

	const n = 300
	for range n {
		tr.register()
	}

	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id TaskID) {
			defer wg.Done()
			tr.markDone(id)
		}(TaskID(i))
	}

	done := make(chan struct{})
	go func() {
		_ = tr.waitAll(context.Background())
		close(done)
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waitAll lost a wakeup under concurrent completion")
	}

	submitted, completed := tr.counts()
	require.Equal(t, uint64(n), submitted)
	require.Equal(t, uint64(n), completed)
}
