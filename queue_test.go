package taskpool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJobQueue_FIFO(t *testing.T) {
	q := newJobQueue[int]()
	for i := 1; i <= 5; i++ {
		require.True(t, q.push(&job[int]{id: TaskID(i)}))
	}
	require.Equal(t, 5, q.depth())

	for i := 1; i <= 5; i++ {
		j, ok := q.pop()
		require.True(t, ok)
		require.Equal(t, TaskID(i), j.id)
	}
	require.Equal(t, 0, q.depth())
}

func TestJobQueue_PopBlocksUntilPush(t *testing.T) {
	q := newJobQueue[int]()

	got := make(chan TaskID, 1)
	go func() {
		j, ok := q.pop()
		if ok {
			got <- j.id
		}
	}()

	select {
	case <-got:
		t.Fatal("pop returned before any push")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, q.push(&job[int]{id: 1}))

	select {
	case id := <-got:
		require.Equal(t, TaskID(1), id)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after push")
	}
}

func TestJobQueue_CloseGracefulServesBacklog(t *testing.T) {
	q := newJobQueue[int]()
	require.True(t, q.push(&job[int]{id: 1}))
	require.True(t, q.push(&job[int]{id: 2}))

	q.closeGraceful()

	require.False(t, q.push(&job[int]{id: 3}), "push must be rejected after close")

	j, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, TaskID(1), j.id)

	j, ok = q.pop()
	require.True(t, ok)
	require.Equal(t, TaskID(2), j.id)

	_, ok = q.pop()
	require.False(t, ok, "pop must report done once the backlog is drained")
}

func TestJobQueue_CloseNowReturnsBacklog(t *testing.T) {
	q := newJobQueue[int]()
	require.True(t, q.push(&job[int]{id: 1}))
	require.True(t, q.push(&job[int]{id: 2}))

	leftover := q.closeNow()
	require.Len(t, leftover, 2)
	require.Equal(t, TaskID(1), leftover[0].id)
	require.Equal(t, TaskID(2), leftover[1].id)

	_, ok := q.pop()
	require.False(t, ok)
	require.False(t, q.push(&job[int]{id: 3}))
}

func TestJobQueue_CloseWakesAllWaiters(t *testing.T) {
	q := newJobQueue[int]()

	const n = 4
	var wg sync.WaitGroup
	popped := make(chan bool, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.pop()
			popped <- ok
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.closeNow()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("blocked workers were not woken by close")
	}
	close(popped)
	for ok := range popped {
		require.False(t, ok, "pop must report done after immediate close")
	}
}

func TestJobQueue_EachJobHandedOutOnce(t *testing.T) {
	q := newJobQueue[int]()
	const n = 200
	for i := 1; i <= n; i++ {
		require.True(t, q.push(&job[int]{id: TaskID(i)}))
	}

	var mu sync.Mutex
	seen := make(map[TaskID]int, n)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				j, ok := q.pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[j.id]++
				mu.Unlock()
			}
		}()
	}

	q.closeGraceful()
	wg.Wait()

	require.Len(t, seen, n)
	for id, count := range seen {
		require.Equal(t, 1, count, "job %d dequeued %d times", id, count)
	}
}
