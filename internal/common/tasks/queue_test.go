// internal/common/tasks/queue_test.go

package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasks(t *testing.T) {
	q := NewQueue(8)
	go q.Run()

	var ran int64
	done := make(chan struct{})
	ok := q.Enqueue("test", func(ctx context.Context) error {
		atomic.AddInt64(&ran, 1)
		close(done)
		return nil
	})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	q.Stop()
	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	// No worker running, so the buffer fills and stays full.
	q := NewQueue(1)

	require.True(t, q.Enqueue("first", func(ctx context.Context) error { return nil }))
	assert.False(t, q.Enqueue("second", func(ctx context.Context) error { return nil }))
}

func TestFailedTaskDoesNotStopWorker(t *testing.T) {
	q := NewQueue(8)
	go q.Run()

	q.Enqueue("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})

	done := make(chan struct{})
	q.Enqueue("next", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker stopped after a failed task")
	}
	q.Stop()
}

func TestStopDrainsBufferedTasks(t *testing.T) {
	q := NewQueue(8)

	var ran int64
	for i := 0; i < 5; i++ {
		q.Enqueue("buffered", func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}

	go q.Run()
	q.Stop()

	assert.Equal(t, int64(5), atomic.LoadInt64(&ran))
}
