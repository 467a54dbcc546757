// internal/common/tasks/queue.go
// Best-effort side channel: a buffered in-process task queue with
// at-most-once semantics. Enqueue never blocks the caller; when the buffer
// is full the task is dropped with a log line, and a failed task is logged,
// never retried. Primary operations must not depend on anything ran here.

package tasks

import (
	"context"
	"log"
	"sync"
	"time"
)

// Task is one unit of deferred best-effort work
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Queue runs tasks on a single background worker
type Queue struct {
	tasks   chan Task
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewQueue creates a queue with the given buffer size
func NewQueue(size int) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		tasks:   make(chan Task, size),
		timeout: 10 * time.Second,
		ctx:     ctx,
		cancel:  cancel,
	}
	q.wg.Add(1)
	return q
}

// Run consumes tasks until Stop is called. It must be called exactly once;
// Stop waits on it.
func (q *Queue) Run() {
	defer q.wg.Done()

	for {
		select {
		case task := <-q.tasks:
			q.execute(task)
		case <-q.ctx.Done():
			// Drain what is already buffered, then exit.
			for {
				select {
				case task := <-q.tasks:
					q.execute(task)
				default:
					return
				}
			}
		}
	}
}

// Enqueue submits a task; returns false when the buffer is full and the
// task was dropped.
func (q *Queue) Enqueue(name string, fn func(ctx context.Context) error) bool {
	select {
	case q.tasks <- Task{Name: name, Fn: fn}:
		return true
	default:
		log.Printf("tasks: queue full, dropping %q", name)
		return false
	}
}

// Stop shuts the worker down and waits for buffered tasks to drain
func (q *Queue) Stop() {
	q.cancel()
	q.wg.Wait()
}

func (q *Queue) execute(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	if err := task.Fn(ctx); err != nil {
		log.Printf("tasks: %q failed: %v", task.Name, err)
	}
}
