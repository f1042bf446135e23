// AngelaMos | 2026
// pool.go

package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a named unit of deferred work. Tasks must be safe to run more
// than once: delivery is at least once, and a failed task is retried a
// single time before being dropped.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

type Pool struct {
	tasks   chan Task
	logger  *slog.Logger
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	timeout time.Duration
}

func NewPool(concurrency, queueSize int, logger *slog.Logger) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 64
	}

	p := &Pool{
		tasks:   make(chan Task, queueSize),
		logger:  logger,
		timeout: 30 * time.Second,
	}

	for range concurrency {
		p.wg.Add(1)
		go p.work()
	}

	return p
}

// Submit queues a task without blocking the request path. When the queue
// is full the task is dropped and logged; every task submitted here is
// tolerant of loss by contract (view counts, audit log entries).
func (p *Pool) Submit(task Task) {
	// The send happens under the same lock as the closed check, and Close
	// holds the lock while closing the channel. A non-blocking send keeps
	// the critical section bounded.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.logger.Warn("task submitted after shutdown", "task", task.Name)
		return
	}

	select {
	case p.tasks <- task:
	default:
		p.logger.Warn("task queue full, dropping task", "task", task.Name)
	}
}

func (p *Pool) work() {
	defer p.wg.Done()

	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := task.Run(ctx)
	if err == nil {
		return
	}

	p.logger.Warn("task failed, retrying once",
		"task", task.Name,
		"error", err,
	)

	if err := task.Run(ctx); err != nil {
		p.logger.Error("task failed after retry, dropping",
			"task", task.Name,
			"error", err,
		)
	}
}

// Close stops accepting tasks and waits for queued work to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
