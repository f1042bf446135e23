// AngelaMos | 2026
// pool_test.go

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewPool(2, 16, discardLogger())

	var ran atomic.Int32
	for range 5 {
		pool.Submit(Task{
			Name: "count",
			Run: func(ctx context.Context) error {
				ran.Add(1)
				return nil
			},
		})
	}

	pool.Close()

	if got := ran.Load(); got != 5 {
		t.Fatalf("expected 5 tasks to run, got %d", got)
	}
}

func TestPoolRetriesFailedTaskOnce(t *testing.T) {
	pool := NewPool(1, 4, discardLogger())

	var attempts atomic.Int32
	pool.Submit(Task{
		Name: "flaky",
		Run: func(ctx context.Context) error {
			if attempts.Add(1) == 1 {
				return errors.New("transient")
			}
			return nil
		},
	})

	pool.Close()

	if got := attempts.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestPoolGivesUpAfterRetry(t *testing.T) {
	pool := NewPool(1, 4, discardLogger())

	var attempts atomic.Int32
	pool.Submit(Task{
		Name: "broken",
		Run: func(ctx context.Context) error {
			attempts.Add(1)
			return errors.New("permanent")
		},
	})

	pool.Close()

	if got := attempts.Load(); got != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", got)
	}
}

func TestPoolSubmitDuringCloseDoesNotPanic(t *testing.T) {
	for range 200 {
		pool := NewPool(2, 4, discardLogger())

		done := make(chan struct{})
		for range 8 {
			go func() {
				for {
					select {
					case <-done:
						return
					default:
					}
					pool.Submit(Task{
						Name: "racer",
						Run: func(ctx context.Context) error {
							return nil
						},
					})
				}
			}()
		}

		// A send racing the channel close would panic here.
		pool.Close()
		close(done)
	}
}

func TestPoolRejectsTasksAfterClose(t *testing.T) {
	pool := NewPool(1, 4, discardLogger())
	pool.Close()

	var ran atomic.Bool
	pool.Submit(Task{
		Name: "late",
		Run: func(ctx context.Context) error {
			ran.Store(true)
			return nil
		},
	})

	if ran.Load() {
		t.Fatal("task submitted after close should not run")
	}
}
