package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
)

// =============================================================================
// WorkerPool Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	if want := runtime.GOMAXPROCS(0); pool.Workers() != want {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), want)
	}
}

func TestWorkerPool_Run(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		pool := NewWorkerPool(workers)

		const n = 500
		var hits [n]atomic.Int32
		pool.Run(n, func(i int) { hits[i].Add(1) })

		for i := range n {
			if got := hits[i].Load(); got != 1 {
				t.Errorf("workers=%d: index %d ran %d times, want 1", workers, i, got)
			}
		}
		pool.Close()
	}
}

func TestWorkerPool_CloseIdempotentAndInline(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("IsRunning() after Close = true")
	}

	// A closed pool still completes batches on the caller's goroutine.
	var counter atomic.Int64
	pool.Run(10, func(int) { counter.Add(1) })
	if counter.Load() != 10 {
		t.Errorf("counter = %d, want 10", counter.Load())
	}
}
