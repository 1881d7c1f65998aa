package parallel

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines that execute fork-join batches.
//
// Each worker owns a job channel. A batch is distributed round-robin across
// the channels; a worker whose channel is empty steals from its neighbours
// before blocking, so a few expensive tiles do not serialize the frame.
//
// Thread safety: WorkerPool is safe for concurrent use, but batches from
// different goroutines share the same workers.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	log     *slog.Logger
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	return newWorkerPool(workers, nil)
}

// newWorkerPool starts a pool that logs to l, or to the package logger when
// l is nil.
func newWorkerPool(workers int, l *slog.Logger) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
		log:     l,
	}
	for i := range workers {
		p.queues[i] = make(chan func(), max(8, workers*4))
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	p.logger().Debug("parallel: worker pool started", "workers", workers)
	return p
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case job := <-own:
			job()
			continue
		case <-p.done:
			drain(own)
			return
		default:
		}

		if job := p.steal(id); job != nil {
			job()
			continue
		}

		select {
		case job := <-own:
			job()
		case <-p.done:
			drain(own)
			return
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case job := <-q:
			job()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for k := 1; k < p.workers; k++ {
		select {
		case job := <-p.queues[(id+k)%p.workers]:
			return job
		default:
		}
	}
	return nil
}

// Run calls fn(i) for every i in [0, n) across the workers and returns once
// all calls have finished. On a closed pool the calls run on the caller's
// goroutine.
func (p *WorkerPool) Run(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if !p.running.Load() || p.workers == 1 || n == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		job := func() {
			defer wg.Done()
			fn(i)
		}
		select {
		case p.queues[i%p.workers] <- job:
		case <-p.done:
			job()
		}
	}
	wg.Wait()
}

// Close stops the workers after the queued jobs have run.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true until Close is called.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

func (p *WorkerPool) logger() *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return slogger()
}
