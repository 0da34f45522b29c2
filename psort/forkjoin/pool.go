// Copyright 2025 The go-psort Authors. SPDX-License-Identifier: Apache-2.0

// Package forkjoin provides a persistent, bounded worker pool for recursive
// fork-join computations. A Pool is created once and shared by any number of
// concurrent top-level computations; tasks running on it split their work
// with Fork2 and block only at the join.
//
// Usage:
//
//	pool := forkjoin.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	var walk func(xs []int) error
//	walk = func(xs []int) error {
//	    if len(xs) <= grain {
//	        return visit(xs)
//	    }
//	    mid := len(xs) / 2
//	    return pool.Fork2(
//	        func() error { return walk(xs[:mid]) },
//	        func() error { return walk(xs[mid:]) },
//	    )
//	}
//	err := pool.Submit(func() error { return walk(xs) })
//
// Inside a task, Fork2 runs two closures over disjoint data and waits for
// both. A child offered to the pool that no worker has picked up by the time
// the parent reaches the join is reclaimed and run by the parent itself, so
// a pool with a single worker never deadlocks on nested forks.
package forkjoin

import (
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sys/cpu"
)

// Task is a unit of work executed by the pool. A non-nil error is
// propagated through every enclosing Fork2 up to Submit.
type Task func() error

// Pool is a persistent worker pool that can be reused across many fork-join
// computations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan *task
	closeOnce  sync.Once
	closed     atomic.Bool
	logger     *zap.Logger

	_       cpu.CacheLinePad
	stolen  atomic.Int64
	_       cpu.CacheLinePad
	inlined atomic.Int64
	_       cpu.CacheLinePad
}

// Stats counts how the tasks offered by Fork2 were executed. Submit roots
// and ParallelFor chunks are not counted.
type Stats struct {
	// Stolen is the number of forked tasks picked up from the queue by a
	// worker.
	Stolen int64
	// Inlined is the number of tasks run by the goroutine that forked them,
	// either because the queue was full or because no worker had claimed
	// them by the time of the join.
	Inlined int64
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger used for pool lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int, opts ...Option) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC:  make(chan *task, numWorkers*2),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	for range numWorkers {
		go p.worker()
	}
	p.logger.Debug("fork-join pool started", zap.Int("workers", numWorkers))

	return p
}

var defaultPool = sync.OnceValue(func() *Pool { return New(0) })

// Default returns the process-wide pool, sized to GOMAXPROCS. It is created
// on first use and never closed.
func Default() *Pool {
	return defaultPool()
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for t := range p.workC {
		// Tasks already reclaimed by their parent are skipped.
		if t.claim() {
			if t.forked {
				p.stolen.Add(1)
			}
			t.run()
		}
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Stats returns a snapshot of the execution counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Stolen:  p.stolen.Load(),
		Inlined: p.inlined.Load(),
	}
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe. Close must not be called while a
// Submit, Fork2 or ParallelFor call is in progress.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
		st := p.Stats()
		p.logger.Debug("fork-join pool closed",
			zap.Int("workers", p.numWorkers),
			zap.Int64("stolen", st.Stolen),
			zap.Int64("inlined", st.Inlined))
	})
}

// Submit runs a root task on the pool and blocks until it, and everything it
// forked, has completed. When all workers are busy the task waits in the
// queue; it is never rejected.
//
// Submit is meant for callers outside the pool. Tasks already running on
// the pool should use Fork2 instead.
func (p *Pool) Submit(fn Task) error {
	if p.closed.Load() {
		// Fallback to sequential if pool is closed
		return safeRun(fn)
	}

	t := newTask(fn)
	p.workC <- t
	<-t.done
	return t.err
}

// Fork2 runs a and b concurrently and returns once both have finished.
// The returned error is the first one produced by either task, or nil.
//
// b always runs on the calling goroutine. a is offered to the pool; if the
// queue is full, or if no worker has started a by the time b finishes, the
// caller runs a itself.
func (p *Pool) Fork2(a, b Task) error {
	if p.closed.Load() {
		errA := safeRun(a)
		errB := safeRun(b)
		if errA != nil {
			return errA
		}
		return errB
	}

	var first firstError
	ta := newForkedTask(func() error {
		return first.record(a())
	})

	offered := false
	select {
	case p.workC <- ta:
		offered = true
	default:
	}

	first.record(safeRun(b))

	if !offered || ta.claim() {
		p.inlined.Add(1)
		ta.run()
	} else {
		<-ta.done
	}
	if ta.err != nil {
		// Panics are recovered outside the recording closure.
		first.record(ta.err)
	}

	return first.get()
}

// ParallelFor executes fn for each index in [0, n) using the worker pool.
// Each worker processes a contiguous range of indices.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
// If fn panics on a worker, the panic is re-raised on the caller as a
// *PanicError once every chunk has returned.
// ParallelFor must not be called from a task running on the same pool.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	// Calculate chunk size (ensure all items are covered)
	chunkSize := (n + workers - 1) / workers

	var (
		wg    sync.WaitGroup
		first firstError
	)
	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			continue
		}

		wg.Add(1)
		p.workC <- newTask(func() error {
			defer wg.Done()
			return first.record(safeRun(func() error {
				fn(start, end)
				return nil
			}))
		})
	}

	wg.Wait()
	if err := first.get(); err != nil {
		panic(err)
	}
}

// ParallelForAtomicBatched executes fn for batches of indices using atomic
// work stealing. Combines the load balancing of atomic distribution with
// reduced atomic operation overhead by processing multiple items per grab.
//
// fn receives (start, end) indices where work should process [start, end).
// batchSize controls how many items are grabbed per atomic operation.
// A panic in fn stops the worker that raised it and is re-raised on the
// caller as a *PanicError after the remaining batches finish.
// ParallelForAtomicBatched must not be called from a task running on the
// same pool.
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if batchSize <= 0 {
		batchSize = 1
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	numBatches := (n + batchSize - 1) / batchSize
	workers := min(p.numWorkers, numBatches)
	if workers == 1 {
		fn(0, n)
		return
	}

	var (
		nextBatch atomic.Int64
		wg        sync.WaitGroup
		first     firstError
	)
	wg.Add(workers)

	for range workers {
		p.workC <- newTask(func() error {
			defer wg.Done()
			return first.record(safeRun(func() error {
				for {
					batch := int(nextBatch.Add(1)) - 1
					start := batch * batchSize
					if start >= n {
						return nil
					}
					fn(start, min(start+batchSize, n))
				}
			}))
		})
	}

	wg.Wait()
	if err := first.get(); err != nil {
		panic(err)
	}
}
