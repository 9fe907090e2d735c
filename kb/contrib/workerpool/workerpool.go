// Copyright 2025 The kernelbench Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent fork-join worker pool for the
// parallel kernels. A Pool is created once per benchmark run and reused for
// every problem size, so spawn cost never lands inside a timed region.
//
// Every ParallelFor* call blocks until all of its work is done. The
// worker-aware forms hand each callback a worker id in [0, NumWorkers());
// ids are never shared by two callbacks running at the same time, so a
// kernel can index per-worker scratch state by id without locking.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	scratch := make([][]float64, pool.NumWorkers())
//	pool.ParallelForAtomicWorkers(numTiles, func(worker, tile int) {
//	    computeTile(tile, scratch[worker])
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
//
// A nil *Pool is valid and runs everything sequentially on worker 0.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool, 1 for a nil pool.
func (p *Pool) NumWorkers() int {
	if p == nil {
		return 1
	}
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// sequential reports whether work must run on the calling goroutine.
func (p *Pool) sequential() bool {
	return p == nil || p.closed.Load()
}

// ParallelFor executes fn for each index in [0, n) using the worker pool.
// Each worker processes one contiguous range of indices.
// Blocks until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	p.ParallelForWorkers(n, func(_, start, end int) {
		fn(start, end)
	})
}

// ParallelForWorkers is ParallelFor with the worker id passed to fn. The
// range [0, n) is split into at most NumWorkers() contiguous chunks and the
// chunk number is the worker id (static scheduling).
func (p *Pool) ParallelForWorkers(n int, fn func(worker, start, end int)) {
	if n <= 0 {
		return
	}

	if p.sequential() {
		fn(0, 0, n)
		return
	}

	// Don't use more workers than items
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, 0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			// No work for this worker
			wg.Done()
			continue
		}

		p.workC <- workItem{
			fn: func() {
				fn(i, start, end)
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing. This provides better load balancing when work per item varies.
// Blocks until all work completes.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	p.ParallelForAtomicWorkers(n, func(_, i int) {
		fn(i)
	})
}

// ParallelForAtomicWorkers is ParallelForAtomic with the id of the worker
// running each index passed to fn (dynamic scheduling).
func (p *Pool) ParallelForAtomicWorkers(n int, fn func(worker, i int)) {
	if n <= 0 {
		return
	}

	if p.sequential() {
		for i := range n {
			fn(0, i)
		}
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		for i := range n {
			fn(0, i)
		}
		return
	}

	var nextIdx atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					fn(w, idx)
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}

// ParallelForAtomicBatched executes fn for batches of indices using atomic
// work stealing. Combines the load balancing of atomic distribution with
// reduced atomic operation overhead by processing multiple items per grab.
//
// fn receives (start, end) indices where work should process [start, end).
// batchSize controls how many items are grabbed per atomic operation.
func (p *Pool) ParallelForAtomicBatched(n int, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if batchSize <= 0 {
		batchSize = 1
	}

	numBatches := (n + batchSize - 1) / batchSize
	p.ParallelForAtomicWorkers(numBatches, func(_, batch int) {
		start := batch * batchSize
		fn(start, min(start+batchSize, n))
	})
}
