// Package parallel runs pixel work across a fixed set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool feeds work items from one shared queue to a fixed number of
// goroutines. Output never depends on which worker ran an item, so there
// is no affinity between items and workers.
//
// WorkerPool is safe for concurrent use; several renders or stages may
// call ExecuteAll at once. ExecuteAll must not be called from inside a work
// item.
type WorkerPool struct {
	workers int
	jobs    chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu orders submissions before Close: ExecuteAll holds it shared while
	// queueing, Close holds it exclusively while stopping.
	mu      sync.RWMutex
	running bool
}

// NewWorkerPool starts a pool with the given number of workers. workers <= 0
// uses GOMAXPROCS.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		jobs:    make(chan func(), max(4*workers, 16)),
		done:    make(chan struct{}),
		running: true,
	}
	p.wg.Add(workers)
	for range workers {
		go p.loop()
	}
	return p
}

func (p *WorkerPool) loop() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.done:
			// Finish whatever was queued before Close.
			for {
				select {
				case job := <-p.jobs:
					job()
				default:
					return
				}
			}
		}
	}
}

// ExecuteAll runs every item and returns when all have finished. On a
// closed pool the items run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		for _, fn := range work {
			fn()
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(work))
	for _, fn := range work {
		p.jobs <- func() {
			defer wg.Done()
			fn()
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Close stops the workers once queued work has run. It is idempotent.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}
