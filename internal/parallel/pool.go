// Package parallel runs independent isovist builds on a fixed set of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when work is handed to a closed pool.
var ErrClosed = errors.New("parallel: pool closed")

// Pool is a work-stealing pool of goroutines.
//
// Each worker owns a queue and falls back to stealing from the other queues
// when its own runs dry, so a few expensive viewpoints do not leave the
// remaining workers idle.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// mu is held shared while Run enqueues and exclusively while Close
	// shuts the workers down, so no job lands in a queue after its worker
	// has drained it.
	mu sync.RWMutex
}

// New starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			job()
			continue
		default:
		}

		if job := p.steal(id); job != nil {
			job()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case job := <-own:
			job()
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

// steal takes one job from another worker's queue, or returns nil.
func (p *Pool) steal(id int) func() {
	for i := 1; i < p.workers; i++ {
		select {
		case job := <-p.queues[(id+i)%p.workers]:
			return job
		default:
		}
	}
	return nil
}

// Run executes jobs and waits for all of them. Jobs are dealt round-robin
// over the worker queues.
//
// Once ctx is done, jobs that have not started are skipped and Run returns
// ctx.Err() after the running ones finish.
func (p *Pool) Run(ctx context.Context, jobs []func()) error {
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		return ErrClosed
	}
	if len(jobs) == 0 {
		p.mu.RUnlock()
		return ctx.Err()
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))

	for i, job := range jobs {
		wrapped := func() {
			defer wg.Done()
			if ctx.Err() == nil {
				job()
			}
		}

		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-ctx.Done():
			p.mu.RUnlock()
			for range len(jobs) - i {
				wg.Done()
			}
			wg.Wait()
			return ctx.Err()
		}
	}
	p.mu.RUnlock()

	wg.Wait()
	return ctx.Err()
}

// Close stops accepting work, finishes queued jobs and stops the workers.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Map applies fn to every element of in on the pool and returns the results
// in input order, regardless of completion order.
func Map[T, R any](ctx context.Context, p *Pool, in []T, fn func(T) R) ([]R, error) {
	out := make([]R, len(in))
	jobs := make([]func(), len(in))
	for i, v := range in {
		jobs[i] = func() {
			out[i] = fn(v)
		}
	}
	if err := p.Run(ctx, jobs); err != nil {
		return nil, err
	}
	return out, nil
}
