// Package scheduler runs submitted jobs on a fixed set of worker goroutines.
package scheduler

import (
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// Job is a queued unit of work. The ID only identifies it in diagnostics.
type Job struct {
	ID  uuid.UUID
	Run func()
}

// Pool is a FIFO job queue drained by a fixed number of workers. Jobs have no
// cancellation or timeout and report their own results.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Job
	workers int
	closed  bool
	done    sync.WaitGroup
}

// New starts a pool with the given worker count; workers <= 0 uses one per CPU.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)
	p.done.Add(workers)
	for i := 0; i < workers; i++ {
		go p.loop()
	}
	return p
}

// Workers is the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Submit enqueues fn and wakes one idle worker. It panics after Close.
func (p *Pool) Submit(fn func()) uuid.UUID {
	job := Job{ID: uuid.New(), Run: fn}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("scheduler: submit on closed pool")
	}
	p.queue = append(p.queue, job)
	p.mu.Unlock()
	p.cond.Signal()
	return job.ID
}

// Pending is the number of queued jobs not yet picked up.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Close lets the workers exit once the queue is drained and waits for them.
// Calling it twice is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.done.Wait()
}

func (p *Pool) loop() {
	defer p.done.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		job := p.queue[0]
		p.queue[0] = Job{}
		p.queue = p.queue[1:]
		p.mu.Unlock()

		job.Run()
	}
}
