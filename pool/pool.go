// Package pool implements the fixed-size worker pool that drains a
// FIFO closure queue, tracks outstanding work, and supports wait,
// cancellation of queued work, and a one-shot quiescence callback.
package pool

import (
	"log"
	"runtime"
	"sync"
)

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithWorkers sets the number of worker goroutines. The default is
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger overrides the pool's logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithOnQuiescent registers a callback fired exactly once each time
// the outstanding-work counter returns to zero after having been
// positive. Never fired by an empty submit cycle.
func WithOnQuiescent(fn func()) Option {
	return func(p *Pool) { p.onQuiescent = fn }
}

// Pool runs a fixed number of worker goroutines over a shared FIFO
// queue. The zero value is not usable; construct with New.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond // woken when the queue gains work or shutdown begins
	waitCond *sync.Cond // woken whenever outstanding reaches zero

	queue        []func()
	outstanding  int64
	shuttingDown bool

	workers int
	wg      sync.WaitGroup

	onQuiescent func()
	logger      *log.Logger
}

// New constructs a Pool. Call Start to spawn workers.
func New(opts ...Option) *Pool {
	p := &Pool{
		workers: runtime.NumCPU(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cond = sync.NewCond(&p.mu)
	p.waitCond = sync.NewCond(&p.mu)
	return p
}

// Submit enqueues f. Returns false without enqueuing if f is nil.
// Thread-safe against other submitters and against running workers.
func (p *Pool) Submit(f func()) bool {
	if f == nil {
		return false
	}
	p.mu.Lock()
	p.queue = append(p.queue, f)
	p.outstanding++
	p.mu.Unlock()
	p.cond.Signal()
	return true
}

// Start spawns the configured worker count. Call once after
// construction, before any submitted work needs to run; repeated
// calls are not guaranteed safe.
func (p *Pool) Start() {
	p.logger.Printf("pool: starting %d workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runWorker()
	}
}

func (p *Pool) runWorker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.shuttingDown {
			p.cond.Wait()
		}
		if p.shuttingDown {
			p.mu.Unlock()
			return
		}
		f := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		f()

		p.mu.Lock()
		p.outstanding--
		zero := p.outstanding == 0
		p.mu.Unlock()
		if zero {
			if p.onQuiescent != nil {
				p.onQuiescent()
			}
			p.waitCond.Broadcast()
		}
	}
}

// CancelQueued discards every queued closure and decrements
// outstanding by the discarded count. Closures already running are
// unaffected. Does not fire the quiescence callback: only a
// worker-driven zero crossing does that.
func (p *Pool) CancelQueued() {
	p.mu.Lock()
	n := len(p.queue)
	p.queue = nil
	p.outstanding -= int64(n)
	zero := p.outstanding == 0
	p.mu.Unlock()
	if zero {
		p.waitCond.Broadcast()
	}
}

// Wait blocks until outstanding work reaches zero. Safe to call
// concurrently with submits, in which case the caller observes some
// quiescent moment rather than an end-of-life guarantee.
func (p *Pool) Wait() {
	p.mu.Lock()
	for p.outstanding != 0 {
		p.waitCond.Wait()
	}
	p.mu.Unlock()
}

// IsIdle is a non-blocking read of outstanding == 0; it may be stale
// immediately.
func (p *Pool) IsIdle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstanding == 0
}

// QueuedCount returns the number of closures waiting in the queue,
// not counting those currently running.
func (p *Pool) QueuedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// IsEmpty reports whether the queue is currently empty.
func (p *Pool) IsEmpty() bool {
	return p.QueuedCount() == 0
}

// WorkerCount returns the configured worker count.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// Close sets the shutdown flag, wakes every worker, and joins them.
// Workers exit as soon as they observe shutdown, even with closures
// still queued: those closures do not run. A closure already running
// when Close is called completes normally. Close does not deadlock
// even if Wait was never called; intended to be deferred right after
// construction.
func (p *Pool) Close() {
	p.mu.Lock()
	p.shuttingDown = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
	p.logger.Printf("pool: closed")
}
