// Package graph implements the executor that assigns priorities to a
// submitted set of nodes by reachability and drives them through a
// worker pool.
package graph

import (
	"context"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taskweave-go/taskweave"
	"github.com/taskweave-go/taskweave/internal/events"
	"github.com/taskweave-go/taskweave/pool"
)

// Option configures an Executor at construction time.
type Option func(*Executor)

// WithWorkers sets the worker pool size the executor lazily creates.
// Without this option the executor uses runtime.NumCPU(), the
// hardware-parallelism hint the protocol calls for.
func WithWorkers(n int) Option {
	return func(e *Executor) { e.workers = n }
}

// WithLogger overrides the executor's (and its owned pool's) logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEvents attaches a bus that the executor publishes node and pool
// lifecycle events to. Without this option the executor emits nothing.
func WithEvents(bus *events.EventBus) Option {
	return func(e *Executor) { e.bus = bus }
}

// Executor accepts a set of nodes, assigns each a priority equal to
// its reachability, sorts by ascending priority, and submits them to
// an owned worker pool.
type Executor struct {
	workers int
	logger  *log.Logger
	bus     *events.EventBus

	mu      sync.Mutex
	pool    *pool.Pool
	started bool
}

// New constructs an Executor. The worker pool itself is created
// lazily on the first call to Run.
func New(opts ...Option) *Executor {
	e := &Executor{logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run computes reachability across the whole node set, sorts it
// ascending, and submits each node's Execute as a closure to the
// executor's worker pool, starting the pool on the first call. Later
// calls on the same Executor reuse the already-running pool. An empty
// node set is a valid no-op submission.
func (e *Executor) Run(nodes ...taskweave.Node) {
	e.mu.Lock()
	if e.pool == nil {
		workers := e.workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		e.pool = pool.New(
			pool.WithWorkers(workers),
			pool.WithLogger(e.logger),
			pool.WithOnQuiescent(e.publishQuiescent),
		)
	}
	p := e.pool
	e.mu.Unlock()

	if len(nodes) > 0 {
		// Each root's walk runs in its own goroutine; VisitedSet.claim
		// makes the first walker to reach a shared ancestor its sole
		// computer and blocks every other walker on that ancestor's
		// result, so a node reachable from more than one root is never
		// read before its reachability is finalized.
		visited := taskweave.NewVisitedSet()
		g, _ := errgroup.WithContext(context.Background())
		for _, n := range nodes {
			n := n
			g.Go(func() error {
				n.ComputeReachability(visited)
				return nil
			})
		}
		_ = g.Wait()

		sorted := make([]taskweave.Node, len(nodes))
		copy(sorted, nodes)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Reachability() < sorted[j].Reachability()
		})

		for _, n := range sorted {
			n := n
			p.Submit(func() { e.runNode(n) })
		}
	}

	e.mu.Lock()
	if !e.started {
		p.Start()
		e.started = true
	}
	e.mu.Unlock()
}

func (e *Executor) runNode(n taskweave.Node) {
	if e.bus != nil {
		e.bus.Publish(events.TopicNode, events.NodeStartedEvent{
			ID:           n.ID(),
			Reachability: n.Reachability(),
			Timestamp:    time.Now(),
		})
	}
	n.Execute()
	if e.bus != nil {
		e.bus.Publish(events.TopicNode, events.NodeCompletedEvent{
			ID:        n.ID(),
			Duration:  n.EndedAt().Sub(n.StartedAt()),
			Timestamp: time.Now(),
		})
	}
}

func (e *Executor) publishQuiescent() {
	if e.bus != nil {
		e.bus.Publish(events.TopicPool, events.PoolQuiescentEvent{Timestamp: time.Now()})
	}
}

// Wait blocks until every submitted node has finished running.
func (e *Executor) Wait() {
	e.mu.Lock()
	p := e.pool
	e.mu.Unlock()
	if p != nil {
		p.Wait()
	}
}

// Cancel drops queued-but-not-yet-dispatched nodes. Nodes already
// dispatched but blocked awaiting an input edge whose producer was
// itself cancelled block forever; no downstream notification is sent.
// Close joins the pool's workers, so it also blocks while such a node
// is stuck.
func (e *Executor) Cancel() {
	e.mu.Lock()
	p := e.pool
	e.mu.Unlock()
	if p != nil {
		p.CancelQueued()
	}
}

// Close shuts down the owned worker pool, joining its workers.
func (e *Executor) Close() {
	e.mu.Lock()
	p := e.pool
	e.mu.Unlock()
	if p != nil {
		p.Close()
	}
}
