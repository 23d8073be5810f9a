package taskweave

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Node is a vertex in the dataflow graph: it owns one outward edge,
// holds references to zero or more inward edges, and can compute its
// own reachability (longest-path depth to any source).
type Node interface {
	ID() uuid.UUID

	// Reachability returns the cached depth. Valid only after
	// ComputeReachability has run over the full submitted set.
	Reachability() int

	// ComputeReachability recurses into this node's inward-edge
	// producers (unless already claimed in visited), then sets this
	// node's depth to one more than the max of its parents' depths,
	// an unattached slot counting as a depth-zero parent, or zero if
	// it declares no inputs.
	ComputeReachability(visited *VisitedSet)

	// Execute runs the node's callable per the execute protocol.
	Execute()

	State() State

	// StartedAt and EndedAt report the node's recorded execution
	// timestamps, zero until reached.
	StartedAt() time.Time
	EndedAt() time.Time

	// InwardCount returns the declared arity: the length of In.
	InwardCount() int

	// InwardEdges returns a length-InwardCount() positional snapshot of
	// this node's inward edges, with a nil entry for any unattached
	// slot.
	InwardEdges() []EdgeHandle

	// WaitForCompletion blocks until the node's state is Complete.
	WaitForCompletion()
}

// EdgeHandle is the type-erased view of an *Edge[T] that InwardEdges
// exposes, since a Node's inward edges can each carry a different T.
type EdgeHandle interface {
	Owner() Node
	IsRetrievable() bool
}

// VisitedSet dedupes reachability walks across a submitted set: a node
// reachable from more than one root must only be computed once, and
// every other walker that reaches it must observe the finished value,
// never a zero or partially-written one. A plain "seen" set cannot give
// that guarantee across concurrent walkers, since marking seen and
// storing the computed value are two separate steps; VisitedSet closes
// that gap by making the first caller for a given node the sole owner
// of computing it, and blocking every later caller until that owner is
// done.
type VisitedSet struct {
	mu     sync.Mutex
	claims map[Node]chan struct{}
}

// NewVisitedSet returns an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{claims: make(map[Node]chan struct{})}
}

// claim reports whether the caller is the first to reach n. The first
// caller gets owns=true and must close the returned channel once it has
// stored n's reachability value. Every later caller gets owns=false and
// must wait on the returned channel before reading n.Reachability();
// the channel close happens-after the owner's store, so the wait
// establishes the "claimed ⇒ value finalized" ordering for readers.
func (v *VisitedSet) claim(n Node) (done chan struct{}, owns bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ch, ok := v.claims[n]; ok {
		return ch, false
	}
	ch := make(chan struct{})
	v.claims[n] = ch
	return ch, true
}
