package taskweave

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Node0 is a node with no declared inputs: a source of the DAG.
// Its reachability is always zero.
type Node0[Out any] struct {
	*executionState
	id      uuid.UUID
	outward *Edge[Out]
	fn      func() Out
}

// NewNode0 constructs a zero-input node around fn.
func NewNode0[Out any](fn func() Out) *Node0[Out] {
	n := &Node0[Out]{executionState: newExecutionState(), id: uuid.New(), fn: fn}
	n.outward = NewEdge[Out](n)
	return n
}

func (n *Node0[Out]) ID() uuid.UUID      { return n.id }
func (n *Node0[Out]) Outward() *Edge[Out] { return n.outward }
func (n *Node0[Out]) Result() (Out, bool) { return n.outward.TryPeek() }

// Reachability is always zero for a node with no declared inputs.
func (n *Node0[Out]) Reachability() int { return 0 }

// InwardCount is always zero: Node0 declares no inputs.
func (n *Node0[Out]) InwardCount() int { return 0 }

// InwardEdges is always empty: Node0 declares no inputs.
func (n *Node0[Out]) InwardEdges() []EdgeHandle { return []EdgeHandle{} }

func (n *Node0[Out]) ComputeReachability(visited *VisitedSet) {
	done, owns := visited.claim(n)
	if !owns {
		<-done
		return
	}
	close(done)
}

func (n *Node0[Out]) Execute() {
	n.markRunning()
	result := n.fn()
	n.markEnded()
	n.outward.Produce(result)
	n.markComplete()
}

// Node1 is a node with one declared input.
type Node1[Out, I0 any] struct {
	*executionState
	id           uuid.UUID
	outward      *Edge[Out]
	in0          *Edge[I0]
	reachability atomic.Int64
	fn           func(I0) Out
}

// NewNode1 constructs a one-input node around fn.
func NewNode1[Out, I0 any](fn func(I0) Out) *Node1[Out, I0] {
	n := &Node1[Out, I0]{executionState: newExecutionState(), id: uuid.New(), fn: fn}
	n.outward = NewEdge[Out](n)
	return n
}

func (n *Node1[Out, I0]) ID() uuid.UUID       { return n.id }
func (n *Node1[Out, I0]) Outward() *Edge[Out]  { return n.outward }
func (n *Node1[Out, I0]) Result() (Out, bool)  { return n.outward.TryPeek() }

// AttachInput0 wires edge into the sole input slot.
func (n *Node1[Out, I0]) AttachInput0(edge *Edge[I0]) { n.in0 = edge }

func (n *Node1[Out, I0]) Reachability() int { return int(n.reachability.Load()) }

// InwardCount is always one: Node1 declares exactly one input.
func (n *Node1[Out, I0]) InwardCount() int { return 1 }

// InwardEdges returns the sole input slot, nil if unattached.
func (n *Node1[Out, I0]) InwardEdges() []EdgeHandle {
	if n.in0 == nil {
		return []EdgeHandle{nil}
	}
	return []EdgeHandle{n.in0}
}

func (n *Node1[Out, I0]) ComputeReachability(visited *VisitedSet) {
	done, owns := visited.claim(n)
	if !owns {
		<-done
		return
	}
	contrib := 0
	if n.in0 != nil {
		owner := n.in0.Owner()
		owner.ComputeReachability(visited)
		contrib = owner.Reachability()
	}
	n.reachability.Store(int64(contrib + 1))
	close(done)
}

func (n *Node1[Out, I0]) Execute() {
	var v0 I0
	if n.in0 != nil {
		v0 = n.in0.Await()
	}
	n.markRunning()
	result := n.fn(v0)
	n.markEnded()
	n.outward.Produce(result)
	n.markComplete()
}

// Node2 is a node with two declared inputs.
type Node2[Out, I0, I1 any] struct {
	*executionState
	id           uuid.UUID
	outward      *Edge[Out]
	in0          *Edge[I0]
	in1          *Edge[I1]
	reachability atomic.Int64
	fn           func(I0, I1) Out
}

// NewNode2 constructs a two-input node around fn.
func NewNode2[Out, I0, I1 any](fn func(I0, I1) Out) *Node2[Out, I0, I1] {
	n := &Node2[Out, I0, I1]{executionState: newExecutionState(), id: uuid.New(), fn: fn}
	n.outward = NewEdge[Out](n)
	return n
}

func (n *Node2[Out, I0, I1]) ID() uuid.UUID      { return n.id }
func (n *Node2[Out, I0, I1]) Outward() *Edge[Out] { return n.outward }
func (n *Node2[Out, I0, I1]) Result() (Out, bool) { return n.outward.TryPeek() }

func (n *Node2[Out, I0, I1]) AttachInput0(edge *Edge[I0]) { n.in0 = edge }
func (n *Node2[Out, I0, I1]) AttachInput1(edge *Edge[I1]) { n.in1 = edge }

func (n *Node2[Out, I0, I1]) Reachability() int { return int(n.reachability.Load()) }

// InwardCount is always two: Node2 declares exactly two inputs.
func (n *Node2[Out, I0, I1]) InwardCount() int { return 2 }

// InwardEdges returns the two input slots positionally, nil for any
// unattached slot.
func (n *Node2[Out, I0, I1]) InwardEdges() []EdgeHandle {
	edges := make([]EdgeHandle, 2)
	if n.in0 != nil {
		edges[0] = n.in0
	}
	if n.in1 != nil {
		edges[1] = n.in1
	}
	return edges
}

func (n *Node2[Out, I0, I1]) ComputeReachability(visited *VisitedSet) {
	done, owns := visited.claim(n)
	if !owns {
		<-done
		return
	}
	best := 0
	for _, e := range []interface{ Owner() Node }{ownerOrNil(n.in0), ownerOrNil(n.in1)} {
		if e == nil {
			continue
		}
		owner := e.Owner()
		owner.ComputeReachability(visited)
		if r := owner.Reachability(); r > best {
			best = r
		}
	}
	n.reachability.Store(int64(best + 1))
	close(done)
}

func (n *Node2[Out, I0, I1]) Execute() {
	var v0 I0
	var v1 I1
	if n.in0 != nil {
		v0 = n.in0.Await()
	}
	if n.in1 != nil {
		v1 = n.in1.Await()
	}
	n.markRunning()
	result := n.fn(v0, v1)
	n.markEnded()
	n.outward.Produce(result)
	n.markComplete()
}

// Node3 is a node with three declared inputs.
type Node3[Out, I0, I1, I2 any] struct {
	*executionState
	id           uuid.UUID
	outward      *Edge[Out]
	in0          *Edge[I0]
	in1          *Edge[I1]
	in2          *Edge[I2]
	reachability atomic.Int64
	fn           func(I0, I1, I2) Out
}

// NewNode3 constructs a three-input node around fn.
func NewNode3[Out, I0, I1, I2 any](fn func(I0, I1, I2) Out) *Node3[Out, I0, I1, I2] {
	n := &Node3[Out, I0, I1, I2]{executionState: newExecutionState(), id: uuid.New(), fn: fn}
	n.outward = NewEdge[Out](n)
	return n
}

func (n *Node3[Out, I0, I1, I2]) ID() uuid.UUID      { return n.id }
func (n *Node3[Out, I0, I1, I2]) Outward() *Edge[Out] { return n.outward }
func (n *Node3[Out, I0, I1, I2]) Result() (Out, bool) { return n.outward.TryPeek() }

func (n *Node3[Out, I0, I1, I2]) AttachInput0(edge *Edge[I0]) { n.in0 = edge }
func (n *Node3[Out, I0, I1, I2]) AttachInput1(edge *Edge[I1]) { n.in1 = edge }
func (n *Node3[Out, I0, I1, I2]) AttachInput2(edge *Edge[I2]) { n.in2 = edge }

func (n *Node3[Out, I0, I1, I2]) Reachability() int { return int(n.reachability.Load()) }

// InwardCount is always three: Node3 declares exactly three inputs.
func (n *Node3[Out, I0, I1, I2]) InwardCount() int { return 3 }

// InwardEdges returns the three input slots positionally, nil for any
// unattached slot.
func (n *Node3[Out, I0, I1, I2]) InwardEdges() []EdgeHandle {
	edges := make([]EdgeHandle, 3)
	if n.in0 != nil {
		edges[0] = n.in0
	}
	if n.in1 != nil {
		edges[1] = n.in1
	}
	if n.in2 != nil {
		edges[2] = n.in2
	}
	return edges
}

func (n *Node3[Out, I0, I1, I2]) ComputeReachability(visited *VisitedSet) {
	done, owns := visited.claim(n)
	if !owns {
		<-done
		return
	}
	best := 0
	for _, e := range []interface{ Owner() Node }{ownerOrNil(n.in0), ownerOrNil(n.in1), ownerOrNil(n.in2)} {
		if e == nil {
			continue
		}
		owner := e.Owner()
		owner.ComputeReachability(visited)
		if r := owner.Reachability(); r > best {
			best = r
		}
	}
	n.reachability.Store(int64(best + 1))
	close(done)
}

func (n *Node3[Out, I0, I1, I2]) Execute() {
	var v0 I0
	var v1 I1
	var v2 I2
	if n.in0 != nil {
		v0 = n.in0.Await()
	}
	if n.in1 != nil {
		v1 = n.in1.Await()
	}
	if n.in2 != nil {
		v2 = n.in2.Await()
	}
	n.markRunning()
	result := n.fn(v0, v1, v2)
	n.markEnded()
	n.outward.Produce(result)
	n.markComplete()
}

// NodeN is a homogeneous fan-in node: a fixed number of same-typed
// inward edges collapsed by fn into a single output. This is the
// variadic case Go's lack of variadic type parameters cannot express
// as a single generic type with heterogeneous inputs; when every
// input shares one type it can, so NodeN covers exactly that case
// (for example, summing five int producers).
type NodeN[Out, In any] struct {
	*executionState
	id           uuid.UUID
	outward      *Edge[Out]
	ins          []*Edge[In]
	reachability atomic.Int64
	fn           func([]In) Out
}

// NewNodeN constructs a fan-in node with width slots, all unattached.
func NewNodeN[Out, In any](width int, fn func([]In) Out) *NodeN[Out, In] {
	n := &NodeN[Out, In]{
		executionState: newExecutionState(),
		id:             uuid.New(),
		ins:            make([]*Edge[In], width),
		fn:             fn,
	}
	n.outward = NewEdge[Out](n)
	return n
}

func (n *NodeN[Out, In]) ID() uuid.UUID       { return n.id }
func (n *NodeN[Out, In]) Outward() *Edge[Out] { return n.outward }
func (n *NodeN[Out, In]) Result() (Out, bool) { return n.outward.TryPeek() }

// AttachInput wires edge into positional slot j.
func (n *NodeN[Out, In]) AttachInput(j int, edge *Edge[In]) { n.ins[j] = edge }

func (n *NodeN[Out, In]) Reachability() int { return int(n.reachability.Load()) }

// InwardCount returns the fan-in width fixed at construction.
func (n *NodeN[Out, In]) InwardCount() int { return len(n.ins) }

// InwardEdges returns the width input slots positionally, nil for any
// unattached slot.
func (n *NodeN[Out, In]) InwardEdges() []EdgeHandle {
	edges := make([]EdgeHandle, len(n.ins))
	for i, e := range n.ins {
		if e != nil {
			edges[i] = e
		}
	}
	return edges
}

func (n *NodeN[Out, In]) ComputeReachability(visited *VisitedSet) {
	done, owns := visited.claim(n)
	if !owns {
		<-done
		return
	}
	if len(n.ins) == 0 {
		n.reachability.Store(0)
		close(done)
		return
	}
	best := 0
	for _, e := range n.ins {
		contrib := 0
		if e != nil {
			owner := e.Owner()
			owner.ComputeReachability(visited)
			contrib = owner.Reachability()
		}
		if contrib > best {
			best = contrib
		}
	}
	n.reachability.Store(int64(best + 1))
	close(done)
}

func (n *NodeN[Out, In]) Execute() {
	values := make([]In, len(n.ins))
	for i, e := range n.ins {
		if e != nil {
			values[i] = e.Await()
		}
	}
	n.markRunning()
	result := n.fn(values)
	n.markEnded()
	n.outward.Produce(result)
	n.markComplete()
}

// ownerOrNil adapts a possibly-nil *Edge[T] to the minimal owner
// interface ComputeReachability needs, without forcing every edge
// type through a non-generic interface conversion at the call site.
func ownerOrNil[T any](e *Edge[T]) interface{ Owner() Node } {
	if e == nil {
		return nil
	}
	return e
}
