package taskweave

import (
	"sync"
	"time"
)

// executionState is the per-node state, start/end timestamps, and
// completion latch shared by every node arity. It is embedded
// anonymously so each concrete node type gets State, StartedAt,
// EndedAt, and WaitForCompletion for free.
//
// Execute methods call these in a fixed order: markRunning, invoke the
// callable, markEnded, produce on the outward edge, markComplete. The
// end timestamp is recorded before the edge is produced on and before
// the state reaches Complete, so a downstream consumer released by
// Produce can never observe a start time earlier than its producer's
// end time.
type executionState struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state State

	startedAt time.Time
	endedAt   time.Time
}

func newExecutionState() *executionState {
	es := &executionState{}
	es.cond = sync.NewCond(&es.mu)
	return es
}

// State returns the current lifecycle state.
func (es *executionState) State() State {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.state
}

// StartedAt returns the recorded start timestamp, zero if not yet running.
func (es *executionState) StartedAt() time.Time {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.startedAt
}

// EndedAt returns the recorded end timestamp, zero until the callable
// has returned.
func (es *executionState) EndedAt() time.Time {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.endedAt
}

// WaitForCompletion blocks until the node's state is Complete.
func (es *executionState) WaitForCompletion() {
	es.mu.Lock()
	for es.state != Complete {
		es.cond.Wait()
	}
	es.mu.Unlock()
}

func (es *executionState) markRunning() {
	es.mu.Lock()
	es.state = Running
	es.startedAt = time.Now()
	es.mu.Unlock()
}

// markEnded records the end timestamp. Must be called after the
// callable returns and before the outward edge is produced on, so the
// timestamp is finalized before any consumer it releases can start.
func (es *executionState) markEnded() {
	es.mu.Lock()
	es.endedAt = time.Now()
	es.mu.Unlock()
}

// markComplete transitions to Complete and wakes every waiter blocked
// in WaitForCompletion. Must be called only after the node's outward
// edge has been produced on.
func (es *executionState) markComplete() {
	es.mu.Lock()
	es.state = Complete
	es.mu.Unlock()
	es.cond.Broadcast()
}
