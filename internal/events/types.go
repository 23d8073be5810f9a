package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	NodeID() uuid.UUID
}

// Topic constants.
const (
	TopicNode = "node"
	TopicPool = "pool"
)

// Event type constants.
const (
	EventTypeNodeStarted   = "node.started"
	EventTypeNodeCompleted = "node.completed"
	EventTypePoolQuiescent = "pool.quiescent"
)

// NodeStartedEvent is published when a worker picks a node up, just
// before its Execute begins awaiting the node's inputs.
type NodeStartedEvent struct {
	ID           uuid.UUID
	Reachability int
	Timestamp    time.Time
}

func (e NodeStartedEvent) EventType() string { return EventTypeNodeStarted }
func (e NodeStartedEvent) NodeID() uuid.UUID  { return e.ID }

// NodeCompletedEvent is published once a node's Execute has returned,
// after the node has reached Complete.
type NodeCompletedEvent struct {
	ID        uuid.UUID
	Duration  time.Duration
	Timestamp time.Time
}

func (e NodeCompletedEvent) EventType() string { return EventTypeNodeCompleted }
func (e NodeCompletedEvent) NodeID() uuid.UUID  { return e.ID }

// PoolQuiescentEvent is published once per zero-crossing of a worker
// pool's outstanding-work counter. Not associated with any one node.
type PoolQuiescentEvent struct {
	Timestamp time.Time
}

func (e PoolQuiescentEvent) EventType() string { return EventTypePoolQuiescent }
func (e PoolQuiescentEvent) NodeID() uuid.UUID  { return uuid.Nil }
