package events

import (
	"sync"
)

// EventBus is a non-blocking pub-sub notifier for node and pool
// lifecycle events. The graph package's executor is the only
// producer; SubscribeNode/SubscribePool/SubscribeAll exist for
// external observers of a running graph (a logger, a progress bar, a
// metrics exporter) that want to watch lifecycle events without the
// engine depending on any of them.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[string][]chan Event // topic -> subscriber channels
	allSubs []chan Event            // channels subscribed to every topic
	closed  bool
}

// NewEventBus returns an empty, open bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subs:    make(map[string][]chan Event),
		allSubs: make([]chan Event, 0),
	}
}

// SubscribeNode subscribes to node lifecycle events (NodeStarted,
// NodeCompleted). bufSize <= 0 defaults to 256.
func (b *EventBus) SubscribeNode(bufSize int) <-chan Event {
	return b.Subscribe(TopicNode, bufSize)
}

// SubscribePool subscribes to pool lifecycle events (PoolQuiescent).
// bufSize <= 0 defaults to 256.
func (b *EventBus) SubscribePool(bufSize int) <-chan Event {
	return b.Subscribe(TopicPool, bufSize)
}

// Subscribe subscribes to a single topic (TopicNode or TopicPool),
// returning a channel fed every event published to it. A closed bus
// returns an already-closed channel.
func (b *EventBus) Subscribe(topic string, bufSize int) <-chan Event {
	if bufSize <= 0 {
		bufSize = 256
	}

	ch := make(chan Event, bufSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}

	b.subs[topic] = append(b.subs[topic], ch)

	return ch
}

// SubscribeAll subscribes to both node and pool topics on a single
// channel, for an observer that wants the whole event stream (an
// interleaved log, say) rather than a per-topic split.
func (b *EventBus) SubscribeAll(bufSize int) <-chan Event {
	if bufSize <= 0 {
		bufSize = 256
	}

	ch := make(chan Event, bufSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}

	b.allSubs = append(b.allSubs, ch)

	return ch
}

// Publish fans event out to every subscriber of topic plus every
// SubscribeAll subscriber. Never blocks the caller: a subscriber whose
// channel is full simply drops the event, since a slow observer must
// not be able to stall the graph executor it is watching.
func (b *EventBus) Publish(topic string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
		}
	}

	for _, ch := range b.allSubs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes the bus and every subscriber channel it opened.
// Idempotent; a Publish after Close is a silent no-op.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, channels := range b.subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.allSubs {
		close(ch)
	}
}
