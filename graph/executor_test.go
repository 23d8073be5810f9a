package graph

import (
	"testing"
	"time"

	"github.com/taskweave-go/taskweave"
	"github.com/taskweave-go/taskweave/internal/events"
)

func TestRunProducerConsumer(t *testing.T) {
	p := taskweave.NewNode0(func() int { return 42 })
	c := taskweave.NewNode1(func(in int) int { return in * 2 })
	c.AttachInput0(p.Outward())

	e := New(WithWorkers(2))
	defer e.Close()

	e.Run(p, c)
	e.Wait()

	pr, _ := p.Result()
	cr, _ := c.Result()
	if pr != 42 || cr != 84 {
		t.Errorf("got P=%d C=%d, want P=42 C=84", pr, cr)
	}
}

func TestRunDiamondAllComplete(t *testing.T) {
	top := taskweave.NewNode0(func() int { return 10 })
	left := taskweave.NewNode1(func(in int) int { return in * 2 })
	right := taskweave.NewNode1(func(in int) int { return in * 3 })
	bottom := taskweave.NewNode2(func(l, r int) int { return l + r })
	left.AttachInput0(top.Outward())
	right.AttachInput0(top.Outward())
	bottom.AttachInput0(left.Outward())
	bottom.AttachInput1(right.Outward())

	e := New(WithWorkers(4))
	defer e.Close()

	e.Run(top, left, right, bottom)
	e.Wait()

	for _, n := range []taskweave.Node{top, left, right, bottom} {
		if n.State() != taskweave.Complete {
			t.Errorf("node did not reach Complete, got %s", n.State())
		}
	}
	bv, _ := bottom.Result()
	if bv != 50 {
		t.Errorf("bottom.result = %d, want 50", bv)
	}
	if bottom.StartedAt().Before(left.EndedAt()) || bottom.StartedAt().Before(right.EndedAt()) {
		t.Error("bottom started before one of its parents ended, under real pool dispatch")
	}
}

func TestRunEmptyNodeSetReturnsImmediately(t *testing.T) {
	e := New(WithWorkers(1))
	defer e.Close()

	e.Run()
	e.Wait()
}

func TestCancelAfterCompletionIsNoOp(t *testing.T) {
	p := taskweave.NewNode0(func() int { return 1 })

	e := New(WithWorkers(1))
	defer e.Close()

	e.Run(p)
	e.Wait()

	e.Cancel() // must not panic or hang
}

func TestRunPublishesNodeAndPoolEvents(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Close()
	nodeCh := bus.SubscribeNode(10)
	poolCh := bus.SubscribePool(10)

	p := taskweave.NewNode0(func() int { return 7 })
	c := taskweave.NewNode1(func(in int) int { return in + 1 })
	c.AttachInput0(p.Outward())

	e := New(WithWorkers(2), WithEvents(bus))
	defer e.Close()

	e.Run(p, c)
	e.Wait()

	var started, completed int
	drain := true
	for drain {
		select {
		case ev := <-nodeCh:
			switch ev.EventType() {
			case events.EventTypeNodeStarted:
				started++
			case events.EventTypeNodeCompleted:
				completed++
				ce := ev.(events.NodeCompletedEvent)
				if ce.Duration < 0 {
					t.Errorf("NodeCompletedEvent.Duration = %v, want >= 0", ce.Duration)
				}
			}
		case <-time.After(50 * time.Millisecond):
			drain = false
		}
	}
	if started != 2 || completed != 2 {
		t.Errorf("got %d started, %d completed events, want 2 and 2", started, completed)
	}

	select {
	case ev := <-poolCh:
		if ev.EventType() != events.EventTypePoolQuiescent {
			t.Errorf("pool channel: got %s, want %s", ev.EventType(), events.EventTypePoolQuiescent)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for pool quiescent event")
	}
}

func TestExecutorReusesPoolAcrossRuns(t *testing.T) {
	e := New(WithWorkers(2))
	defer e.Close()

	a := taskweave.NewNode0(func() int { return 1 })
	e.Run(a)
	e.Wait()

	b := taskweave.NewNode0(func() int { return 2 })
	e.Run(b)
	e.Wait()

	ar, _ := a.Result()
	br, _ := b.Result()
	if ar != 1 || br != 2 {
		t.Errorf("got a=%d b=%d, want a=1 b=2", ar, br)
	}
}
