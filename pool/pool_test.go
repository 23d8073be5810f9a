package pool

import (
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestSubmitRejectsNilClosure(t *testing.T) {
	p := New(WithWorkers(1))
	if p.Submit(nil) {
		t.Error("Submit(nil) returned true, want false")
	}
	if !p.IsIdle() {
		t.Error("pool should still be idle after a rejected submit")
	}
}

func TestWaitBlocksUntilOutstandingZero(t *testing.T) {
	p := New(WithWorkers(4))
	p.Start()
	defer p.Close()

	var ran atomic.Int64
	for i := 0; i < 50; i++ {
		p.Submit(func() { ran.Add(1) })
	}
	p.Wait()

	if got := ran.Load(); got != 50 {
		t.Errorf("ran = %d, want 50", got)
	}
	if !p.IsIdle() {
		t.Error("pool should be idle after Wait returns")
	}
}

// S7 — Quiescence callback fires exactly once per submit-drain cycle.
func TestQuiescenceCallbackFiresOncePerCycle(t *testing.T) {
	var fired atomic.Int64
	p := New(WithWorkers(4), WithOnQuiescent(func() { fired.Add(1) }))
	p.Start()
	defer p.Close()

	const n = 1000
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			p.Submit(func() {})
			return nil
		})
	}
	_ = g.Wait()
	p.Wait()

	if got := fired.Load(); got != 1 {
		t.Errorf("quiescence callback fired %d times, want 1", got)
	}
}

// Quiescence never fires from an empty submit cycle (start/wait with
// nothing ever submitted).
func TestQuiescenceCallbackNeverFiresOnEmptySubmit(t *testing.T) {
	var fired atomic.Int64
	p := New(WithWorkers(2), WithOnQuiescent(func() { fired.Add(1) }))
	p.Start()
	defer p.Close()

	p.Wait()

	if got := fired.Load(); got != 0 {
		t.Errorf("quiescence callback fired %d times on empty submit, want 0", got)
	}
}

// S6 — Cancel under load.
func TestCancelUnderLoad(t *testing.T) {
	const total = 10000
	p := New(WithWorkers(4))
	p.Start()
	defer p.Close()

	var ran atomic.Int64
	for i := 0; i < total; i++ {
		p.Submit(func() {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		})
	}

	time.Sleep(50 * time.Millisecond)
	p.CancelQueued()
	p.Wait()

	got := ran.Load()
	if got <= 0 || got >= total {
		t.Errorf("ran = %d, want strictly between 0 and %d", got, total)
	}
	if !p.IsIdle() {
		t.Error("outstanding counter should be zero after cancel+wait")
	}
}

func TestCancelAfterAllCompleteIsNoOp(t *testing.T) {
	p := New(WithWorkers(2))
	p.Start()
	defer p.Close()

	p.Submit(func() {})
	p.Wait()

	p.CancelQueued()
	if !p.IsIdle() {
		t.Error("cancel after completion should be a no-op, pool should stay idle")
	}
}

func TestCloseWithPendingQueueDoesNotRunThem(t *testing.T) {
	p := New(WithWorkers(1))
	p.Start()

	block := make(chan struct{})
	started := make(chan struct{})
	p.Submit(func() {
		close(started)
		<-block
	})
	<-started

	var ranSecond atomic.Bool
	p.Submit(func() { ranSecond.Store(true) })

	closeDone := make(chan struct{})
	go func() {
		p.Close()
		close(closeDone)
	}()
	time.Sleep(10 * time.Millisecond) // let Close set the shutdown flag before we unblock the worker
	close(block)
	<-closeDone

	if ranSecond.Load() {
		t.Error("closed pool ran a closure that was still queued")
	}
}

func TestIsEmptyAndQueuedCount(t *testing.T) {
	p := New(WithWorkers(1))
	if !p.IsEmpty() || p.QueuedCount() != 0 {
		t.Error("new pool should have an empty queue")
	}

	block := make(chan struct{})
	p.Submit(func() { <-block })
	p.Submit(func() {})
	p.Start()

	time.Sleep(5 * time.Millisecond)
	if p.QueuedCount() != 1 {
		t.Errorf("QueuedCount() = %d, want 1 (one running, one queued)", p.QueuedCount())
	}

	close(block)
	p.Wait()
	p.Close()
}
