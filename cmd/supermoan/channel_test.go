package main

import (
	"testing"
	"time"
)

// TestIntensityChannel_DepositTake tests the basic handoff cycle
func TestIntensityChannel_DepositTake(t *testing.T) {
	ch := newIntensityChannel()

	ch.deposit(5)
	level, ok := ch.takeBlocking()

	if !ok {
		t.Fatal("expected take to succeed on a running channel")
	}
	if level != 5 {
		t.Errorf("expected level 5, got %d", level)
	}
	if !ch.busy() {
		t.Error("expected channel to be busy after take")
	}

	ch.markIdle()
	if ch.busy() {
		t.Error("expected channel to be idle after markIdle")
	}
}

// TestIntensityChannel_LatestWinsWhenIdle tests that a second deposit before
// any take replaces the first and records the overwrite.
func TestIntensityChannel_LatestWinsWhenIdle(t *testing.T) {
	ch := newIntensityChannel()

	ch.deposit(3)
	ch.deposit(9)

	level, ok := ch.takeBlocking()
	if !ok || level != 9 {
		t.Errorf("expected level 9, got %d (ok=%v)", level, ok)
	}
	if got := ch.coalescedCount(); got != 1 {
		t.Errorf("expected 1 coalesced deposit, got %d", got)
	}
}

// TestIntensityChannel_CoalesceWhileBusy tests that deposits made during
// playback pile into the single slot and only the newest survives.
func TestIntensityChannel_CoalesceWhileBusy(t *testing.T) {
	ch := newIntensityChannel()

	ch.deposit(9)
	if _, ok := ch.takeBlocking(); !ok {
		t.Fatal("expected initial take to succeed")
	}

	ch.deposit(3)
	ch.deposit(7)
	ch.deposit(7)
	ch.deposit(2)
	ch.markIdle()

	level, ok := ch.takeBlocking()
	if !ok || level != 2 {
		t.Errorf("expected level 2, got %d (ok=%v)", level, ok)
	}
	if got := ch.coalescedCount(); got != 2 {
		t.Errorf("expected 2 coalesced deposits, got %d", got)
	}
}

// TestIntensityChannel_DedupeWhileBusy tests that a deposit equal to the
// pending level is dropped during playback but accepted when idle.
func TestIntensityChannel_DedupeWhileBusy(t *testing.T) {
	ch := newIntensityChannel()

	ch.deposit(9)
	if _, ok := ch.takeBlocking(); !ok {
		t.Fatal("expected initial take to succeed")
	}

	ch.deposit(7)
	ch.deposit(7) // duplicate while busy, dropped
	if got := ch.coalescedCount(); got != 0 {
		t.Errorf("expected no coalesced deposits after dedupe, got %d", got)
	}

	ch.markIdle()
	ch.deposit(7) // same value while idle, overwrites
	if got := ch.coalescedCount(); got != 1 {
		t.Errorf("expected idle same-value deposit to count as overwrite, got %d", got)
	}

	level, ok := ch.takeBlocking()
	if !ok || level != 7 {
		t.Errorf("expected level 7, got %d (ok=%v)", level, ok)
	}
}

// TestIntensityChannel_TakeBlocksUntilDeposit tests that a taker waits on an
// empty channel and wakes when a level arrives.
func TestIntensityChannel_TakeBlocksUntilDeposit(t *testing.T) {
	ch := newIntensityChannel()

	got := make(chan int, 1)
	go func() {
		level, ok := ch.takeBlocking()
		if !ok {
			got <- -1
			return
		}
		got <- level
	}()

	select {
	case level := <-got:
		t.Fatalf("take returned %d before any deposit", level)
	case <-time.After(50 * time.Millisecond):
	}

	ch.deposit(4)

	select {
	case level := <-got:
		if level != 4 {
			t.Errorf("expected level 4, got %d", level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("take did not wake after deposit")
	}
}

// TestIntensityChannel_ShutdownWakesWaiter tests that shutdown releases a
// blocked taker with ok=false.
func TestIntensityChannel_ShutdownWakesWaiter(t *testing.T) {
	ch := newIntensityChannel()

	done := make(chan bool, 1)
	go func() {
		_, ok := ch.takeBlocking()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	ch.shutdown()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected take to report shutdown, got ok=true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("take did not wake after shutdown")
	}
}

// TestIntensityChannel_ShutdownPreemptsPending tests that a stopped channel
// refuses to hand out a level deposited before shutdown.
func TestIntensityChannel_ShutdownPreemptsPending(t *testing.T) {
	ch := newIntensityChannel()

	ch.deposit(5)
	ch.shutdown()

	level, ok := ch.takeBlocking()
	if ok {
		t.Errorf("expected take to fail after shutdown, got level %d", level)
	}
}

// TestIntensityChannel_ShutdownIdempotent tests that repeated shutdowns are
// safe and leave the channel stopped.
func TestIntensityChannel_ShutdownIdempotent(t *testing.T) {
	ch := newIntensityChannel()

	ch.shutdown()
	ch.shutdown()

	if ch.isRunning() {
		t.Error("expected channel to stay stopped")
	}
	if _, ok := ch.takeBlocking(); ok {
		t.Error("expected take to fail on a stopped channel")
	}
}

// TestIntensityChannel_ConcurrentDepositors tests the channel under many
// producers with a consumer draining until shutdown.
func TestIntensityChannel_ConcurrentDepositors(t *testing.T) {
	ch := newIntensityChannel()

	consumed := make(chan int, 2048)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for {
			level, ok := ch.takeBlocking()
			if !ok {
				return
			}
			consumed <- level
			ch.markIdle()
		}
	}()

	producersDone := make(chan struct{})
	go func() {
		defer close(producersDone)
		done := make(chan struct{})
		for i := 0; i < 10; i++ {
			go func(base int) {
				for j := 0; j < 100; j++ {
					ch.deposit(base%numIntensityLevels + 1)
				}
				done <- struct{}{}
			}(i)
		}
		for i := 0; i < 10; i++ {
			<-done
		}
	}()

	select {
	case <-producersDone:
	case <-time.After(5 * time.Second):
		t.Fatal("producers did not finish")
	}

	ch.shutdown()

	select {
	case <-consumerDone:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after shutdown")
	}

	close(consumed)
	for level := range consumed {
		if level < 1 || level > numIntensityLevels {
			t.Fatalf("consumed out-of-range level %d", level)
		}
	}
}
