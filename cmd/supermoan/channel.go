package main

import "sync"

// intensityChannel is the single-slot mailbox between the monitor loop
// (producer) and the player loop (consumer).
//
// It deliberately holds at most one pending level: while the player is busy
// with a sample, newer movements overwrite whatever is waiting, so the player
// always picks up the most recent intensity instead of draining a stale
// backlog. Intermediate values are dropped on purpose.
//
// A pending value of 0 means "empty"; real levels are 1..numIntensityLevels.
type intensityChannel struct {
	mu   sync.Mutex
	cond *sync.Cond

	pending int  // next level to play, 0 when empty
	playing bool // player is between takeBlocking and markIdle
	running bool // cleared exactly once by shutdown

	coalesced uint64 // pending values overwritten before being taken
}

func newIntensityChannel() *intensityChannel {
	c := &intensityChannel{running: true}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// deposit hands a freshly computed level to the player side. It never blocks
// on playback.
//
// While the player is busy, re-depositing the level that is already pending
// is a no-op: the same sample would play again anyway, so there is nothing to
// update and nobody to wake.
func (c *intensityChannel) deposit(level int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing && level == c.pending {
		return
	}
	if c.pending != 0 {
		c.coalesced++
	}
	c.pending = level
	c.cond.Signal()
}

// takeBlocking waits until a level is pending or the channel is shut down.
// It returns false when woken by shutdown; shutdown wins even if a level is
// still pending. On success the slot is cleared and the player is marked
// busy in the same critical section.
func (c *intensityChannel) takeBlocking() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.pending == 0 && c.running {
		c.cond.Wait()
	}
	if !c.running {
		return 0, false
	}

	level := c.pending
	c.pending = 0
	c.playing = true
	return level, true
}

// markIdle is called by the player loop after a playback attempt finishes,
// successfully or not.
func (c *intensityChannel) markIdle() {
	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
}

// shutdown stops the channel and wakes every waiter. Safe to call more than
// once and from any goroutine.
func (c *intensityChannel) shutdown() {
	c.mu.Lock()
	c.running = false
	c.cond.Broadcast()
	c.mu.Unlock()
}

func (c *intensityChannel) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *intensityChannel) busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// coalescedCount reports how many deposited levels were overwritten before
// the player could take them.
func (c *intensityChannel) coalescedCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coalesced
}
