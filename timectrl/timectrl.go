package timectrl

import (
	"sync"
	"time"
)

// Clock is an interface for accessing time. The animation driver depends on
// this abstraction rather than the time package directly, so production runs
// on the wall clock while tests advance a manual clock deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// After returns a channel that receives the current time once the
	// duration d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// SystemClock implements Clock using wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// ManualClock is a Clock for tests. It keeps its own notion of current time
// and an ordered queue of pending After waiters; tests move time forward with
// Advance or AdvanceTo and due waiters fire deterministically, earliest
// first.
type ManualClock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	waiters []*waiter // ordered by due time (earliest first)
}

type waiter struct {
	due time.Time
	ch  chan time.Time
}

// NewManualClock creates a manual clock starting at the given time.
func NewManualClock(start time.Time) *ManualClock {
	c := &ManualClock{now: start}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After registers a waiter due after d. A non-positive duration fires
// immediately.
func (c *ManualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}

	w := &waiter{due: c.now.Add(d), ch: ch}
	c.addWaiterLocked(w)
	c.cond.Broadcast()
	return ch
}

// addWaiterLocked inserts a waiter keeping the queue ordered by due time.
// Caller must hold c.mu.
func (c *ManualClock) addWaiterLocked(w *waiter) {
	inserted := false
	for i, existing := range c.waiters {
		if w.due.Before(existing.due) {
			c.waiters = append(c.waiters[:i], append([]*waiter{w}, c.waiters[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		c.waiters = append(c.waiters, w)
	}
}

// Advance moves the clock forward by d and fires all waiters that become due.
func (c *ManualClock) Advance(d time.Duration) {
	c.AdvanceTo(c.Now().Add(d))
}

// AdvanceTo sets the current time and fires all due waiters in due order.
// Time is kept monotonic; moving backwards is a no-op.
func (c *ManualClock) AdvanceTo(t time.Time) {
	c.mu.Lock()
	if t.Before(c.now) {
		c.mu.Unlock()
		return
	}
	c.now = t

	var due []*waiter
	for len(c.waiters) > 0 && !c.waiters[0].due.After(c.now) {
		due = append(due, c.waiters[0])
		c.waiters = c.waiters[1:]
	}
	now := c.now
	c.mu.Unlock()

	// Deliver outside the lock; channels are buffered so sends never block.
	for _, w := range due {
		w.ch <- now
	}
}

// Waiters reports how many After calls are pending.
func (c *ManualClock) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// BlockUntil waits until at least n waiters are pending. Tests use it to
// synchronise with a goroutine that is about to sleep on After.
func (c *ManualClock) BlockUntil(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.waiters) < n {
		c.cond.Wait()
	}
}
