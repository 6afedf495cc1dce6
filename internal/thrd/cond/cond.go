// Package cond implements the condition variable: wait/signal/
// broadcast coordination tied to a caller-supplied mutex, with timed
// and untimed wait.
//
// The core correctness property is that releasing the mutex and
// suspending are atomic with respect to wakeups: a signal arriving
// between the two must not be lost. That atomicity cannot be built
// from a bare unlock followed by a park, so it is delegated to a
// primitive that provides it natively — here, a per-waiter channel.
// A waiter enqueues its channel on the wait queue before releasing
// the mutex; a signal delivered after the release but before the
// park is simply buffered in the closed channel and observed the
// moment the waiter selects on it. The mutex is always reacquired
// before returning, regardless of outcome.
//
// Wakeup selection among waiters on Signal is unspecified by
// contract; this implementation happens to wake in FIFO order.
// Spurious wakeups are permitted by contract (callers must re-check
// their predicate in a loop) although this implementation does not
// generate them.
package cond

import (
	"sync"
	"time"

	"github.com/evo-i/threads/internal/thrd/clock"
	"github.com/evo-i/threads/internal/thrd/mutex"
	"github.com/evo-i/threads/internal/thrd/status"
)

// Cond is a condition variable. It is stateless with respect to any
// particular mutex: the mutex is supplied per wait, though the usual
// contract assumes a consistent mutex per logical wait loop.
//
// The zero value is ready to use. A Cond must be destroyed at most
// once, with no threads waiting on it.
type Cond struct {
	// mu guards waiters. It is only ever held for queue edits, so
	// Signal and Broadcast never block on waiter activity.
	mu      sync.Mutex
	waiters []chan struct{}
}

// New allocates a condition variable.
func New() *Cond {
	return &Cond{}
}

// Destroy releases the condition variable's resources. The caller
// must guarantee no thread is waiting on it. The backend holds
// nothing to free.
func (c *Cond) Destroy() {
	c.mu.Lock()
	n := len(c.waiters)
	c.mu.Unlock()
	if n != 0 {
		panic("thrd: destroy of condition variable with waiters")
	}
}

// enqueue registers the calling thread on the wait queue and returns
// its wakeup channel. Must be called while still holding the
// caller's mutex; this ordering is what closes the missed-wakeup
// window.
func (c *Cond) enqueue() chan struct{} {
	ch := make(chan struct{})
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	return ch
}

// withdraw removes ch from the wait queue. It reports false when ch
// is no longer queued, meaning a signal already claimed this waiter.
func (c *Cond) withdraw(ch chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return true
		}
	}
	return false
}

// Wait atomically releases m and suspends the calling thread until
// signaled, then reacquires m before returning. The caller must hold
// m.
func (c *Cond) Wait(m *mutex.Mutex) error {
	ch := c.enqueue()
	m.Unlock()
	<-ch
	m.Lock()
	return nil
}

// WaitDeadline is Wait bounded by an absolute wall-clock deadline.
// If the deadline elapses before a wakeup it returns
// status.ErrTimedOut — with m reacquired before returning, exactly
// as on the success path. A deadline already in the past degrades to
// an immediate timed-out return without suspending.
func (c *Cond) WaitDeadline(m *mutex.Mutex, deadline clock.TimeSpec) error {
	ch := c.enqueue()
	rel, cerr := clock.UntilMilliseconds(deadline)
	if cerr != nil {
		c.withdraw(ch)
		return cerr
	}
	m.Unlock()

	var werr error
	timer := time.NewTimer(time.Duration(rel) * time.Millisecond)
	select {
	case <-ch:
	case <-timer.C:
		if !c.withdraw(ch) {
			// A signal claimed this waiter before the withdrawal
			// could; the wakeup belongs to us, not the timer.
			<-ch
		} else {
			werr = status.ErrTimedOut
		}
	}
	timer.Stop()

	m.Lock()
	return werr
}

// Signal wakes at least one waiter if any are waiting and is a no-op
// otherwise. It never blocks and may be called with or without the
// paired mutex held.
func (c *Cond) Signal() error {
	c.mu.Lock()
	if len(c.waiters) > 0 {
		ch := c.waiters[0]
		c.waiters = c.waiters[1:]
		close(ch)
	}
	c.mu.Unlock()
	return nil
}

// Broadcast wakes every current waiter. It never blocks; the woken
// threads serialize on reacquiring the paired mutex.
func (c *Cond) Broadcast() error {
	c.mu.Lock()
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
	c.mu.Unlock()
	return nil
}
