// Package mutex implements the mutual-exclusion primitive: plain,
// try-capable, timed-capable, and recursive variants reconstructed
// on top of the host's native exclusive lock.
//
// The native lock here is sync.Mutex, which is non-reentrant and
// records no owner, so the package layers both on top: the holder's
// thread id is tracked in an atomic word and a reentry count rides
// alongside it, touched only under ownership. This is the same shape
// the Win32 emulation gets for free from CRITICAL_SECTION
// (OwningThread + RecursionCount) and the pure-Go pthread emulations
// rebuild by hand.
//
// Timed locking has no native counterpart and degrades to polling:
// try-acquire, re-check the deadline, yield, repeat. That is a
// latency and fairness caveat, not a correctness one — contending
// timed lockers are not queued, so acquisition order among them is
// unspecified and a timeout may overshoot by up to one scheduling
// quantum.
package mutex

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/evo-i/threads/internal/thrd/clock"
	"github.com/evo-i/threads/internal/thrd/goid"
	"github.com/evo-i/threads/internal/thrd/sched"
	"github.com/evo-i/threads/internal/thrd/status"
)

// Mode selects the capabilities of a mutex at creation, numbered
// identically to the C11 mtx_* constants. Plain, Try and Timed are
// mutually exclusive base modes; Recursive combines with any of
// them.
type Mode int

const (
	// Plain is a basic blocking mutex.
	Plain Mode = 0x0

	// Try supports non-blocking acquisition.
	Try Mode = 0x1

	// Timed supports deadline-bounded acquisition.
	Timed Mode = 0x2

	// Recursive allows the holder to re-acquire without deadlock,
	// tracked by a reentry count.
	Recursive Mode = 0x4
)

// ValidMode reports whether mode is one of the six combinations the
// contract admits: {Plain, Try, Timed} optionally ORed with
// Recursive.
func ValidMode(mode Mode) bool {
	switch mode {
	case Plain, Try, Timed,
		Plain | Recursive, Try | Recursive, Timed | Recursive:
		return true
	}
	return false
}

// Mutex is a mutual-exclusion lock. The zero value is a usable plain
// mutex, mirroring the static initializer of the emulated API; New
// validates the mode for the other variants.
//
// A Mutex must not be copied after first use, must be destroyed at
// most once by its creator, and must not be destroyed while held or
// waited on. Unlocking a mutex not held by the caller is undefined
// behavior; this implementation panics, which callers must not rely
// on.
type Mutex struct {
	native sync.Mutex

	mode Mode

	// owner is the thread id of the current holder, 0 when
	// unlocked. Written only while holding native; read by
	// recursive re-entry checks on other threads.
	owner atomic.Int64

	// reentry counts nested acquisitions by owner. Touched only
	// under ownership.
	reentry int32
}

// New allocates a mutex with the given mode. Any combination outside
// the six valid ones is rejected with an initialization error and
// allocates nothing.
func New(mode Mode) (*Mutex, error) {
	if !ValidMode(mode) {
		return nil, fmt.Errorf("thrd: invalid mutex mode %#x", int(mode))
	}
	return &Mutex{mode: mode}, nil
}

// Mode returns the creation mode.
func (m *Mutex) Mode() Mode { return m.mode }

// Lock blocks until the mutex is acquired. On a recursive mutex the
// holder re-enters without blocking. Locking a non-recursive mutex
// already held by the caller deadlocks (undefined behavior, not
// detected).
func (m *Mutex) Lock() error {
	self := goid.Get()
	if m.mode&Recursive != 0 && m.owner.Load() == self {
		m.reentry++
		return nil
	}
	m.native.Lock()
	m.owner.Store(self)
	m.reentry = 1
	return nil
}

// TryLock attempts acquisition without blocking. It returns
// status.ErrBusy if the mutex is held by another owner, and succeeds
// on legal re-entry of a recursive mutex.
func (m *Mutex) TryLock() error {
	self := goid.Get()
	if m.mode&Recursive != 0 && m.owner.Load() == self {
		m.reentry++
		return nil
	}
	if !m.native.TryLock() {
		return status.ErrBusy
	}
	m.owner.Store(self)
	m.reentry = 1
	return nil
}

// LockDeadline acquires the mutex or gives up once the absolute
// wall-clock deadline passes, returning status.ErrTimedOut. A
// deadline already in the past degrades to a single try.
//
// There is no native timed lock underneath; this polls TryLock and
// yields between attempts, re-checking the deadline each iteration.
func (m *Mutex) LockDeadline(deadline clock.TimeSpec) error {
	for m.TryLock() != nil {
		rel, err := clock.UntilMilliseconds(deadline)
		if err != nil {
			return err
		}
		if rel == 0 {
			return status.ErrTimedOut
		}
		// busy loop!
		sched.Yield()
	}
	return nil
}

// Unlock releases one level of ownership; the mutex is released for
// other threads once the count returns to zero. Calling Unlock
// without holding the mutex panics.
func (m *Mutex) Unlock() error {
	if m.owner.Load() != goid.Get() {
		panic("thrd: unlock of mutex not held by calling thread")
	}
	m.reentry--
	if m.reentry == 0 {
		m.owner.Store(0)
		m.native.Unlock()
	}
	return nil
}

// Destroy releases the mutex's resources. The caller must guarantee
// no thread holds or waits on it. The Go backend holds nothing to
// free, so this only asserts the mutex is idle.
func (m *Mutex) Destroy() {
	if m.owner.Load() != 0 {
		panic("thrd: destroy of held mutex")
	}
}
