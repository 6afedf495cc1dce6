// Package tss implements thread-local storage: process-wide slots
// holding one value per thread, with destructor callbacks invoked at
// thread exit.
//
// Destructors live in a bounded registry modeled on the emulated
// API's fixed destructor table (64 entries there, matching the
// TLS_MINIMUM_AVAILABLE floor). The capacity is configurable here,
// and unlike the original's bare array the registry carries its own
// internal lock, so slots may be registered concurrently with
// running threads. The per-thread value tables themselves are
// unlocked: only the owning thread ever reads or writes its own
// table, including during destructor invocation, which runs on the
// exiting thread.
//
// Destructors run a single pass per thread exit (the C constant
// TSS_DTOR_ITERATIONS is 1 in the emulated API): values re-set from
// inside a destructor are not collected again. Invocation order
// across slots is unspecified; each registered destructor runs at
// most once per exit, and only when the exiting thread's value for
// that slot is non-nil.
package tss

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/evo-i/threads/internal/thrd/goid"
	"github.com/evo-i/threads/internal/thrd/status"
)

// DefaultDestructorCapacity is the initial size of the destructor
// registry, matching the emulated API's slot count.
const DefaultDestructorCapacity = 64

// Slot identifies one per-thread storage cell. Slots are allocated
// by Create; the zero Slot is never allocated and reads as nil
// everywhere.
type Slot uint32

// Destructor is a cleanup callback registered with a slot. At thread
// exit it receives the exiting thread's value for the slot, if that
// value is non-nil.
type Destructor func(value any)

// dtorEntry is one registry cell; a nil dtor marks it free.
type dtorEntry struct {
	slot Slot
	dtor Destructor
}

var (
	nextSlot atomic.Uint32

	// dtorMu guards dtorTbl. Registration scans linearly for a free
	// cell, as the original table does.
	dtorMu  sync.Mutex
	dtorTbl = make([]dtorEntry, DefaultDestructorCapacity)

	// values maps thread id -> that thread's slot table. Each inner
	// table is touched only by its owning thread.
	values sync.Map // int64 -> map[Slot]any
)

// SetDestructorCapacity resizes the destructor registry. Shrinking
// below the number of live registrations fails; registered entries
// are preserved across a grow.
func SetDestructorCapacity(n int) error {
	dtorMu.Lock()
	defer dtorMu.Unlock()
	live := 0
	for _, e := range dtorTbl {
		if e.dtor != nil {
			live++
		}
	}
	if n < live {
		return fmt.Errorf("thrd: destructor capacity %d below %d live registrations", n, live)
	}
	tbl := make([]dtorEntry, n)
	i := 0
	for _, e := range dtorTbl {
		if e.dtor != nil {
			tbl[i] = e
			i++
		}
	}
	dtorTbl = tbl
	return nil
}

// Create allocates a new slot, optionally registering a destructor.
// It fails with status.ErrNoMem once the destructor registry is
// full; the slot is not allocated in that case.
func Create(dtor Destructor) (Slot, error) {
	slot := Slot(nextSlot.Add(1))
	if dtor != nil {
		if err := register(slot, dtor); err != nil {
			return 0, err
		}
	}
	return slot, nil
}

func register(slot Slot, dtor Destructor) error {
	dtorMu.Lock()
	defer dtorMu.Unlock()
	for i := range dtorTbl {
		if dtorTbl[i].dtor == nil {
			dtorTbl[i] = dtorEntry{slot: slot, dtor: dtor}
			return nil
		}
	}
	return status.ErrNoMem
}

// Delete releases the slot's registry entry. It does not invoke the
// destructor and does not scrub values already stored under the slot
// by live threads; those simply become unreachable.
func (s Slot) Delete() {
	dtorMu.Lock()
	for i := range dtorTbl {
		if dtorTbl[i].slot == s && dtorTbl[i].dtor != nil {
			dtorTbl[i] = dtorEntry{}
		}
	}
	dtorMu.Unlock()
}

// Get returns the calling thread's value for the slot, or nil if the
// thread never set one.
func (s Slot) Get() any {
	if tbl, ok := values.Load(goid.Get()); ok {
		return tbl.(map[Slot]any)[s]
	}
	return nil
}

// Set stores the calling thread's value for the slot.
func (s Slot) Set(value any) error {
	id := goid.Get()
	tbl, ok := values.Load(id)
	if !ok {
		tbl, _ = values.LoadOrStore(id, make(map[Slot]any))
	}
	tbl.(map[Slot]any)[s] = value
	return nil
}

// InvokeDestructors walks the destructor registry on behalf of the
// calling thread: every registered destructor whose slot holds a
// non-nil value for this thread is invoked with that value, once.
// The thread's value table is discarded afterwards.
//
// The spawn trampoline calls this after the start routine finishes,
// on both the normal-return and explicit-exit paths, so cleanup
// happens exactly once per thread.
func InvokeDestructors() {
	id := goid.Get()

	dtorMu.Lock()
	entries := make([]dtorEntry, 0, len(dtorTbl))
	for _, e := range dtorTbl {
		if e.dtor != nil {
			entries = append(entries, e)
		}
	}
	dtorMu.Unlock()

	// Invoke outside the registry lock; destructors may themselves
	// call into this package.
	for _, e := range entries {
		if val := e.slot.Get(); val != nil {
			e.dtor(val)
		}
	}

	values.Delete(id)
}
