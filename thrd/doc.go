// Package thrd provides C11 <threads.h>-shaped threading and
// synchronization primitives — threads, mutexes, condition
// variables, thread-local storage, and one-time initialization —
// emulated on top of the Go runtime.
//
// The package is a conforming emulation of the standard threads
// contract for embedders porting C call sites: the native primitives
// of this host (goroutines, sync.Mutex, channels, sync.Once) play
// the role Win32 objects or pthreads play under the C emulations,
// and each primitive's full semantics — timeouts, the error
// taxonomy, recursive-lock variants, destructor ordering at thread
// exit, the fast/slow call-once split — are reconstructed above
// them.
//
// # Mapping from the C API
//
//	mtx_init/lock/trylock/timedlock/unlock/destroy  NewMutex, (*Mutex).Lock/TryLock/LockDeadline/Unlock/Destroy
//	cnd_init/wait/timedwait/signal/broadcast/destroy  NewCond, (*Cond).Wait/WaitDeadline/Signal/Broadcast/Destroy
//	thrd_create/join/detach/equal/current/yield/sleep/exit  Spawn, Join, Detach, Equal, Current, Yield, Sleep*, Exit
//	tss_create/get/set/delete  NewSlot, Slot.Get/Set/Delete
//	call_once  CallOnce
//	timespec_get  Now
//
// Outcomes are sentinel errors (ErrTimedOut, ErrBusy, ErrNoMem,
// ErrUnsupported) matchable with errors.Is; StatusFromError recovers
// the C integer code when porting call sites that switch on it.
//
// # Waiting
//
// Every wait operation — Lock, LockDeadline's polling loop, Wait,
// WaitDeadline, Join, SleepFor, the emulated CallOnce spin — is a
// genuine suspension point yielding the CPU to the scheduler. There
// is no cancellation mechanism beyond the deadline checks built into
// the timed variants. Mutex acquisition order under contention and
// wakeup selection among condition-variable waiters are unspecified.
//
// Timed locking has no native primitive underneath and polls
// TryLock with a yield between attempts: a documented latency and
// fairness caveat, not a correctness one.
//
// # Usage
//
//	m, err := thrd.NewMutex(thrd.MutexTimed)
//	if err != nil { ... }
//	c := thrd.NewCond()
//
//	t, err := thrd.Spawn(func(arg any) int {
//		m.Lock()
//		for !ready() {
//			c.Wait(m)
//		}
//		m.Unlock()
//		return 0
//	}, nil)
//	if err != nil { ... }
//	code, err := thrd.Join(t)
//
// Misuse — unlocking a mutex the caller does not hold, joining a
// thread twice or after Detach, destroying a primitive with waiters
// — is undefined behavior, exactly as in the emulated contract. Some
// misuses panic as a debugging aid; none are reported as errors.
package thrd
