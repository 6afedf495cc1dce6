package thrd

import (
	"time"

	"github.com/evo-i/threads/internal/thrd/clock"
	"github.com/evo-i/threads/internal/thrd/cond"
	"github.com/evo-i/threads/internal/thrd/mutex"
	"github.com/evo-i/threads/internal/thrd/once"
	"github.com/evo-i/threads/internal/thrd/thread"
	"github.com/evo-i/threads/internal/thrd/tss"
)

// TimeSpec is an absolute point in time (a deadline) or a duration,
// as seconds plus nanoseconds on the wall clock.
type TimeSpec = clock.TimeSpec

// Now samples the wall clock. It fails only if the host exposes no
// usable clock, which is fatal to every timed operation.
func Now() (TimeSpec, error) {
	return clock.Now()
}

// MonotonicNow samples a clock that never moves backwards, with an
// arbitrary epoch.
func MonotonicNow() (TimeSpec, error) {
	return clock.Monotonic()
}

// DeadlineIn returns an absolute deadline d from now, for the timed
// lock and wait operations.
func DeadlineIn(d time.Duration) (TimeSpec, error) {
	now, err := clock.Now()
	if err != nil {
		return TimeSpec{}, err
	}
	return clock.FromTime(now.Time().Add(d)), nil
}

// Mutex is a mutual-exclusion lock with plain, try, timed, and
// recursive variants. The zero value is a usable plain mutex.
type Mutex = mutex.Mutex

// MutexMode selects mutex capabilities at creation.
type MutexMode = mutex.Mode

// Mutex creation modes: one of MutexPlain, MutexTry, MutexTimed,
// optionally ORed with MutexRecursive. Numbered identically to the
// C mtx_* constants.
const (
	MutexPlain     = mutex.Plain
	MutexTry       = mutex.Try
	MutexTimed     = mutex.Timed
	MutexRecursive = mutex.Recursive
)

// NewMutex allocates a mutex of the given mode. Invalid mode
// combinations are rejected with an initialization error.
func NewMutex(mode MutexMode) (*Mutex, error) {
	return mutex.New(mode)
}

// Cond is a condition variable paired per wait with a
// caller-supplied Mutex. The zero value is ready to use.
type Cond = cond.Cond

// NewCond allocates a condition variable.
func NewCond() *Cond {
	return cond.New()
}

// Thread is a handle to a running or exited thread.
type Thread = thread.Thread

// StartRoutine is a thread entry point; its return value becomes the
// thread's exit code.
type StartRoutine = thread.Func

// SpawnOption configures Spawn.
type SpawnOption = thread.Option

// WithOSThread pins the spawned thread to a dedicated OS thread for
// its lifetime.
func WithOSThread() SpawnOption {
	return thread.WithOSThread()
}

// Spawn starts a new thread running fn(arg) and returns its handle.
func Spawn(fn StartRoutine, arg any, opts ...SpawnOption) (*Thread, error) {
	return thread.Spawn(fn, arg, opts...)
}

// Join blocks until t finishes, reclaims it, and reports its exit
// code. Joining a detached thread or joining twice is undefined
// behavior.
func Join(t *Thread) (int, error) {
	return thread.Join(t)
}

// Detach releases t's reclamation to the runtime; Join must not be
// used on the handle afterwards.
func Detach(t *Thread) error {
	return thread.Detach(t)
}

// Equal reports whether two handles refer to the same thread.
// Identity is compared, never handle representation.
func Equal(a, b *Thread) bool {
	return thread.Equal(a, b)
}

// Current returns a handle referring to the calling thread.
func Current() *Thread {
	return thread.Current()
}

// Yield relinquishes the remainder of the calling thread's
// scheduling quantum.
func Yield() {
	thread.Yield()
}

// SleepFor suspends the calling thread for at least d.
func SleepFor(d time.Duration) error {
	return thread.Sleep(d, nil)
}

// Sleep is the C-shaped sleep: it suspends for at least the duration
// ts. Reporting remaining, unslept time is not supported; a non-nil
// remaining fails with ErrUnsupported before sleeping.
func Sleep(ts TimeSpec, remaining *TimeSpec) error {
	if remaining != nil {
		return ErrUnsupported
	}
	return thread.Sleep(ts.Duration(), nil)
}

// Exit terminates the calling thread with the given exit code after
// running its thread-local destructors; it does not return.
func Exit(code int) {
	thread.Exit(code)
}

// Slot is a process-wide key for one per-thread storage cell.
type Slot = tss.Slot

// Destructor is a cleanup callback invoked at thread exit with the
// exiting thread's non-nil value for the slot.
type Destructor = tss.Destructor

// NewSlot registers a new thread-local storage slot, optionally with
// a destructor. It fails with ErrNoMem once the destructor registry
// is full; see SetDestructorCapacity.
func NewSlot(dtor Destructor) (Slot, error) {
	return tss.Create(dtor)
}

// SetDestructorCapacity resizes the bounded destructor registry
// (default 64 entries). Shrinking below the live registration count
// fails.
func SetDestructorCapacity(n int) error {
	return tss.SetDestructorCapacity(n)
}

// OnceFlag is a one-time-initialization token shared by all callers
// guarding the same initializer. The zero value means not-started.
type OnceFlag = once.Flag

// CallOnce runs initializer exactly once across all callers sharing
// flag; every caller returns only after the initializer has
// completed. The backend is the native primitive by default, or the
// compare-and-swap emulation under the thrd_emulate_once build tag.
func CallOnce(flag *OnceFlag, initializer func()) {
	once.Do(flag, initializer)
}
