// Package thread implements the thread lifecycle: creation, join,
// detach, identity comparison, yielding, sleeping, and exit.
//
// A thread here is a goroutine wrapped with the bookkeeping the C11
// contract needs and the Go runtime does not expose: an exit code, a
// joinable completion point, and the destructor-table invocation at
// exit. The trampoline owns a heap-allocated parameter block handed
// over by the spawner — a one-shot message whose ownership transfers
// to the spawned thread — and guarantees thread-local cleanup runs
// exactly once whether the start routine returns normally or calls
// Exit.
//
// Identity is the runtime goroutine id, never the handle: two
// distinct handles referring to the same thread compare equal, and a
// handle with no thread behind it equals nothing.
package thread

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/evo-i/threads/internal/thrd/goid"
	"github.com/evo-i/threads/internal/thrd/sched"
	"github.com/evo-i/threads/internal/thrd/status"
	"github.com/evo-i/threads/internal/thrd/tss"
)

// Func is a thread start routine. Its return value becomes the
// thread's exit code, reported by Join.
type Func func(arg any) int

// Thread is a handle to a running or exited thread.
//
// Lifecycle: created by Spawn; joinable once the start routine
// finishes; or detached, after which Join must not be used. Exactly
// one of Join or Detach reclaims the handle. Joining a detached
// thread, or joining the same thread twice, is undefined behavior
// and is not checked.
type Thread struct {
	// id is the identity of the underlying thread. Comparisons use
	// this, never the handle pointer.
	id int64

	// done is closed by the trampoline after destructors have run
	// and the exit code is published.
	done chan struct{}

	// code is the exit code. Written by the owning thread before
	// done closes; the channel close orders it for joiners.
	code int

	detached atomic.Bool

	// external marks a handle fabricated by Current for a thread
	// not spawned through this package; such a handle carries
	// identity only and cannot be joined or detached.
	external bool
}

// startParam is the spawner-to-thread message: the start routine and
// its argument. Allocated by Spawn, released by the trampoline after
// extracting the payload.
type startParam struct {
	fn  Func
	arg any
}

// threads maps live thread ids to their handles, serving Current and
// Exit. Externally-created goroutines are deliberately not
// registered: their lifetime is invisible here and entries would
// never be reclaimed.
var threads sync.Map // int64 -> *Thread

// Option configures Spawn.
type Option func(*spawnConfig)

type spawnConfig struct {
	pinOSThread bool
}

// WithOSThread pins the spawned thread to its own OS thread for its
// whole lifetime. The OS thread is reclaimed when the thread exits.
func WithOSThread() Option {
	return func(c *spawnConfig) { c.pinOSThread = true }
}

// Spawn starts a new thread running fn(arg) and returns its handle.
// It fails with a generic error for a nil routine. Resource
// exhaustion severe enough to prevent creating a goroutine is fatal
// in the Go runtime and cannot be reported as status.ErrNoMem; see
// the error taxonomy note in the package documentation.
func Spawn(fn Func, arg any, opts ...Option) (*Thread, error) {
	if fn == nil {
		return nil, errors.New("thrd: nil start routine")
	}
	var cfg spawnConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &startParam{fn: fn, arg: arg}
	t := &Thread{done: make(chan struct{})}

	// The handle's identity is only known once the new thread is
	// running; ready gates Spawn's return on it so the returned
	// handle is immediately comparable.
	ready := make(chan struct{})
	go trampoline(t, p, cfg, ready)
	<-ready
	return t, nil
}

// trampoline is the first frame of every spawned thread. It claims
// the parameter block, runs the start routine, and in its deferred
// epilogue invokes the destructor table, publishes the exit code,
// and releases the identity registration — in that order, on every
// exit path including runtime.Goexit from Exit.
func trampoline(t *Thread, p *startParam, cfg spawnConfig, ready chan<- struct{}) {
	if cfg.pinOSThread {
		// Never unlocked: the OS thread dies with the goroutine,
		// matching one-thread-per-spawn semantics.
		runtime.LockOSThread()
	}

	t.id = goid.Get()
	threads.Store(t.id, t)
	close(ready)

	// Ownership of the parameter block transfers here.
	fn, arg := p.fn, p.arg
	p = nil //nolint:wastedassign

	defer func() {
		tss.InvokeDestructors()
		threads.Delete(t.id)
		close(t.done)
	}()

	t.code = fn(arg)
}

// Join blocks until t finishes, then reports its exit code. Joining
// a handle obtained from Current for a thread not spawned by this
// package fails with a generic error; joining a detached or
// already-joined thread is undefined behavior.
func Join(t *Thread) (int, error) {
	if t == nil || t.external {
		return 0, errors.New("thrd: thread not joinable")
	}
	<-t.done
	return t.code, nil
}

// Detach releases resource reclamation to the runtime. After Detach,
// Join must not be called on the same handle.
func Detach(t *Thread) error {
	if t == nil || t.external {
		return errors.New("thrd: thread not detachable")
	}
	t.detached.Store(true)
	return nil
}

// Detached reports whether the handle has been detached.
func (t *Thread) Detached() bool { return t.detached.Load() }

// ID returns the thread's identity, or 0 for a nil handle.
func (t *Thread) ID() int64 {
	if t == nil {
		return 0
	}
	return t.id
}

// Equal reports whether a and b refer to the same thread. The
// comparison is on identity, not handle: distinct handles for one
// thread are equal, and a handle with no thread behind it (nil, or
// zero identity) equals nothing — not even another such handle.
func Equal(a, b *Thread) bool {
	return a.ID() != 0 && a.ID() == b.ID()
}

// Current returns a handle referring to the calling thread. For
// threads spawned by this package it is the original handle; for any
// other goroutine (the main goroutine included) it is a fresh
// identity-only handle usable with Equal but not with Join or
// Detach.
func Current() *Thread {
	id := goid.Get()
	if v, ok := threads.Load(id); ok {
		return v.(*Thread)
	}
	return &Thread{id: id, external: true}
}

// Yield relinquishes the remainder of the calling thread's
// scheduling quantum.
func Yield() {
	sched.Yield()
}

// Sleep suspends the calling thread for at least d. Reporting the
// remaining, unslept time is not supported: a non-nil remaining
// fails explicitly with status.ErrUnsupported before sleeping.
func Sleep(d time.Duration, remaining *time.Duration) error {
	if remaining != nil {
		return status.ErrUnsupported
	}
	sched.Sleep(d)
	return nil
}

// Exit terminates the calling thread with the given exit code; it
// does not return. For a thread spawned by this package the
// trampoline epilogue runs the destructor table and publishes code
// to joiners. For any other goroutine the destructor table is
// invoked here and the code is discarded, since there is no joiner
// to receive it.
func Exit(code int) {
	if v, ok := threads.Load(goid.Get()); ok {
		v.(*Thread).code = code
	} else {
		tss.InvokeDestructors()
	}
	runtime.Goexit()
}
