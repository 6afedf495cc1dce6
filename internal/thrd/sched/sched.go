// Package sched provides the voluntary-yield and sleep operations
// the emulation layers block with.
//
// Yield targets the goroutine scheduler, which is the scheduler that
// actually multiplexes threads in this module. OSYield additionally
// yields the underlying OS thread and matters only for threads
// spawned with OS-thread pinning, where the goroutine owns its
// thread outright.
package sched

import (
	"runtime"
	"time"
)

// Yield relinquishes the remainder of the calling thread's
// scheduling quantum. Used by the busy-wait fallbacks (timed lock,
// emulated call-once) between polls.
func Yield() {
	runtime.Gosched()
}

// OSYield yields the calling OS thread to the kernel scheduler, then
// yields the goroutine as well. Only meaningful when the caller is
// pinned to its OS thread; otherwise it degrades to Yield.
func OSYield() {
	platformYield()
	runtime.Gosched()
}

// Sleep suspends the calling thread for at least d. The runtime
// timer parks the goroutine without pinning its OS thread, so a
// native nanosleep is deliberately not used here.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
