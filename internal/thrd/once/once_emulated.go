//go:build thrd_emulate_once

package once

import (
	"sync/atomic"

	"github.com/evo-i/threads/internal/thrd/sched"
)

// Flag states. A flag moves not-started -> in-progress -> done,
// never backwards.
const (
	notStarted uint32 = iota
	inProgress
	done
)

// Flag is the one-time-init token shared by all callers guarding the
// same initializer. The zero value means not-started.
//
// A Flag must not be copied after first use.
type Flag struct {
	status atomic.Uint32
}

// Do runs the emulated one-time initialization: the caller that wins
// the compare-and-swap from not-started to in-progress runs the
// initializer and then marks the flag done; every other caller spins
// on the flag, yielding each iteration, until it reads done.
func Do(flag *Flag, initializer func()) {
	if flag.status.CompareAndSwap(notStarted, inProgress) {
		initializer()
		flag.status.Store(done)
		return
	}
	for flag.status.Load() == inProgress {
		// busy loop!
		sched.Yield()
	}
}
