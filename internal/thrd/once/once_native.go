//go:build !thrd_emulate_once

// Package once implements one-time initialization with a
// double-checked fast path.
//
// Two backends exist, selected at build time by the
// thrd_emulate_once tag — one active backend per build, mirroring
// the emulated API's EMULATED_THREADS_USE_NATIVE_CALL_ONCE
// configuration macro:
//
//   - default: delegate to the host's native one-time-init
//     primitive (sync.Once);
//   - thrd_emulate_once: a tri-state flag driven by compare-and-swap
//     with a yielding busy-wait for losers, for exercising the
//     fallback the emulation would need on a host without a native
//     primitive.
//
// Under either backend the initializer runs at most once across all
// callers sharing a Flag, and no caller returns before it has
// completed.
package once

import "sync"

// Flag is the one-time-init token shared by all callers guarding the
// same initializer. The zero value means not-started, matching the
// emulated API's static initializer.
//
// A Flag must not be copied after first use.
type Flag struct {
	once sync.Once
}

// Do delegates directly to the native primitive.
func Do(flag *Flag, initializer func()) {
	flag.once.Do(initializer)
}
