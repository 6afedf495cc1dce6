// Copyright 2025 The threads Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goid extracts the runtime identifier of the calling
// goroutine.
//
// Thread identity in this module is deliberately independent of the
// handle representation: two distinct Thread handles referring to the
// same underlying goroutine must compare equal, so comparisons are
// made on the runtime goroutine id rather than on handle pointers.
//
// The id is obtained by parsing the first line of runtime.Stack
// output ("goroutine 123 [running]:"). This costs on the order of a
// microsecond, which is acceptable here because every caller on a hot
// path caches the id once per thread (the spawn trampoline captures
// it at startup; lock owners capture it per acquisition attempt,
// which is already a blocking operation).
package goid

import "runtime"

// Get returns the runtime id of the calling goroutine.
//
// The id is positive and unique among live goroutines. A return of 0
// indicates that the runtime stack header could not be parsed, which
// does not happen on any released Go runtime.
func Get() int64 {
	// The id is on the first line of the stack header; 64 bytes is
	// always enough to cover "goroutine <id> [running]:".
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse extracts the goroutine id from a stack-trace header.
//
// Expected format: "goroutine 123 [running]:...". Returns 0 if the
// header does not match. Direct byte parsing, no allocations.
func parse(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	var id int64
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
