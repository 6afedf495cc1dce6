// Copyright 2025 The threads Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !windows

package sched

import "runtime"

// platformYield has no native counterpart wired in on this platform;
// the goroutine scheduler yield is the best available.
func platformYield() {
	runtime.Gosched()
}
