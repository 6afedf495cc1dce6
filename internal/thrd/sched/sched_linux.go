// Copyright 2025 The threads Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package sched

import "golang.org/x/sys/unix"

// platformYield invokes sched_yield(2). The syscall cannot fail for
// a running thread; the raw invocation avoids depending on a wrapper
// signature.
func platformYield() {
	unix.Syscall(unix.SYS_SCHED_YIELD, 0, 0, 0) //nolint:errcheck
}
