// Copyright 2025 The threads Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package sched

import "golang.org/x/sys/windows"

// platformYield relinquishes the thread's quantum. SleepEx(0) gives
// up the remainder of the time slice to any ready thread.
func platformYield() {
	windows.SleepEx(0, false)
}
