// Copyright 2025 The threads Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package clock

import "golang.org/x/sys/windows"

// platformNow samples the system file-time clock. Filetime
// resolution is 100ns, comfortably finer than the millisecond wait
// unit everything downstream converts to.
func platformNow() (TimeSpec, error) {
	var ft windows.Filetime
	windows.GetSystemTimeAsFileTime(&ft)
	ns := ft.Nanoseconds() // already rebased onto the Unix epoch
	return TimeSpec{Sec: ns / nsecPerSec, Nsec: ns % nsecPerSec}, nil
}

// platformMonotonic uses the runtime's monotonic reading; Windows
// exposes no clock_gettime-style monotonic interface.
func platformMonotonic() (TimeSpec, error) {
	return sinceStart(), nil
}
