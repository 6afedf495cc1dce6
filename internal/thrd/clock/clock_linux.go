// Copyright 2025 The threads Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package clock

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// platformNow samples CLOCK_REALTIME through clock_gettime, the
// native equivalent of timespec_get(TIME_UTC).
func platformNow() (TimeSpec, error) {
	var uts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &uts); err != nil {
		return TimeSpec{}, fmt.Errorf("thrd: clock_gettime(CLOCK_REALTIME): %w", err)
	}
	return TimeSpec{Sec: int64(uts.Sec), Nsec: int64(uts.Nsec)}, nil
}

// platformMonotonic samples CLOCK_MONOTONIC.
func platformMonotonic() (TimeSpec, error) {
	var uts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &uts); err != nil {
		return TimeSpec{}, fmt.Errorf("thrd: clock_gettime(CLOCK_MONOTONIC): %w", err)
	}
	return TimeSpec{Sec: int64(uts.Sec), Nsec: int64(uts.Nsec)}, nil
}
