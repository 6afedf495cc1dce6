// Copyright 2025 The threads Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !windows

package clock

import "time"

// platformNow falls back to the Go runtime clock on platforms
// without a dedicated native interface wired in.
func platformNow() (TimeSpec, error) {
	return FromTime(time.Now()), nil
}

func platformMonotonic() (TimeSpec, error) {
	return sinceStart(), nil
}
