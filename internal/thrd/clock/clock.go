package clock

import "time"

// monotonicBase anchors the portable monotonic clock. time.Since
// carries the runtime's monotonic reading, so samples derived from
// it never move backwards even across wall-clock adjustments.
var monotonicBase = time.Now()

// Now samples the wall clock.
//
// The only failure mode is the platform clock interface itself
// erroring, which on every supported platform means the host exposes
// no usable clock at all; there is no degraded mode.
func Now() (TimeSpec, error) {
	return platformNow()
}

// Monotonic samples a clock that never moves backwards. The epoch is
// arbitrary (platform boot or process start); samples are only
// meaningful relative to each other.
func Monotonic() (TimeSpec, error) {
	return platformMonotonic()
}

// UntilMilliseconds converts an absolute wall-clock deadline into
// the relative millisecond wait the native primitives understand:
// max(0, deadline - now). A deadline already in the past yields 0,
// i.e. an immediate try.
func UntilMilliseconds(deadline TimeSpec) (int64, error) {
	now, err := Now()
	if err != nil {
		return 0, err
	}
	absMs := deadline.Milliseconds()
	nowMs := now.Milliseconds()
	if absMs <= nowMs {
		return 0, nil
	}
	return absMs - nowMs, nil
}

// sinceStart is the portable monotonic sample used on platforms
// without a dedicated monotonic clock interface.
func sinceStart() TimeSpec {
	return FromDuration(time.Since(monotonicBase))
}
