// Package clock supplies the time representation and conversions
// used by the timed wait and timed lock operations.
//
// A TimeSpec mirrors struct timespec from C11: seconds plus
// nanoseconds, representing either an absolute point on the wall
// clock (a deadline) or a duration. The package normalizes absolute
// deadlines into the relative millisecond waits the emulation layers
// poll against, and samples the host clock through the native
// interface for the platform (clock_gettime on Linux, the system
// file time on Windows, the Go runtime clock elsewhere).
package clock

import "time"

const (
	nsecPerSec  = 1_000_000_000
	nsecPerMsec = 1_000_000
	msecPerSec  = 1_000
)

// TimeSpec is an absolute point in time or a duration, as seconds
// plus nanoseconds. Valid values keep Sec >= 0 and Nsec within
// [0, 999999999]. It is an immutable value type passed by value into
// wait calls.
type TimeSpec struct {
	// Sec is whole seconds. >= 0.
	Sec int64

	// Nsec is the nanosecond remainder. [0, 999999999].
	Nsec int64
}

// FromTime converts an absolute time.Time into a TimeSpec on the
// Unix epoch.
func FromTime(t time.Time) TimeSpec {
	return TimeSpec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// FromDuration converts a non-negative duration into a TimeSpec.
// Negative durations clamp to zero.
func FromDuration(d time.Duration) TimeSpec {
	if d < 0 {
		d = 0
	}
	return TimeSpec{Sec: int64(d / time.Second), Nsec: int64(d % time.Second)}
}

// Valid reports whether the value is normalized: non-negative
// seconds and nanoseconds within [0, 999999999].
func (ts TimeSpec) Valid() bool {
	return ts.Sec >= 0 && ts.Nsec >= 0 && ts.Nsec < nsecPerSec
}

// Milliseconds flattens the value to whole milliseconds, truncating
// the sub-millisecond remainder. This is the native wait-timeout
// unit of the emulation.
func (ts TimeSpec) Milliseconds() int64 {
	return ts.Sec*msecPerSec + ts.Nsec/nsecPerMsec
}

// Duration returns the value interpreted as a duration.
func (ts TimeSpec) Duration() time.Duration {
	return time.Duration(ts.Sec)*time.Second + time.Duration(ts.Nsec)
}

// Time returns the value interpreted as an absolute time on the
// Unix epoch.
func (ts TimeSpec) Time() time.Time {
	return time.Unix(ts.Sec, ts.Nsec)
}
