// Package status defines the outcome vocabulary shared by every
// primitive in the module.
//
// The C11 threads API reports outcomes as small integer codes
// (thrd_success, thrd_timedout, thrd_error, thrd_busy, thrd_nomem).
// In Go the same taxonomy is expressed as sentinel errors matchable
// with errors.Is; the integer codes are kept as Code values for
// callers porting C call sites.
package status

import "errors"

// Code is the integer outcome of an operation, numbered identically
// to the C11 thrd_* enumeration.
type Code int

const (
	// Success reports that the operation completed.
	Success Code = iota

	// TimedOut reports that a deadline elapsed before a timed wait
	// or timed lock could complete.
	TimedOut

	// Error reports a failure not otherwise classified.
	Error

	// Busy reports that a non-blocking acquisition failed because
	// the resource is held elsewhere.
	Busy

	// NoMem reports allocation failure or registry-capacity
	// exhaustion.
	NoMem
)

// String returns the C11 spelling of the code.
func (c Code) String() string {
	switch c {
	case Success:
		return "thrd_success"
	case TimedOut:
		return "thrd_timedout"
	case Error:
		return "thrd_error"
	case Busy:
		return "thrd_busy"
	case NoMem:
		return "thrd_nomem"
	default:
		return "thrd_invalid"
	}
}

// Sentinel errors for the outcome taxonomy. Fallible operations
// return these directly, or an error wrapping them.
var (
	// ErrTimedOut is returned when a deadline elapses on a timed
	// wait or timed lock.
	ErrTimedOut = errors.New("thrd: deadline elapsed")

	// ErrBusy is returned by non-blocking acquisition when the
	// resource is held by another owner.
	ErrBusy = errors.New("thrd: resource busy")

	// ErrNoMem is returned on allocation failure or when a bounded
	// registry is full.
	ErrNoMem = errors.New("thrd: out of resources")

	// ErrUnsupported is returned when a caller requests an optional
	// capability the implementation chose not to provide.
	ErrUnsupported = errors.New("thrd: not supported")
)

// FromError maps an error produced by this module back to its
// integer outcome code. A nil error maps to Success and an
// unrecognized error to Error.
func FromError(err error) Code {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrTimedOut):
		return TimedOut
	case errors.Is(err, ErrBusy):
		return Busy
	case errors.Is(err, ErrNoMem):
		return NoMem
	default:
		return Error
	}
}
