package thrd

import "github.com/evo-i/threads/internal/thrd/status"

// Sentinel errors forming the outcome taxonomy, uniform across all
// operations. Fallible operations return one of these, or an error
// wrapping one, or a generic error for native-call failures not
// otherwise classified.
var (
	// ErrTimedOut reports that a deadline elapsed on a timed wait
	// or timed lock.
	ErrTimedOut = status.ErrTimedOut

	// ErrBusy reports that a non-blocking acquisition failed due to
	// contention.
	ErrBusy = status.ErrBusy

	// ErrNoMem reports allocation failure or registry-capacity
	// exhaustion.
	ErrNoMem = status.ErrNoMem

	// ErrUnsupported reports a request for an optional capability
	// this implementation does not provide.
	ErrUnsupported = status.ErrUnsupported
)

// Status is the C11-style integer outcome code, for callers porting
// code that switches on thrd_success and friends.
type Status = status.Code

// Integer outcome codes, numbered identically to the C enumeration.
const (
	Success  = status.Success
	TimedOut = status.TimedOut
	Error    = status.Error
	Busy     = status.Busy
	NoMem    = status.NoMem
)

// StatusFromError maps an error returned by this package to its
// integer outcome code. nil maps to Success.
func StatusFromError(err error) Status {
	return status.FromError(err)
}
