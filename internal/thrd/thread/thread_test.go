package thread

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evo-i/threads/internal/thrd/status"
	"github.com/evo-i/threads/internal/thrd/tss"
)

// TestSpawnJoinExitCode checks Join reports the exact code the start
// routine returned.
func TestSpawnJoinExitCode(t *testing.T) {
	th, err := Spawn(func(arg any) int { return arg.(int) }, 42)
	require.NoError(t, err)

	code, err := Join(th)
	require.NoError(t, err)
	assert.Equal(t, 42, code)
}

// TestSpawnNilRoutine checks a nil start routine is rejected.
func TestSpawnNilRoutine(t *testing.T) {
	th, err := Spawn(nil, nil)
	require.Error(t, err)
	assert.Nil(t, th)
}

// TestExitReportsCode checks Exit terminates the thread immediately
// and its code reaches the joiner.
func TestExitReportsCode(t *testing.T) {
	var reachedAfterExit atomic.Bool
	th, err := Spawn(func(any) int {
		Exit(7)
		reachedAfterExit.Store(true)
		return 0
	}, nil)
	require.NoError(t, err)

	code, err := Join(th)
	require.NoError(t, err)
	assert.Equal(t, 7, code)
	assert.False(t, reachedAfterExit.Load(), "Exit returned to its caller")
}

// TestDestructorsRunOnBothExitPaths checks the destructor table runs
// exactly once per thread on the normal-return path and on the
// explicit-Exit path.
func TestDestructorsRunOnBothExitPaths(t *testing.T) {
	var calls atomic.Int32
	slot, err := tss.Create(func(any) { calls.Add(1) })
	require.NoError(t, err)
	defer slot.Delete()

	returning, err := Spawn(func(any) int {
		slot.Set("a")
		return 0
	}, nil)
	require.NoError(t, err)
	_, err = Join(returning)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	exiting, err := Spawn(func(any) int {
		slot.Set("b")
		Exit(0)
		return 0
	}, nil)
	require.NoError(t, err)
	_, err = Join(exiting)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

// TestIdentity checks Equal compares identity rather than handle:
// Current inside a thread equals the spawner's handle for it,
// distinct threads differ, and identity-less handles equal nothing.
func TestIdentity(t *testing.T) {
	var inside *Thread
	th, err := Spawn(func(any) int {
		inside = Current()
		return 0
	}, nil)
	require.NoError(t, err)
	_, err = Join(th)
	require.NoError(t, err)

	assert.True(t, Equal(th, inside), "handle and in-thread Current disagree")
	assert.False(t, Equal(th, Current()), "spawned thread equals the test thread")

	assert.True(t, Equal(Current(), Current()), "Current unstable within a thread")

	var zero Thread
	assert.False(t, Equal(&zero, &zero), "identity-less handles must equal nothing")
	assert.False(t, Equal(nil, nil))
	assert.False(t, Equal(th, nil))
}

// TestCurrentExternal checks handles fabricated for threads not
// spawned here carry identity but refuse join and detach.
func TestCurrentExternal(t *testing.T) {
	self := Current()
	require.NotZero(t, self.ID())

	_, err := Join(self)
	assert.Error(t, err)
	assert.Error(t, Detach(self))
}

// TestDetach checks a detached thread still runs to completion and
// its handle reports the detached state.
func TestDetach(t *testing.T) {
	ran := make(chan struct{})
	th, err := Spawn(func(any) int {
		close(ran)
		return 0
	}, nil)
	require.NoError(t, err)

	require.NoError(t, Detach(th))
	assert.True(t, th.Detached())

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("detached thread never ran")
	}
}

// TestSleepRemainingUnsupported checks requesting remaining-time
// reporting fails explicitly without sleeping.
func TestSleepRemainingUnsupported(t *testing.T) {
	var rem time.Duration
	start := time.Now()
	err := Sleep(time.Hour, &rem)
	require.ErrorIs(t, err, status.ErrUnsupported)
	assert.Less(t, time.Since(start), time.Second)
}

// TestSleepDuration checks Sleep suspends for at least the requested
// duration.
func TestSleepDuration(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(50*time.Millisecond, nil))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

// TestWithOSThread smoke-tests spawning pinned to an OS thread.
func TestWithOSThread(t *testing.T) {
	th, err := Spawn(func(any) int { return 3 }, nil, WithOSThread())
	require.NoError(t, err)
	code, err := Join(th)
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

// TestYield smoke-tests the voluntary yield.
func TestYield(t *testing.T) {
	assert.NotPanics(t, Yield)
}

// TestSpawnManyJoinAll stresses handle bookkeeping across many
// concurrent threads.
func TestSpawnManyJoinAll(t *testing.T) {
	const n = 100
	threads := make([]*Thread, n)
	for i := 0; i < n; i++ {
		th, err := Spawn(func(arg any) int { return arg.(int) }, i)
		require.NoError(t, err)
		threads[i] = th
	}
	for i, th := range threads {
		code, err := Join(th)
		require.NoError(t, err)
		assert.Equal(t, i, code)
	}
}
