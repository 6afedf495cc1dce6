package mutex

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evo-i/threads/internal/thrd/clock"
	"github.com/evo-i/threads/internal/thrd/status"
)

// deadlineIn builds an absolute deadline d from the wall clock now.
func deadlineIn(t *testing.T, d time.Duration) clock.TimeSpec {
	t.Helper()
	now, err := clock.Now()
	require.NoError(t, err)
	return clock.FromTime(now.Time().Add(d))
}

// tryLockElsewhere runs TryLock on a separate thread and reports its
// outcome, so owner-sensitive paths are exercised from a non-owner.
func tryLockElsewhere(m *Mutex) error {
	result := make(chan error, 1)
	go func() {
		err := m.TryLock()
		if err == nil {
			m.Unlock()
		}
		result <- err
	}()
	return <-result
}

// TestNewValidModes checks every combination the contract admits.
func TestNewValidModes(t *testing.T) {
	modes := []Mode{
		Plain, Try, Timed,
		Plain | Recursive, Try | Recursive, Timed | Recursive,
	}
	for _, mode := range modes {
		m, err := New(mode)
		require.NoError(t, err, "mode %#x", int(mode))
		require.NotNil(t, m)
		assert.Equal(t, mode, m.Mode())
	}
}

// TestNewInvalidModes checks every other combination is rejected and
// allocates nothing.
func TestNewInvalidModes(t *testing.T) {
	modes := []Mode{
		Try | Timed,
		Try | Timed | Recursive,
		Mode(0x8),
		Mode(-1),
	}
	for _, mode := range modes {
		m, err := New(mode)
		require.Error(t, err, "mode %#x", int(mode))
		assert.Nil(t, m)
	}
}

// TestLockUnlockMutualExclusion checks a plain mutex keeps a counter
// exact under contention.
func TestLockUnlockMutualExclusion(t *testing.T) {
	m, err := New(Plain)
	require.NoError(t, err)

	const workers, iters = 8, 10_000
	counter := 0
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, workers*iters, counter)
}

// TestTryLockBusy checks a held mutex reports busy to other threads
// without blocking them.
func TestTryLockBusy(t *testing.T) {
	m, err := New(Try)
	require.NoError(t, err)

	require.NoError(t, m.Lock())
	assert.ErrorIs(t, tryLockElsewhere(m), status.ErrBusy)
	require.NoError(t, m.Unlock())

	assert.NoError(t, tryLockElsewhere(m))
}

// TestRecursiveReentry checks a recursive mutex locked n times by
// its owner needs exactly n unlocks before another thread gets in.
func TestRecursiveReentry(t *testing.T) {
	m, err := New(Try | Recursive)
	require.NoError(t, err)

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, m.Lock())
	}
	// Legal re-entry through TryLock as well.
	require.NoError(t, m.TryLock())

	for i := 0; i < n; i++ {
		require.NoError(t, m.Unlock())
		assert.ErrorIs(t, tryLockElsewhere(m), status.ErrBusy,
			"mutex released after %d of %d unlocks", i+1, n+1)
	}
	require.NoError(t, m.Unlock())

	assert.NoError(t, tryLockElsewhere(m))
}

// TestLockDeadlinePast checks a past deadline degrades to a single
// try: immediate timeout on a held mutex, immediate acquisition on a
// free one.
func TestLockDeadlinePast(t *testing.T) {
	m, err := New(Timed)
	require.NoError(t, err)
	past := clock.TimeSpec{Sec: 1}

	require.NoError(t, m.Lock())
	result := make(chan error, 1)
	start := time.Now()
	go func() { result <- m.LockDeadline(past) }()
	require.ErrorIs(t, <-result, status.ErrTimedOut)
	assert.Less(t, time.Since(start), time.Second, "past deadline blocked")
	require.NoError(t, m.Unlock())

	require.NoError(t, m.LockDeadline(past), "free mutex must still satisfy the immediate try")
	require.NoError(t, m.Unlock())
}

// TestLockDeadlineAcquiresAfterRelease checks the polling loop picks
// the mutex up once the holder releases within the deadline.
func TestLockDeadlineAcquiresAfterRelease(t *testing.T) {
	m, err := New(Timed)
	require.NoError(t, err)
	require.NoError(t, m.Lock())

	deadline := deadlineIn(t, 2*time.Second)
	acquired := make(chan error, 1)
	go func() {
		err := m.LockDeadline(deadline)
		if err == nil {
			m.Unlock()
		}
		acquired <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, m.Unlock())
	assert.NoError(t, <-acquired)
}

// TestLockDeadlineTimesOutUnderContention checks a holder that never
// releases forces the timed-out outcome.
func TestLockDeadlineTimesOutUnderContention(t *testing.T) {
	m, err := New(Timed)
	require.NoError(t, err)
	require.NoError(t, m.Lock())
	defer m.Unlock()

	deadline := deadlineIn(t, 100*time.Millisecond)
	result := make(chan error, 1)
	go func() { result <- m.LockDeadline(deadline) }()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, status.ErrTimedOut)
	case <-time.After(5 * time.Second):
		t.Fatal("timed lock never returned")
	}
}

// TestUnlockByNonOwnerPanics documents the debug assertion on the
// undefined unlock-by-non-owner path.
func TestUnlockByNonOwnerPanics(t *testing.T) {
	m, err := New(Plain)
	require.NoError(t, err)

	locked := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		m.Lock()
		close(locked)
		<-release
		m.Unlock()
		close(finished)
	}()
	<-locked

	assert.Panics(t, func() { m.Unlock() })

	close(release)
	<-finished
}

// TestDestroyIdle checks Destroy on an idle mutex is a no-op and on
// a held one trips the debug assertion.
func TestDestroyIdle(t *testing.T) {
	m, err := New(Plain)
	require.NoError(t, err)
	assert.NotPanics(t, func() { m.Destroy() })

	held, _ := New(Plain)
	require.NoError(t, held.Lock())
	assert.Panics(t, func() { held.Destroy() })
	require.NoError(t, held.Unlock())
}

// TestZeroValuePlain checks the zero Mutex is usable as a plain
// mutex, mirroring the emulated API's static initializer.
func TestZeroValuePlain(t *testing.T) {
	var m Mutex
	assert.Equal(t, Plain, m.Mode())
	require.NoError(t, m.Lock())
	require.NoError(t, m.Unlock())
}
