package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTimeSpecValid checks normalization bounds.
func TestTimeSpecValid(t *testing.T) {
	tests := []struct {
		name string
		ts   TimeSpec
		want bool
	}{
		{"zero", TimeSpec{}, true},
		{"normal", TimeSpec{Sec: 5, Nsec: 999_999_999}, true},
		{"nsec overflow", TimeSpec{Sec: 5, Nsec: 1_000_000_000}, false},
		{"negative nsec", TimeSpec{Sec: 5, Nsec: -1}, false},
		{"negative sec", TimeSpec{Sec: -1, Nsec: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ts.Valid())
		})
	}
}

// TestTimeSpecMilliseconds checks flattening to the native wait
// unit, including truncation of the sub-millisecond remainder.
func TestTimeSpecMilliseconds(t *testing.T) {
	assert.Equal(t, int64(0), TimeSpec{}.Milliseconds())
	assert.Equal(t, int64(2_500), TimeSpec{Sec: 2, Nsec: 500_000_000}.Milliseconds())
	assert.Equal(t, int64(2_000), TimeSpec{Sec: 2, Nsec: 999_999}.Milliseconds())
}

// TestFromDuration checks conversion and the negative clamp.
func TestFromDuration(t *testing.T) {
	ts := FromDuration(1500 * time.Millisecond)
	assert.Equal(t, TimeSpec{Sec: 1, Nsec: 500_000_000}, ts)

	assert.Equal(t, TimeSpec{}, FromDuration(-time.Second))
}

// TestFromTimeRoundTrip checks Time/FromTime agree.
func TestFromTimeRoundTrip(t *testing.T) {
	now := time.Now()
	ts := FromTime(now)
	require.True(t, ts.Valid())
	assert.Equal(t, now.Unix(), ts.Time().Unix())
	assert.Equal(t, int64(now.Nanosecond()), ts.Nsec)
}

// TestNow checks the wall-clock sample is plausible: normalized and
// within a few seconds of the runtime clock.
func TestNow(t *testing.T) {
	ts, err := Now()
	require.NoError(t, err)
	require.True(t, ts.Valid())

	drift := time.Since(ts.Time())
	assert.Less(t, drift.Abs(), 5*time.Second, "wall sample drifted %v from runtime clock", drift)
}

// TestMonotonicNonDecreasing checks consecutive monotonic samples
// never move backwards.
func TestMonotonicNonDecreasing(t *testing.T) {
	prev, err := Monotonic()
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		cur, err := Monotonic()
		require.NoError(t, err)
		require.True(t, cur.Sec > prev.Sec || (cur.Sec == prev.Sec && cur.Nsec >= prev.Nsec),
			"sample %d moved backwards: %+v then %+v", i, prev, cur)
		prev = cur
	}
}

// TestUntilMillisecondsPastDeadline checks a deadline already in the
// past yields a zero-length wait.
func TestUntilMillisecondsPastDeadline(t *testing.T) {
	rel, err := UntilMilliseconds(TimeSpec{Sec: 1, Nsec: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rel)
}

// TestUntilMillisecondsFutureDeadline checks a future deadline
// converts to a positive relative wait no longer than the distance.
func TestUntilMillisecondsFutureDeadline(t *testing.T) {
	now, err := Now()
	require.NoError(t, err)
	deadline := FromTime(now.Time().Add(500 * time.Millisecond))

	rel, err := UntilMilliseconds(deadline)
	require.NoError(t, err)
	assert.Greater(t, rel, int64(0))
	assert.LessOrEqual(t, rel, int64(501))
}
