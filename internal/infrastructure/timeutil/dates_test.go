package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-05-01", DateKey(time.Date(2026, 5, 1, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2026-01-09", DateKey(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)))
}

func TestDateKey_UsesTimestampLocation(t *testing.T) {
	// 23:00 UTC on May 1 is already May 2 in a +2h zone; the key follows
	// the timestamp's own location.
	loc := time.FixedZone("CEST", 2*3600)
	utc := time.Date(2026, 5, 1, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-05-01", DateKey(utc))
	assert.Equal(t, "2026-05-02", DateKey(utc.In(loc)))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("01/05/2026")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 5, 1, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
}

func TestEndOfDay(t *testing.T) {
	ts := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	end := EndOfDay(ts)

	assert.Equal(t, "2026-05-01", DateKey(end), "still the same calendar day")
	assert.True(t, end.Before(time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, end.After(time.Date(2026, 5, 1, 23, 59, 59, 0, time.UTC)))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), clock.Now())

	clock.Set(start)
	assert.Equal(t, start, clock.Now())
}

func TestRealClock(t *testing.T) {
	clock := NewRealClock()
	before := time.Now()
	now := clock.Now()
	assert.False(t, now.Before(before))
}
