package series

import (
	"testing"
	"time"

	"FXPulse/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupe_KeepsLastWritten(t *testing.T) {
	a := t0
	b := t0.Add(time.Hour)
	raw := model.Series{
		{Time: b, Close: 2},
		{Time: a, Close: 1},
		{Time: b, Close: 3},
		{Time: a, Close: 4},
	}
	got := Dedupe(raw)
	require.Len(t, got, 2)
	assert.Equal(t, model.OHLCV{Time: a, Close: 4}, got[0])
	assert.Equal(t, model.OHLCV{Time: b, Close: 3}, got[1])
	assert.True(t, Unique(got))

	// input untouched
	assert.Equal(t, 2.0, raw[0].Close)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestLatest(t *testing.T) {
	_, ok := Latest(nil)
	assert.False(t, ok)

	s := model.Series{
		{Time: t0.Add(time.Hour), Close: 1},
		{Time: t0, Close: 2},
		{Time: t0.Add(time.Hour), Close: 3},
	}
	got, ok := Latest(s)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Close)
}

func TestHourBucket(t *testing.T) {
	in := time.Date(2025, 6, 2, 14, 37, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), HourBucket(in))
}

func TestBounds(t *testing.T) {
	_, _, ok := Bounds(nil)
	assert.False(t, ok)

	first, last, ok := Bounds(hourly(1, 2, 3))
	require.True(t, ok)
	assert.Equal(t, t0, first)
	assert.Equal(t, t0.Add(2*time.Hour), last)
}
