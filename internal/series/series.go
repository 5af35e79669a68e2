// Package series reconciles the hourly history of an instrument with the
// intraday 5-minute batch fetched on each tick.
package series

import (
	"sort"
	"time"

	"FXPulse/internal/model"
)

// Dedupe returns a copy of s sorted by time with one bar per timestamp. When
// timestamps collide the bar written last wins.
func Dedupe(s model.Series) model.Series {
	if len(s) == 0 {
		return model.Series{}
	}
	out := make(model.Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	n := 0
	for i := range out {
		if n > 0 && out[n-1].Time.Equal(out[i].Time) {
			out[n-1] = out[i]
			continue
		}
		out[n] = out[i]
		n++
	}
	return out[:n]
}

// Latest returns the bar with the greatest timestamp. Ties go to the bar
// written last.
func Latest(s model.Series) (model.OHLCV, bool) {
	if len(s) == 0 {
		return model.OHLCV{}, false
	}
	best := 0
	for i := 1; i < len(s); i++ {
		if !s[i].Time.Before(s[best].Time) {
			best = i
		}
	}
	return s[best], true
}

// Bounds returns the first and last timestamps of a sorted series.
func Bounds(s model.Series) (first, last time.Time, ok bool) {
	if len(s) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s[0].Time, s[len(s)-1].Time, true
}

// HourBucket truncates t to the start of its hour in t's own location.
func HourBucket(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// Unique reports whether s is strictly increasing in time.
func Unique(s model.Series) bool {
	for i := 1; i < len(s); i++ {
		if !s[i-1].Time.Before(s[i].Time) {
			return false
		}
	}
	return true
}
