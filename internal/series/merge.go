package series

import (
	"FXPulse/internal/calculator"
	"FXPulse/internal/model"
)

// Merge folds the latest 5-minute close into the hourly series and returns the
// updated hourly series. Neither input is modified.
//
// When the latest 5-minute bar falls in an hour past the last hourly bar a
// synthetic bar is appended with open, high, low and close all set to that
// close. Otherwise only the close of the last hourly bar is replaced.
//
// An empty batch, an empty hourly series, or a non-finite latest close leaves
// the hourly series as it was.
func Merge(coarse, fine model.Series) model.Series {
	if len(fine) == 0 || len(coarse) == 0 {
		return coarse
	}
	latest, _ := Latest(fine)
	if !calculator.IsFinite(latest.Close) {
		return coarse
	}

	out := Dedupe(coarse)
	bucket := HourBucket(latest.Time)
	last := &out[len(out)-1]

	if bucket.After(last.Time) {
		out = append(out, model.OHLCV{
			Time:  bucket,
			Open:  latest.Close,
			High:  latest.Close,
			Low:   latest.Close,
			Close: latest.Close,
		})
	} else {
		last.Close = latest.Close
	}
	return Dedupe(out)
}
