package calculator

import (
	"errors"
	"math"

	"FXPulse/internal/model"
)

// ErrZeroBase is returned when a percentage is taken against a zero price.
var ErrZeroBase = errors.New("base price is zero")

// ErrNonFinite is returned when an input price is NaN or infinite.
var ErrNonFinite = errors.New("price is not finite")

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// PctDiff returns (current - past) / past * 100.
func PctDiff(current, past float64) (float64, error) {
	if !IsFinite(current) || !IsFinite(past) {
		return 0, ErrNonFinite
	}
	if past == 0 {
		return 0, ErrZeroBase
	}
	return (current - past) / past * 100, nil
}

// PctChanges computes the percentage change between each consecutive pair of
// closes. The result has len(bars)-1 entries; the undefined first change is
// dropped. An entry whose pair cannot produce a finite change is NaN.
func PctChanges(bars []model.OHLCV) []float64 {
	if len(bars) < 2 {
		return nil
	}
	closes := extractCloses(bars)
	changes := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		c, err := PctDiff(closes[i], closes[i-1])
		if err != nil {
			c = math.NaN()
		}
		changes = append(changes, c)
	}
	return changes
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
