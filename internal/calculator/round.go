package calculator

import "github.com/shopspring/decimal"

// Round rounds f to the given number of decimal places, half away from zero.
// Non-finite input is returned as-is.
func Round(f float64, places int32) float64 {
	if !IsFinite(f) {
		return f
	}
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}
