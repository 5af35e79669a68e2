package model

import "time"

// Granularity is the sampling period of a series.
type Granularity string

const (
	Hour        Granularity = "1h"
	FiveMinutes Granularity = "5m"
)

// Duration returns the sampling period as a time.Duration.
func (g Granularity) Duration() time.Duration {
	switch g {
	case Hour:
		return time.Hour
	case FiveMinutes:
		return 5 * time.Minute
	default:
		return 0
	}
}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is an ordered run of bars keyed by Time. A series returned by the
// collector may be unsorted or hold duplicate timestamps; the merged coarse
// series held between ticks never does.
type Series []OHLCV

// Instrument maps a display name to a provider symbol.
type Instrument struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}
