package collector

import (
	"context"

	"FXPulse/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchHourlyBars returns hourly bars covering roughly the last days days.
	FetchHourlyBars(ctx context.Context, symbol string, days int) (model.Series, error)
	// FetchIntradayBars returns today's 5-minute bars.
	FetchIntradayBars(ctx context.Context, symbol string) (model.Series, error)
	Name() string
}
