package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"FXPulse/internal/model"
	"FXPulse/internal/series"
)

// MockFetcher returns controllable, deterministic data for development and testing.
type MockFetcher struct {
	Price        float64
	HourlyData   model.Series
	IntradayData model.Series
	Err          error
	Now          func() time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now().UTC()
}

func (m *MockFetcher) FetchHourlyBars(_ context.Context, _ string, days int) (model.Series, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.HourlyData != nil {
		return m.HourlyData, nil
	}
	step := model.Hour.Duration()
	end := series.HourBucket(m.now()).Add(-step)
	return generateMockBars(m.Price, end, step, days*24), nil
}

func (m *MockFetcher) FetchIntradayBars(_ context.Context, _ string) (model.Series, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.IntradayData != nil {
		return m.IntradayData, nil
	}
	now := m.now()
	step := model.FiveMinutes.Duration()
	end := now.Truncate(step)
	n := int(now.Sub(series.HourBucket(now))/step) + 1
	return generateMockBars(m.Price, end, step, n), nil
}

// generateMockBars builds count bars ending at end, oscillating gently around basePrice.
func generateMockBars(basePrice float64, end time.Time, step time.Duration, count int) model.Series {
	bars := make(model.Series, count)
	for i := 0; i < count; i++ {
		t := end.Add(-time.Duration(count-1-i) * step)
		p := basePrice * (1 + 0.002*math.Sin(float64(t.Unix())/3600/7))
		bars[i] = model.OHLCV{
			Time:   t,
			Open:   p * 0.9995,
			High:   p * 1.001,
			Low:    p * 0.999,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}

// Collector pulls raw series for configured instruments.
type Collector struct {
	Fetcher      Fetcher
	LookbackDays int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookbackDays int) *Collector {
	return &Collector{Fetcher: fetcher, LookbackDays: lookbackDays}
}

// LoadHistory fetches the hourly history for inst, sorted and with one bar
// per timestamp.
func (c *Collector) LoadHistory(ctx context.Context, inst model.Instrument) (model.Series, error) {
	bars, err := c.Fetcher.FetchHourlyBars(ctx, inst.Symbol, c.LookbackDays)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch hourly bars for %s: %w", inst.Name, err)
	}
	return series.Dedupe(bars), nil
}

// FetchLatest fetches today's 5-minute batch for inst.
func (c *Collector) FetchLatest(ctx context.Context, inst model.Instrument) (model.Series, error) {
	bars, err := c.Fetcher.FetchIntradayBars(ctx, inst.Symbol)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch 5m bars for %s: %w", inst.Name, err)
	}
	if bars == nil {
		bars = model.Series{}
	}
	return bars, nil
}
