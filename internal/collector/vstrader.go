package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"FXPulse/internal/model"
	"FXPulse/internal/series"
)

// barsPerDay5m is the number of 5-minute bars in a 24h session.
const barsPerDay5m = 24 * 12

// VsTraderFetcher implements Fetcher using the vstrader REST API.
type VsTraderFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string) *VsTraderFetcher {
	return &VsTraderFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *VsTraderFetcher) endpoint(path, symbol string, limit int) string {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("limit", fmt.Sprint(limit))
	return fmt.Sprintf("%s%s?%s", f.BaseURL, path, q.Encode())
}

func (f *VsTraderFetcher) FetchHourlyBars(ctx context.Context, symbol string, days int) (model.Series, error) {
	// Try hourly endpoint first; if the API only serves 5m bars, aggregate internally.
	bars, err := f.fetchBars(ctx, f.endpoint("/api/v1/bars/hourly", symbol, days*24))
	if err != nil {
		fineBars, fineErr := f.fetchBars(ctx, f.endpoint("/api/v1/bars/5m", symbol, days*barsPerDay5m))
		if fineErr != nil {
			return nil, fmt.Errorf("hourly fetch failed: %w; 5m fallback also failed: %w", err, fineErr)
		}
		return aggregateToHourly(fineBars), nil
	}
	return bars, nil
}

func (f *VsTraderFetcher) FetchIntradayBars(ctx context.Context, symbol string) (model.Series, error) {
	return f.fetchBars(ctx, f.endpoint("/api/v1/bars/5m", symbol, barsPerDay5m))
}

func (f *VsTraderFetcher) fetchBars(ctx context.Context, endpoint string) (model.Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var vsBars []vsBar
	if err := json.NewDecoder(resp.Body).Decode(&vsBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make(model.Series, len(vsBars))
	for i, vb := range vsBars {
		bars[i] = model.OHLCV{
			Time:   time.Unix(vb.Timestamp, 0).UTC(),
			Open:   vb.Open,
			High:   vb.High,
			Low:    vb.Low,
			Close:  vb.Close,
			Volume: vb.Volume,
		}
	}
	// Ensure chronological order
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// aggregateToHourly folds sorted 5-minute bars into hourly bars keyed by the
// start of each hour.
func aggregateToHourly(fine model.Series) model.Series {
	if len(fine) == 0 {
		return nil
	}
	var hourly model.Series
	var bar model.OHLCV
	var started bool

	for _, b := range fine {
		bucket := series.HourBucket(b.Time)
		if !started || !bucket.Equal(bar.Time) {
			if started {
				hourly = append(hourly, bar)
			}
			bar = model.OHLCV{Time: bucket, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			started = true
			continue
		}
		if b.High > bar.High {
			bar.High = b.High
		}
		if b.Low < bar.Low {
			bar.Low = b.Low
		}
		bar.Close = b.Close
		bar.Volume += b.Volume
	}
	if started {
		hourly = append(hourly, bar)
	}
	return hourly
}
