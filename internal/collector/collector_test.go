package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FXPulse/internal/model"
	"FXPulse/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yahooFixture = `{
  "chart": {
    "result": [{
      "meta": {"exchangeTimezoneName": "Europe/London"},
      "timestamp": [1748854800, 1748851200, 1748858400],
      "indicators": {"quote": [{
        "open":   [1.1405, 1.1400, null],
        "high":   [1.1420, 1.1410, null],
        "low":    [1.1399, 1.1395, null],
        "close":  [1.1415, 1.1404, null],
        "volume": [0, 0, null]
      }]}
    }],
    "error": null
  }
}`

func TestYahooFetcher_ParsesChart(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, yahooFixture)
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	bars, err := f.FetchIntradayBars(context.Background(), "EURUSD=X")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/EURUSD=X", gotPath)
	assert.Equal(t, "interval=5m&range=1d", gotQuery)

	require.Len(t, bars, 2, "null bar must be dropped")
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 1.1404, bars[0].Close)
	assert.Equal(t, 1.1415, bars[1].Close)
	assert.Equal(t, "Europe/London", bars[1].Time.Location().String())
	assert.Equal(t, int64(1748854800), bars[1].Time.Unix())
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	_, err := f.FetchIntradayBars(context.Background(), "NOPE=X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahooFetcher_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := &YahooFetcher{BaseURL: srv.URL, Client: srv.Client()}
	_, err := f.FetchHourlyBars(context.Background(), "EURUSD=X", 365)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestHourlyRange(t *testing.T) {
	assert.Equal(t, "1mo", hourlyRange(7))
	assert.Equal(t, "3mo", hourlyRange(90))
	assert.Equal(t, "1y", hourlyRange(365))
	assert.Equal(t, "2y", hourlyRange(500))
}

func TestTrimSince(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := generateMockBars(1, base.Add(4*time.Hour), time.Hour, 5)
	got := trimSince(bars, base.Add(150*time.Minute))
	require.Len(t, got, 2)
	assert.Equal(t, base.Add(3*time.Hour), got[0].Time)
}

func vsServer(t *testing.T, hourlyStatus int, fine []vsBar) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch {
		case strings.HasSuffix(r.URL.Path, "/hourly"):
			if hourlyStatus != http.StatusOK {
				http.Error(w, "not supported", hourlyStatus)
				return
			}
			_ = json.NewEncoder(w).Encode([]vsBar{
				{Timestamp: 7200, Close: 2},
				{Timestamp: 3600, Close: 1},
			})
		case strings.HasSuffix(r.URL.Path, "/5m"):
			_ = json.NewEncoder(w).Encode(fine)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestVsTraderFetcher_Hourly(t *testing.T) {
	srv := vsServer(t, http.StatusOK, nil)
	defer srv.Close()

	f := NewVsTraderFetcher(srv.URL, "secret", "")
	bars, err := f.FetchHourlyBars(context.Background(), "EURUSD", 1)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1.0, bars[0].Close)
	assert.Equal(t, 2.0, bars[1].Close)
}

func TestVsTraderFetcher_HourlyFallsBackTo5m(t *testing.T) {
	fine := []vsBar{
		{Timestamp: 3600, Open: 1, High: 1.5, Low: 0.9, Close: 1.2, Volume: 10},
		{Timestamp: 3600 + 300, Open: 1.2, High: 1.8, Low: 1.1, Close: 1.3, Volume: 5},
		{Timestamp: 7200 + 600, Open: 1.3, High: 1.3, Low: 1.0, Close: 1.1, Volume: 1},
	}
	srv := vsServer(t, http.StatusNotFound, fine)
	defer srv.Close()

	f := NewVsTraderFetcher(srv.URL, "secret", "")
	bars, err := f.FetchHourlyBars(context.Background(), "EURUSD", 1)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, model.OHLCV{Time: time.Unix(3600, 0).UTC(), Open: 1, High: 1.8, Low: 0.9, Close: 1.3, Volume: 15}, bars[0])
	assert.Equal(t, time.Unix(7200, 0).UTC(), bars[1].Time)
	assert.Equal(t, 1.1, bars[1].Close)
}

func TestAggregateToHourly_Empty(t *testing.T) {
	assert.Nil(t, aggregateToHourly(nil))
}

func TestCollector_LoadHistoryDedupes(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{HourlyData: model.Series{
		{Time: base.Add(time.Hour), Close: 2},
		{Time: base, Close: 1},
		{Time: base.Add(time.Hour), Close: 3},
	}}
	c := NewCollector(m, 30)
	got, err := c.LoadHistory(context.Background(), model.Instrument{Name: "EUR/USD", Symbol: "EURUSD=X"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, series.Unique(got))
	assert.Equal(t, 3.0, got[1].Close)
}

func TestCollector_ErrorsYieldEmptySeries(t *testing.T) {
	m := &MockFetcher{Err: errors.New("boom")}
	c := NewCollector(m, 30)
	inst := model.Instrument{Name: "EUR/USD", Symbol: "EURUSD=X"}

	hist, err := c.LoadHistory(context.Background(), inst)
	require.Error(t, err)
	assert.NotNil(t, hist)
	assert.Empty(t, hist)
	assert.Contains(t, err.Error(), "EUR/USD")

	fine, err := c.FetchLatest(context.Background(), inst)
	require.Error(t, err)
	assert.Empty(t, fine)
}

func TestMockFetcher_Generated(t *testing.T) {
	now := time.Date(2025, 6, 2, 14, 37, 0, 0, time.UTC)
	m := &MockFetcher{Price: 1.1, Now: func() time.Time { return now }}

	hourly, err := m.FetchHourlyBars(context.Background(), "X", 2)
	require.NoError(t, err)
	require.Len(t, hourly, 48)
	assert.Equal(t, time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC), hourly[len(hourly)-1].Time)

	fine, err := m.FetchIntradayBars(context.Background(), "X")
	require.NoError(t, err)
	require.Len(t, fine, 8)
	assert.Equal(t, time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), fine[0].Time)
	assert.Equal(t, time.Date(2025, 6, 2, 14, 35, 0, 0, time.UTC), fine[len(fine)-1].Time)
}
