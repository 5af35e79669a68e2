// Package state holds the per-instrument hourly series between ticks and the
// metrics produced by the most recent tick.
package state

import (
	"sync"
	"time"

	"FXPulse/internal/model"
)

// Store is owned by the scheduler. Series handed out are copies, so a tick
// that is abandoned halfway never leaves a partially merged series behind:
// nothing changes until Put is called with the merged value.
type Store struct {
	mu       sync.Mutex
	series   map[string]model.Series
	loadedAt map[string]time.Time
	results  []*model.MetricsResult
	tickAt   time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		series:   make(map[string]model.Series),
		loadedAt: make(map[string]time.Time),
	}
}

// Get returns a copy of the series held for name.
func (s *Store) Get(name string) model.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := s.series[name]
	out := make(model.Series, len(held))
	copy(out, held)
	return out
}

// Put commits a merged series for name.
func (s *Store) Put(name string, series model.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[name] = series
}

// Reset discards whatever is held for name and replaces it with a freshly
// loaded history.
func (s *Store) Reset(name string, series model.Series, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[name] = series
	s.loadedAt[name] = at
}

// SetResults records the metrics of the latest tick.
func (s *Store) SetResults(results []*model.MetricsResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	s.tickAt = at
}

// Results returns the metrics of the latest tick and when it ran.
func (s *Store) Results() ([]*model.MetricsResult, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, s.tickAt
}

// Status summarises one instrument's held series.
type Status struct {
	Name     string
	Bars     int
	Last     time.Time
	LoadedAt time.Time
}

// Status returns a summary for each requested instrument, in order.
func (s *Store) Status(names []string) []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Status, 0, len(names))
	for _, n := range names {
		st := Status{Name: n, Bars: len(s.series[n]), LoadedAt: s.loadedAt[n]}
		if held := s.series[n]; len(held) > 0 {
			st.Last = held[len(held)-1].Time
		}
		out = append(out, st)
	}
	return out
}
