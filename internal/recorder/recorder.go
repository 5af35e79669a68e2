package recorder

import (
	"time"

	"FXPulse/internal/model"
)

// TickSnapshot holds every instrument's metrics from one refresh tick.
type TickSnapshot struct {
	TickID  string
	At      time.Time
	Results []*model.MetricsResult
}

// ReloadEvent records one instrument's full history reload.
type ReloadEvent struct {
	Instrument string
	Bars       int
	First      time.Time
	Last       time.Time
	Err        string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordTick(snap *TickSnapshot) error
	RecordReload(evt *ReloadEvent) error
	Close() error
}
