// Package metrics derives the per-tick metric table for one instrument from
// its merged hourly series and the latest 5-minute batch.
package metrics

import (
	"fmt"
	"sort"
	"time"

	"FXPulse/internal/calculator"
	"FXPulse/internal/model"
	"FXPulse/internal/series"
)

// Field names as presented to consumers.
const (
	FieldInstrument           = "Instrument"
	FieldLatestClose          = "latest_close"
	FieldFirstCoarseTimestamp = "first_coarse_timestamp"
	FieldLastCoarseTimestamp  = "last_coarse_timestamp"
	FieldLastFineTimestamp    = "last_fine_timestamp"
)

// Defaults used when an Engine is built from a zero config.
var (
	DefaultOffsets = []int{6, 13, 100, 200}
	DefaultSteps   = 5
	DefaultUnit    = time.Hour
)

const (
	priceDecimals = 4
	pctDecimals   = 2
)

// StepField returns the name of the i-th most recent step change (1-based).
func StepField(i int) string { return fmt.Sprintf("Δ-%d", i) }

// OffsetField returns the name of the lookback difference for h units.
func OffsetField(h int) string { return fmt.Sprintf("Pct Diff %dh", h) }

// Engine computes metric tables. It holds only configuration and is safe to
// share; every call is independent.
type Engine struct {
	offsets []int
	steps   int
	unit    time.Duration
}

// NewEngine returns an Engine reporting the given lookback offsets and number
// of step changes. Zero values fall back to the defaults.
func NewEngine(offsets []int, steps int, unit time.Duration) *Engine {
	if len(offsets) == 0 {
		offsets = DefaultOffsets
	}
	if steps <= 0 {
		steps = DefaultSteps
	}
	if unit <= 0 {
		unit = DefaultUnit
	}
	return &Engine{
		offsets: append([]int(nil), offsets...),
		steps:   steps,
		unit:    unit,
	}
}

// Offsets returns the configured lookback offsets.
func (e *Engine) Offsets() []int { return append([]int(nil), e.offsets...) }

// Steps returns the number of step changes reported.
func (e *Engine) Steps() int { return e.steps }

// Columns lists every field name Compute emits, in order. The instrument
// label travels on MetricsResult.Instrument rather than as a field.
func (e *Engine) Columns() []string {
	cols := []string{
		FieldLatestClose,
		FieldFirstCoarseTimestamp,
		FieldLastCoarseTimestamp,
		FieldLastFineTimestamp,
	}
	for i := 1; i <= e.steps; i++ {
		cols = append(cols, StepField(i))
	}
	for _, h := range e.offsets {
		cols = append(cols, OffsetField(h))
	}
	return cols
}

// Compute builds the metric table for one instrument. Every field is always
// present; a field whose inputs are missing or malformed is Unavailable
// without affecting its siblings.
func (e *Engine) Compute(name string, coarse, fine model.Series) *model.MetricsResult {
	res := &model.MetricsResult{Instrument: name}
	coarse = series.Dedupe(coarse)

	ref, hasRef := referencePrice(coarse, fine)
	if hasRef {
		res.Set(FieldLatestClose, model.Number(calculator.Round(ref, priceDecimals)))
	} else {
		res.Set(FieldLatestClose, model.Unavailable())
	}

	if first, last, ok := series.Bounds(coarse); ok {
		res.Set(FieldFirstCoarseTimestamp, model.Timestamp(first))
		res.Set(FieldLastCoarseTimestamp, model.Timestamp(last))
	} else {
		res.Set(FieldFirstCoarseTimestamp, model.Unavailable())
		res.Set(FieldLastCoarseTimestamp, model.Unavailable())
	}

	if latest, ok := series.Latest(fine); ok {
		res.Set(FieldLastFineTimestamp, model.Timestamp(latest.Time))
	} else {
		res.Set(FieldLastFineTimestamp, model.Unavailable())
	}

	for i, v := range e.stepChanges(coarse) {
		res.Set(StepField(i+1), v)
	}

	for _, h := range e.offsets {
		res.Set(OffsetField(h), e.lookback(coarse, h, ref, hasRef))
	}
	return res
}

// stepChanges returns the last e.steps percentage changes, most recent first.
// Slots without enough history are Unavailable.
func (e *Engine) stepChanges(coarse model.Series) []model.Value {
	out := make([]model.Value, e.steps)
	changes := calculator.PctChanges(coarse)
	for i := 0; i < e.steps; i++ {
		idx := len(changes) - 1 - i
		if idx < 0 {
			out[i] = model.Unavailable()
			continue
		}
		out[i] = model.Number(calculator.Round(changes[idx], pctDecimals))
	}
	return out
}

// lookback compares ref against the last bar strictly before
// last - h*unit. A target at or before the first bar has no prior bar.
func (e *Engine) lookback(coarse model.Series, h int, ref float64, hasRef bool) model.Value {
	if len(coarse) == 0 || !hasRef {
		return model.Unavailable()
	}
	target := coarse[len(coarse)-1].Time.Add(-time.Duration(h) * e.unit)
	idx := sort.Search(len(coarse), func(i int) bool {
		return !coarse[i].Time.Before(target)
	}) - 1
	if idx < 0 {
		return model.Unavailable()
	}
	diff, err := calculator.PctDiff(ref, coarse[idx].Close)
	if err != nil {
		return model.Unavailable()
	}
	return model.Number(calculator.Round(diff, pctDecimals))
}

// referencePrice is the latest 5-minute close when one is usable, otherwise
// the latest hourly close.
func referencePrice(coarse, fine model.Series) (float64, bool) {
	if latest, ok := series.Latest(fine); ok && calculator.IsFinite(latest.Close) {
		return latest.Close, true
	}
	if len(coarse) > 0 {
		c := coarse[len(coarse)-1].Close
		if calculator.IsFinite(c) {
			return c, true
		}
	}
	return 0, false
}
