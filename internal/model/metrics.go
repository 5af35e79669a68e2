package model

import (
	"math"
	"strconv"
	"time"
)

type valueKind uint8

const (
	kindUnavailable valueKind = iota
	kindNumber
	kindTime
)

// Value is a single metric: a number, a timestamp, or explicitly unavailable.
// The zero Value is unavailable.
type Value struct {
	kind valueKind
	num  float64
	ts   time.Time
}

// Unavailable returns the "no value" marker.
func Unavailable() Value { return Value{} }

// Number wraps f. Non-finite input yields Unavailable.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: kindNumber, num: f}
}

// Timestamp wraps t. The zero time yields Unavailable.
func Timestamp(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: kindTime, ts: t}
}

func (v Value) Available() bool { return v.kind != kindUnavailable }

// Float returns the numeric value and whether it is present.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == kindNumber
}

// Time returns the timestamp value and whether it is present.
func (v Value) Time() (time.Time, bool) {
	return v.ts, v.kind == kindTime
}

// String renders the value for display; unavailable renders as "N/A".
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case kindTime:
		return v.ts.Format("2006-01-02 15:04")
	default:
		return "N/A"
	}
}

// Field is one named metric.
type Field struct {
	Name  string
	Value Value
}

// MetricsResult is the flat metric mapping for one instrument on one tick.
// Fields keep their computation order so consumers can render columns stably.
type MetricsResult struct {
	Instrument string
	Fields     []Field
}

// Set adds or replaces the named field.
func (r *MetricsResult) Set(name string, v Value) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = v
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: v})
}

// Get returns the named field. Missing fields read as Unavailable.
func (r *MetricsResult) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Unavailable(), false
}

// Names returns the field names in order.
func (r *MetricsResult) Names() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}
