package notifier

import (
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"FXPulse/internal/model"
	"FXPulse/internal/state"
)

// formatCell renders one value for display. Percentage columns carry an
// explicit sign so gains and losses read at a glance; unavailable stays N/A
// and is never shown as 0.
func formatCell(name string, v model.Value) string {
	f, ok := v.Float()
	if !ok {
		return v.String()
	}
	if isPctColumn(name) {
		return fmt.Sprintf("%+.2f", f)
	}
	return v.String()
}

func isPctColumn(name string) bool {
	return strings.HasPrefix(name, "Δ-") || strings.HasPrefix(name, "Pct Diff")
}

// arrow marks the direction of a percentage for the Telegram report.
func arrow(v model.Value) string {
	f, ok := v.Float()
	switch {
	case !ok:
		return "·N/A"
	case f > 0:
		return fmt.Sprintf("▲%.2f", f)
	case f < 0:
		return fmt.Sprintf("▼%.2f", -f)
	default:
		return "=0.00"
	}
}

// WriteTable renders results as an aligned console table.
func WriteTable(w io.Writer, results []*model.MetricsResult, columns []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := append([]string{"Instrument"}, columns...)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, r := range results {
		row := make([]string, 0, len(header))
		row = append(row, r.Instrument)
		for _, c := range columns {
			v, _ := r.Get(c)
			row = append(row, formatCell(c, v))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

// FormatMetricsReport formats the latest tick into a Telegram message.
func FormatMetricsReport(results []*model.MetricsResult, columns []string, tickAt, nextUpdate time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>FXPulse</b> | %s UTC\n", tickAt.UTC().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Next update: %s UTC\n\n", nextUpdate.UTC().Format("15:04:05")))

	if len(results) == 0 {
		b.WriteString("No data yet.")
		return b.String()
	}

	var steps, offsets []string
	for _, c := range columns {
		switch {
		case strings.HasPrefix(c, "Δ-"):
			steps = append(steps, c)
		case strings.HasPrefix(c, "Pct Diff"):
			offsets = append(offsets, c)
		}
	}

	for _, r := range results {
		latest, _ := r.Get("latest_close")
		b.WriteString(fmt.Sprintf("<b>%s</b> %s\n", html.EscapeString(r.Instrument), latest))
		if len(steps) > 0 {
			parts := make([]string, len(steps))
			for i, c := range steps {
				v, _ := r.Get(c)
				parts[i] = arrow(v)
			}
			b.WriteString("  Δ " + strings.Join(parts, " ") + "\n")
		}
		if len(offsets) > 0 {
			parts := make([]string, len(offsets))
			for i, c := range offsets {
				v, _ := r.Get(c)
				parts[i] = strings.TrimPrefix(c, "Pct Diff ") + " " + arrow(v)
			}
			b.WriteString("  " + strings.Join(parts, " | ") + "\n")
		}
	}
	return b.String()
}

// FormatStatus formats per-instrument state for the /status command.
func FormatStatus(statuses []state.Status, tickAt time.Time) string {
	var b strings.Builder
	b.WriteString("📦 <b>State</b>\n\n")
	if tickAt.IsZero() {
		b.WriteString("Last tick: never\n")
	} else {
		b.WriteString(fmt.Sprintf("Last tick: %s UTC\n", tickAt.UTC().Format("2006-01-02 15:04:05")))
	}
	for _, s := range statuses {
		last := "N/A"
		if !s.Last.IsZero() {
			last = s.Last.Format("2006-01-02 15:04")
		}
		b.WriteString(fmt.Sprintf("%s: %d bars, last %s\n", html.EscapeString(s.Name), s.Bars, last))
	}
	return b.String()
}

// SplitMessage breaks text into chunks of at most limit bytes, cutting on
// newlines where possible.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				parts = append(parts, cur.String())
				cur.Reset()
			}
			cut := limit
			for cut > 0 && !isRuneStart(line[cut]) {
				cut--
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
