// Package stats contains reading statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/tuiread/internal/model"
)

const sparkChars = " .:-=+*#%@"

// ReadingMetrics computes the effective words per minute for a session.
func ReadingMetrics(tokens int, totalSeconds float64) (wpm, minutes float64) {
	if totalSeconds <= 0 {
		return 0, 0
	}
	minutes = totalSeconds / 60
	return float64(tokens) / minutes, minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Summary aggregates a set of sessions.
type Summary struct {
	Sessions     int       `json:"sessions" yaml:"sessions"`
	Tokens       int       `json:"tokens" yaml:"tokens"`
	TotalSeconds float64   `json:"total_seconds" yaml:"total_seconds"`
	AverageWPM   float64   `json:"average_wpm" yaml:"average_wpm"`
	BestWPM      int       `json:"best_wpm" yaml:"best_wpm"`
	LastEndedAt  time.Time `json:"last_ended_at" yaml:"last_ended_at"`
}

// Summarize folds sessions into a Summary. AverageWPM is weighted by
// reading time, not a mean of per-session rates.
func Summarize(sessions []model.SessionAggregate) Summary {
	var sum Summary
	for _, s := range sessions {
		sum.Sessions++
		sum.Tokens += s.Tokens
		sum.TotalSeconds += s.TotalSeconds
		if s.AverageWPM > sum.BestWPM {
			sum.BestWPM = s.AverageWPM
		}
		if s.EndedAt.After(sum.LastEndedAt) {
			sum.LastEndedAt = s.EndedAt
		}
	}
	sum.AverageWPM, _ = ReadingMetrics(sum.Tokens, sum.TotalSeconds)
	return sum
}

// RenderSummary prints a summary block for the report.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := report.Summary
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %s", humanize.Comma(int64(sum.Sessions))),
		fmt.Sprintf("Words read: %s", humanize.Comma(int64(sum.Tokens))),
		fmt.Sprintf("Reading time: %s", FormatSeconds(sum.TotalSeconds)),
		fmt.Sprintf("Avg WPM: %.1f", sum.AverageWPM),
		fmt.Sprintf("Best WPM: %d", sum.BestWPM),
		fmt.Sprintf("Last read: %s", humanize.RelTime(sum.LastEndedAt, report.GeneratedAt, "ago", "from now")),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatSeconds renders a duration as h:mm:ss, or m:ss below an hour.
func FormatSeconds(seconds float64) string {
	total := int(math.Round(seconds))
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return 0, 0
	}
	return lo, hi
}
