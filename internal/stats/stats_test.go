package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuiread/internal/model"
)

func TestReadingMetrics(t *testing.T) {
	wpm, minutes := ReadingMetrics(450, 90)
	if wpm != 300 || minutes != 1.5 {
		t.Fatalf("expected 300 wpm over 1.5 minutes, got %v over %v", wpm, minutes)
	}
	if wpm, minutes := ReadingMetrics(10, 0); wpm != 0 || minutes != 0 {
		t.Fatalf("expected zero metrics for zero time, got %v %v", wpm, minutes)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{1, 5}, 1)
	if same[0] != 1 || same[1] != 5 {
		t.Fatalf("window 1 must copy input, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("flat series should use the middle glyph, got %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := map[float64]string{0: "0:00", 59.6: "1:00", 125: "2:05", 3725: "1:02:05"}
	for in, want := range cases {
		if got := FormatSeconds(in); got != want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderCurve(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderCurve(&buf, "Trend", []float64{100, 200, 300}, 12, 3); err != nil {
		t.Fatalf("render curve: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title and 3 rows, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Trend" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.Contains(lines[1], "300") || !strings.Contains(lines[3], "100") {
		t.Fatalf("expected axis labels, got:\n%s", buf.String())
	}
	if PlotWidthFor(0) != minPlotWidth || PlotWidthFor(80) != 71 {
		t.Fatalf("unexpected plot widths %d %d", PlotWidthFor(0), PlotWidthFor(80))
	}
}

func sampleReport() Report {
	ended := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sessions := []model.SessionAggregate{{SessionID: 7, EndedAt: ended, Source: "a.txt", Tokens: 120, WPM: 300, TotalSeconds: 30, AverageWPM: 240}}
	return Report{GeneratedAt: ended, Summary: Summarize(sessions), Curve: []float64{240}, Sessions: sessions}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleReport(), FormatJSON); err != nil {
		t.Fatalf("export: %v", err)
	}
	var decoded struct {
		Summary  Summary                  `json:"summary"`
		Sessions []model.SessionAggregate `json:"sessions"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Summary.Tokens != 120 || len(decoded.Sessions) != 1 || decoded.Sessions[0].SessionID != 7 {
		t.Fatalf("unexpected decoded report %+v", decoded)
	}
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleReport(), FormatYAML); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "average_wpm: 240") {
		t.Fatalf("expected snake_case keys in yaml:\n%s", buf.String())
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded["sessions"]; !ok {
		t.Fatalf("missing sessions key")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	if err := Export(&bytes.Buffer{}, Report{}, "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
