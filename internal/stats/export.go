package stats

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by Export.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes the report in a machine-readable format.
func Export(w io.Writer, report Report, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Render writes the human-readable report.
func Render(w io.Writer, report Report, width int) error {
	if err := RenderSummary(w, report); err != nil {
		return err
	}
	if len(report.Curve) > 1 {
		title := fmt.Sprintf("Avg WPM trend %s", Sparkline(report.Curve))
		if err := RenderCurve(w, title, report.Curve, PlotWidthFor(width), 0); err != nil {
			return err
		}
	}
	return RenderSessionTable(w, report.Sessions)
}
