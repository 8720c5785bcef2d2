package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuiread/internal/engine"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/orp"
	"github.com/verte-zerg/tuiread/internal/stats"
)

var (
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pivotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	guideStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// layoutToken splits word around its pivot and returns the left padding
// that puts the pivot on the middle column of a line of the given width.
func layoutToken(word string, width int) (pad int, before, pivot, after string) {
	before, pivot, after = orp.Split(word)
	pad = max(0, width/2-runewidth.StringWidth(before))
	return pad, before, pivot, after
}

func renderToken(word string, width int, focusGuide bool) string {
	pad, before, pivot, after := layoutToken(word, width)
	line := strings.Repeat(" ", pad) + wordStyle.Render(before) + pivotStyle.Render(pivot) + wordStyle.Render(after)
	if !focusGuide {
		return line
	}
	column := pad + runewidth.StringWidth(before)
	top := guideStyle.Render(strings.Repeat(" ", column) + "┬")
	bottom := guideStyle.Render(strings.Repeat(" ", column) + "┴")
	return strings.Join([]string{top, line, bottom}, "\n")
}

func renderStatus(snap engine.Snapshot) string {
	state := "paused"
	switch {
	case snap.IsComplete:
		state = "finished"
	case snap.IsPlaying:
		state = "reading"
	case snap.State == engine.StateIdle:
		state = "ready"
	}
	position := 0
	if len(snap.Tokens) > 0 {
		position = snap.CurrentIndex + 1
	}
	return footerStyle.Render(fmt.Sprintf("%d wpm · %d/%d · %s left · %s",
		snap.Rate,
		position,
		len(snap.Tokens),
		stats.FormatSeconds(snap.EstimatedSecondsRemaining),
		state,
	))
}

func renderCompletion(c model.CompletionStats) string {
	lines := []string{
		cardTitleStyle.Render("Finished"),
		"",
		fmt.Sprintf("%s words in %s", cardValueStyle.Render(fmt.Sprintf("%d", c.TotalTokens)), cardValueStyle.Render(stats.FormatSeconds(c.TotalTime))),
		fmt.Sprintf("%s wpm average", cardValueStyle.Render(fmt.Sprintf("%d", c.AverageWPM))),
		"",
		footerStyle.Render("space: read again · q: quit"),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
