// Package tui provides the Bubble Tea reading interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/tuiread/internal/document"
	"github.com/verte-zerg/tuiread/internal/engine"
	"github.com/verte-zerg/tuiread/internal/model"
	"github.com/verte-zerg/tuiread/internal/store"
	"github.com/verte-zerg/tuiread/internal/tokenize"
)

const defaultWidth = 80

type documentChangedMsg struct{}

// Model implements the Bubble Tea reading UI.
type Model struct {
	config model.Config
	store  *store.Store
	doc    document.Document
	clock  engine.Clock

	engine *engine.Engine
	frames *teaFrames

	keys     keyMap
	help     help.Model
	progress progress.Model

	width  int
	height int

	completion *model.CompletionStats
	startRate  int
	errMsg     string

	changes   <-chan struct{}
	stopWatch context.CancelFunc
}

// NewModel constructs a reading TUI model. st may be nil to skip history.
func NewModel(cfg model.Config, st *store.Store, doc document.Document) (*Model, error) {
	return newModel(cfg, st, doc, engine.SystemClock{})
}

func newModel(cfg model.Config, st *store.Store, doc document.Document, clock engine.Clock) (*Model, error) {
	m := &Model{
		config:    cfg,
		store:     st,
		doc:       doc,
		clock:     clock,
		frames:    newTeaFrames(cfg.Frame),
		keys:      defaultKeyMap(),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		startRate: cfg.WPM,
	}
	m.engine = engine.New(engine.Options{
		Rate:       cfg.WPM,
		MinRate:    cfg.MinWPM,
		MaxRate:    cfg.MaxWPM,
		Clock:      clock,
		Frames:     m.frames,
		OnComplete: m.handleComplete,
	})
	m.engine.LoadSequence(tokenize.Tokenize(doc.Text))
	m.startRate = m.engine.Rate()

	if cfg.Watch && doc.Path != "" {
		ctx, cancel := context.WithCancel(context.Background())
		changes, err := document.Watch(ctx, doc.Path)
		if err != nil {
			cancel()
			return nil, err
		}
		m.changes = changes
		m.stopWatch = cancel
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.changes)}
	if m.config.Autoplay {
		m.engine.Play()
		cmds = append(cmds, m.frames.cmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(msg.Width-4, 72))
		return m, nil
	case frameMsg:
		m.frames.fire(msg.id)
		return m, m.frames.cmd()
	case documentChangedMsg:
		m.reload()
		return m, tea.Batch(waitForChange(m.changes), m.frames.cmd())
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.engine.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.completion = nil
		m.engine.Reset()
	case key.Matches(msg, m.keys.Faster):
		m.engine.SetRate(m.engine.Rate() + m.config.WPMStep)
	case key.Matches(msg, m.keys.Slower):
		m.engine.SetRate(m.engine.Rate() - m.config.WPMStep)
	case key.Matches(msg, m.keys.PrevWord):
		if m.engine.State() != engine.StateRunning {
			m.engine.SkipToken(engine.Backward)
		}
	case key.Matches(msg, m.keys.NextWord):
		if m.engine.State() != engine.StateRunning {
			m.engine.SkipToken(engine.Forward)
		}
	case key.Matches(msg, m.keys.PrevSentence):
		m.engine.SkipSentenceBackward()
	case key.Matches(msg, m.keys.NextSentence):
		m.engine.SkipSentenceForward()
	case key.Matches(msg, m.keys.Start):
		m.engine.GoToIndex(0)
	case key.Matches(msg, m.keys.End):
		m.engine.GoToIndex(m.engine.Len() - 1)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	log.Debug("key", "key", msg.String(), "state", m.engine.State(), "index", m.engine.Index(), "rate", m.engine.Rate())
	return m, m.frames.cmd()
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.engine.Snapshot()
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	footer := m.renderFooter(snap)

	var body string
	switch {
	case len(snap.Tokens) == 0:
		body = footerStyle.Render("Nothing to read.")
	case snap.IsComplete && m.completion != nil:
		body = lipgloss.PlaceHorizontal(width, lipgloss.Center, renderCompletion(*m.completion))
	default:
		body = renderToken(snap.CurrentToken.Text, width, m.config.FocusGuide)
	}
	if m.height <= 0 {
		return body + "\n\n" + footer
	}
	bodyHeight := max(1, m.height-lipgloss.Height(footer))
	return lipgloss.PlaceVertical(bodyHeight, lipgloss.Center, body) + "\n" + footer
}

func (m *Model) renderFooter(snap engine.Snapshot) string {
	lines := []string{
		m.progress.ViewAs(snap.ProgressPercent / 100),
		renderStatus(snap),
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, m.help.View(m.keys))
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) handleComplete(c model.CompletionStats) {
	m.completion = &c
	log.Info("finished reading", "source", m.doc.Name, "tokens", c.TotalTokens, "seconds", c.TotalTime, "wpm", c.AverageWPM)
	if m.store == nil {
		return
	}
	endedAt := m.clock.Now()
	session := model.SessionStats{
		StartedAt:    endedAt.Add(-time.Duration(c.TotalTime * float64(time.Second))),
		EndedAt:      endedAt,
		Source:       m.doc.Name,
		Tokens:       c.TotalTokens,
		WPM:          m.engine.Rate(),
		TotalSeconds: c.TotalTime,
		AverageWPM:   c.AverageWPM,
	}
	if _, err := m.store.InsertSession(context.Background(), session); err != nil {
		log.Error("failed to save session", "err", err)
		m.errMsg = fmt.Sprintf("failed to save session: %v", err)
	}
}

func (m *Model) reload() {
	doc, err := document.Load(m.doc.Path)
	if err != nil {
		log.Warn("failed to reload document", "path", m.doc.Path, "err", err)
		m.errMsg = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.doc = doc
	m.errMsg = ""
	m.engine.ReloadSequence(tokenize.Tokenize(doc.Text))
	log.Info("document reloaded", "path", doc.Path, "tokens", m.engine.Len())
}

func (m *Model) shutdown() {
	m.engine.Close()
	if m.stopWatch != nil {
		m.stopWatch()
	}
	if m.store == nil || m.engine.Rate() == m.startRate {
		return
	}
	if err := m.store.PutSetting(context.Background(), store.PreferredRateKey, strconv.Itoa(m.engine.Rate())); err != nil {
		log.Error("failed to save preferred rate", "err", err)
	}
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return documentChangedMsg{}
	}
}
