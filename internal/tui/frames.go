package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuiread/internal/engine"
)

type frameMsg struct {
	id uint64
}

// teaFrames drives engine frames from the Bubble Tea event loop. Each
// request becomes a tea.Tick; steps run inside Update, so the engine stays
// on the program goroutine.
type teaFrames struct {
	interval time.Duration
	seq      uint64
	pending  *teaFrame
	armed    uint64
}

type teaFrame struct {
	owner *teaFrames
	id    uint64
	step  func()
}

func (h *teaFrame) Cancel() {
	if h.owner.pending == h {
		h.owner.pending = nil
	}
}

func newTeaFrames(interval time.Duration) *teaFrames {
	if interval <= 0 {
		interval = engine.DefaultFrameInterval
	}
	return &teaFrames{interval: interval}
}

// RequestFrame implements engine.FrameScheduler.
func (f *teaFrames) RequestFrame(step func()) engine.FrameHandle {
	f.seq++
	h := &teaFrame{owner: f, id: f.seq, step: step}
	f.pending = h
	return h
}

// cmd schedules a tick for the pending frame unless one is already in flight.
func (f *teaFrames) cmd() tea.Cmd {
	if f.pending == nil || f.armed == f.pending.id {
		return nil
	}
	id := f.pending.id
	f.armed = id
	return tea.Tick(f.interval, func(time.Time) tea.Msg {
		return frameMsg{id: id}
	})
}

// fire runs the frame with the given id if it is still the live request.
func (f *teaFrames) fire(id uint64) {
	h := f.pending
	if h == nil || h.id != id {
		return
	}
	f.pending = nil
	h.step()
}
