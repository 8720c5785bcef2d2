package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type manualFrame struct {
	step      func()
	cancelled bool
}

func (f *manualFrame) Cancel() {
	f.cancelled = true
}

type manualFrames struct {
	pending  *manualFrame
	requests int
}

func (m *manualFrames) RequestFrame(step func()) FrameHandle {
	m.requests++
	f := &manualFrame{step: step}
	m.pending = f
	return f
}

// fire runs the pending frame, reporting whether one ran.
func (m *manualFrames) fire() bool {
	f := m.pending
	if f == nil || f.cancelled {
		return false
	}
	m.pending = nil
	f.step()
	return true
}

type harness struct {
	engine    *Engine
	clock     *fakeClock
	frames    *manualFrames
	completed []model.CompletionStats
	published []int
}

func newHarness(t *testing.T, tokens []model.Token, rate int) *harness {
	t.Helper()
	h := &harness{
		clock:  &fakeClock{now: time.Unix(1_700_000_000, 0)},
		frames: &manualFrames{},
	}
	h.engine = New(Options{
		Rate:    rate,
		MinRate: 10,
		MaxRate: 1000,
		Clock:   h.clock,
		Frames:  h.frames,
		OnIndex: func(i int) {
			h.published = append(h.published, i)
		},
		OnComplete: func(s model.CompletionStats) {
			h.completed = append(h.completed, s)
		},
	})
	h.engine.LoadSequence(tokens)
	return h
}

// tick advances the clock by d and fires one frame.
func (h *harness) tick(d time.Duration) {
	h.clock.advance(d)
	h.frames.fire()
}

func words(text string) []model.Token {
	fields := strings.Fields(text)
	tokens := make([]model.Token, len(fields))
	for i, f := range fields {
		w := model.NormalWeight
		if strings.HasSuffix(f, ".") {
			w = model.SentenceWeight
		}
		tokens[i] = model.Token{Text: f, Weight: w}
	}
	return tokens
}

func uniform(n int) []model.Token {
	tokens := make([]model.Token, n)
	for i := range tokens {
		tokens[i] = model.Token{Text: "w", Weight: 1}
	}
	return tokens
}

func TestPlaybackCompletesAtTotalDuration(t *testing.T) {
	h := newHarness(t, words("The quick fox."), 60)
	h.engine.Play()
	if h.engine.State() != StateRunning {
		t.Fatalf("expected running, got %s", h.engine.State())
	}

	h.tick(2500 * time.Millisecond)
	snap := h.engine.Snapshot()
	if snap.CurrentIndex != 2 {
		t.Fatalf("expected index 2 at 2.5s, got %d", snap.CurrentIndex)
	}
	if snap.IsComplete {
		t.Fatalf("must not complete before the last token's duration elapses")
	}

	h.tick(time.Second)
	snap = h.engine.Snapshot()
	if !snap.IsComplete || snap.IsPlaying {
		t.Fatalf("expected complete and stopped at 3.5s, got %+v", snap)
	}
	if snap.CurrentIndex != 2 {
		t.Fatalf("expected final index 2, got %d", snap.CurrentIndex)
	}
	if len(h.completed) != 1 {
		t.Fatalf("expected one completion report, got %d", len(h.completed))
	}
	got := h.completed[0]
	if got.TotalTokens != 3 || got.TotalTime != 3.5 || got.AverageWPM != 51 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if h.frames.fire() {
		t.Fatalf("no frame may be pending after completion")
	}
}

func TestStepSchedulesNextFrameWithoutIndexChange(t *testing.T) {
	h := newHarness(t, uniform(3), 60)
	h.engine.Play()
	h.tick(100 * time.Millisecond)
	if h.engine.Index() != 0 {
		t.Fatalf("expected index 0, got %d", h.engine.Index())
	}
	if h.frames.pending == nil {
		t.Fatalf("expected a next frame to be requested")
	}
	if len(h.published) != 0 {
		t.Fatalf("unchanged index must not be published, got %v", h.published)
	}
}

func TestPauseResumeDoesNotDrift(t *testing.T) {
	h := newHarness(t, uniform(5), 60)
	h.engine.Play()
	h.tick(1500 * time.Millisecond)
	if h.engine.Index() != 1 {
		t.Fatalf("expected index 1, got %d", h.engine.Index())
	}

	h.engine.Pause()
	if h.frames.pending == nil || !h.frames.pending.cancelled {
		t.Fatalf("pause must cancel the pending frame")
	}
	h.clock.advance(10 * time.Second)
	if got := h.engine.Elapsed(); got != 1500*time.Millisecond {
		t.Fatalf("paused clock must hold 1.5s, got %v", got)
	}

	h.engine.Play()
	if got := h.engine.Elapsed(); got != 1500*time.Millisecond {
		t.Fatalf("resume must continue from 1.5s, got %v", got)
	}
	h.tick(600 * time.Millisecond)
	if h.engine.Index() != 2 {
		t.Fatalf("expected index 2 at 2.1s, got %d", h.engine.Index())
	}
}

func TestPauseIsNoopWhenNotRunning(t *testing.T) {
	h := newHarness(t, uniform(3), 60)
	h.engine.Pause()
	if h.engine.State() != StateIdle {
		t.Fatalf("expected idle, got %s", h.engine.State())
	}
	if h.frames.requests != 0 {
		t.Fatalf("expected no frame requests, got %d", h.frames.requests)
	}
}

func TestSetRateWhileRunningKeepsIndex(t *testing.T) {
	h := newHarness(t, uniform(6), 60)
	h.engine.Play()
	h.tick(3500 * time.Millisecond)
	if h.engine.Index() != 3 {
		t.Fatalf("expected index 3, got %d", h.engine.Index())
	}

	h.engine.SetRate(120)
	if h.engine.Index() != 3 {
		t.Fatalf("rate change must not move the index, got %d", h.engine.Index())
	}
	if got := h.engine.Elapsed(); got != 1500*time.Millisecond {
		t.Fatalf("expected clock re-anchored at token 3 (1.5s at 120wpm), got %v", got)
	}
	h.tick(0)
	if h.engine.Index() != 3 {
		t.Fatalf("expected index 3 right after rate change, got %d", h.engine.Index())
	}
	h.tick(500 * time.Millisecond)
	if h.engine.Index() != 4 {
		t.Fatalf("expected index 4 after one new-rate token, got %d", h.engine.Index())
	}
	if got := h.engine.Snapshot().EstimatedSecondsRemaining; got != 0.5 {
		t.Fatalf("expected 0.5s remaining at 120wpm, got %v", got)
	}
}

func TestSetRateClamps(t *testing.T) {
	h := newHarness(t, uniform(3), 60)
	h.engine.SetRate(5)
	if h.engine.Rate() != 10 {
		t.Fatalf("expected clamp to 10, got %d", h.engine.Rate())
	}
	h.engine.SetRate(5000)
	if h.engine.Rate() != 1000 {
		t.Fatalf("expected clamp to 1000, got %d", h.engine.Rate())
	}
}

func TestLoadSequenceReplacesCompletedSession(t *testing.T) {
	h := newHarness(t, uniform(4), 600)
	h.engine.Play()
	for i := 0; i < 100 && h.engine.State() != StateComplete; i++ {
		h.tick(50 * time.Millisecond)
	}
	if !h.engine.Snapshot().IsComplete {
		t.Fatalf("expected first session to complete")
	}

	h.engine.LoadSequence(uniform(2))
	snap := h.engine.Snapshot()
	if snap.IsComplete || snap.IsPlaying || snap.CurrentIndex != 0 {
		t.Fatalf("expected fresh session, got %+v", snap)
	}
	if h.engine.Elapsed() != 0 {
		t.Fatalf("expected zeroed clock, got %v", h.engine.Elapsed())
	}
}

func TestLoadSequenceCancelsPendingFrame(t *testing.T) {
	h := newHarness(t, uniform(4), 60)
	h.engine.Play()
	pending := h.frames.pending
	h.engine.LoadSequence(uniform(3))
	if !pending.cancelled {
		t.Fatalf("loading a sequence must cancel the pending frame")
	}
	if h.engine.State() != StateIdle {
		t.Fatalf("expected idle after load, got %s", h.engine.State())
	}
}

func TestReloadSequenceKeepsPosition(t *testing.T) {
	h := newHarness(t, uniform(6), 60)
	h.engine.Play()
	h.tick(3200 * time.Millisecond)
	h.engine.ReloadSequence(uniform(8))
	if h.engine.Index() != 3 || h.engine.State() != StateRunning {
		t.Fatalf("expected running at 3, got %d %s", h.engine.Index(), h.engine.State())
	}
	if h.engine.Elapsed() != 3*time.Second {
		t.Fatalf("expected clock at token 3 due time, got %v", h.engine.Elapsed())
	}

	h.engine.ReloadSequence(uniform(2))
	if h.engine.Index() != 1 {
		t.Fatalf("expected index clamped to 1, got %d", h.engine.Index())
	}
}

func TestAverageRateAtCompletion(t *testing.T) {
	h := newHarness(t, uniform(10), 50)
	h.engine.Play()
	for i := 0; i < 2000 && h.engine.State() != StateComplete; i++ {
		h.tick(16 * time.Millisecond)
	}
	if len(h.completed) != 1 {
		t.Fatalf("expected one completion, got %d", len(h.completed))
	}
	if got := h.completed[0].AverageWPM; got < 49 || got > 51 {
		t.Fatalf("expected average near 50 wpm, got %d", got)
	}
}

func TestPlayAfterCompleteRestarts(t *testing.T) {
	h := newHarness(t, uniform(2), 60)
	h.engine.Play()
	h.tick(2 * time.Second)
	if h.engine.State() != StateComplete {
		t.Fatalf("expected complete, got %s", h.engine.State())
	}

	h.engine.Play()
	if h.engine.Index() != 0 || h.engine.Elapsed() != 0 {
		t.Fatalf("expected restart from zero, got index %d elapsed %v", h.engine.Index(), h.engine.Elapsed())
	}
	h.tick(3 * time.Second)
	if len(h.completed) != 2 {
		t.Fatalf("expected a second independent report, got %d", len(h.completed))
	}
	if h.completed[1].TotalTime != 3 {
		t.Fatalf("second report must time from the restart, got %v", h.completed[1].TotalTime)
	}
}

func TestFirstPlaySurvivesPauses(t *testing.T) {
	h := newHarness(t, uniform(2), 60)
	h.engine.Play()
	h.tick(500 * time.Millisecond)
	h.engine.Pause()
	h.clock.advance(4 * time.Second)
	h.engine.Play()
	h.tick(1500 * time.Millisecond)
	if len(h.completed) != 1 {
		t.Fatalf("expected completion, got %d", len(h.completed))
	}
	if h.completed[0].TotalTime != 6 {
		t.Fatalf("expected wall time since first play (6s), got %v", h.completed[0].TotalTime)
	}
}

func TestResetReturnsToIdle(t *testing.T) {
	h := newHarness(t, uniform(4), 60)
	h.engine.Play()
	h.tick(2500 * time.Millisecond)
	pending := h.frames.pending
	h.engine.Reset()
	if !pending.cancelled {
		t.Fatalf("reset must cancel the pending frame")
	}
	snap := h.engine.Snapshot()
	if snap.State != StateIdle || snap.CurrentIndex != 0 || h.engine.Elapsed() != 0 {
		t.Fatalf("unexpected state after reset: %+v", snap)
	}
}

func TestToggle(t *testing.T) {
	h := newHarness(t, uniform(3), 60)
	h.engine.Toggle()
	if h.engine.State() != StateRunning {
		t.Fatalf("expected running, got %s", h.engine.State())
	}
	h.engine.Toggle()
	if h.engine.State() != StatePaused {
		t.Fatalf("expected paused, got %s", h.engine.State())
	}
}

func TestCloseStopsScheduling(t *testing.T) {
	h := newHarness(t, uniform(3), 60)
	h.engine.Play()
	pending := h.frames.pending
	h.engine.Close()
	if !pending.cancelled {
		t.Fatalf("close must cancel the pending frame")
	}
	h.engine.Play()
	if h.engine.State() == StateRunning {
		t.Fatalf("closed engine must not run")
	}
}

func TestEmptySequenceIsInert(t *testing.T) {
	h := newHarness(t, nil, 60)
	h.engine.Play()
	h.engine.GoToIndex(3)
	h.engine.SkipSentenceForward()
	h.engine.SkipSentenceBackward()
	h.engine.SkipToken(Forward)
	h.engine.Reset()
	snap := h.engine.Snapshot()
	if snap.CurrentToken != nil || snap.ProgressPercent != 0 || snap.IsPlaying || snap.TokensRemaining != 0 {
		t.Fatalf("unexpected snapshot for empty sequence: %+v", snap)
	}
	if h.frames.requests != 0 {
		t.Fatalf("expected no frames for empty sequence, got %d", h.frames.requests)
	}
}

func TestSnapshotDerivedValues(t *testing.T) {
	h := newHarness(t, words("The quick fox."), 60)
	h.engine.GoToIndex(1)
	snap := h.engine.Snapshot()
	if snap.CurrentToken == nil || snap.CurrentToken.Text != "quick" {
		t.Fatalf("expected current token quick, got %+v", snap.CurrentToken)
	}
	if snap.ProgressPercent != 50 {
		t.Fatalf("expected 50%%, got %v", snap.ProgressPercent)
	}
	if snap.TokensRemaining != 1 {
		t.Fatalf("expected 1 remaining, got %d", snap.TokensRemaining)
	}
	if snap.EstimatedSecondsRemaining != 1.5 {
		t.Fatalf("expected 1.5s remaining, got %v", snap.EstimatedSecondsRemaining)
	}

	single := newHarness(t, uniform(1), 60)
	if p := single.engine.Snapshot().ProgressPercent; p != 0 {
		t.Fatalf("expected 0%% progress for one token, got %v", p)
	}
}

func TestLoopSchedulerRunsToCompletion(t *testing.T) {
	frames := NewLoopScheduler(time.Millisecond)
	var done []model.CompletionStats
	var seen []int
	e := New(Options{
		Rate:       60000,
		MaxRate:    60000,
		Frames:     frames,
		OnIndex:    func(i int) { seen = append(seen, i) },
		OnComplete: func(s model.CompletionStats) { done = append(done, s) },
	})
	e.LoadSequence(uniform(5))
	e.Play()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := frames.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(done) != 1 {
		t.Fatalf("expected completion, got %d reports", len(done))
	}
	if e.Index() != 4 || len(seen) == 0 || seen[len(seen)-1] != 4 {
		t.Fatalf("expected last index published, got index %d seen %v", e.Index(), seen)
	}
	if frames.Pending() {
		t.Fatalf("expected no pending frame after completion")
	}
}
