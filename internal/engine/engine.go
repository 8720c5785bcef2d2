package engine

import (
	"math"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
)

// Rate limits and defaults, in words per minute.
const (
	DefaultMinRate = 10
	DefaultMaxRate = 1000
	DefaultRate    = 300

	DefaultFrameInterval = 16 * time.Millisecond
)

// State is the playback state of a session.
type State int

// Playback states.
const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Direction selects the way SkipToken moves.
type Direction int

// Skip directions.
const (
	Forward Direction = iota
	Backward
)

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Rate    int
	MinRate int
	MaxRate int

	Clock  Clock
	Frames FrameScheduler

	// OnIndex is called whenever the published index changes.
	OnIndex func(index int)
	// OnComplete is called once per Running to Complete transition.
	OnComplete func(stats model.CompletionStats)
}

// Engine turns a token sequence into a pausable, seekable presentation
// clock. It is not safe for concurrent use: every method, and every frame
// the scheduler fires, must run on one goroutine.
type Engine struct {
	minRate    int
	maxRate    int
	clockSrc   Clock
	frames     FrameScheduler
	onIndex    func(int)
	onComplete func(model.CompletionStats)

	tokens   []model.Token
	rate     int
	schedule Schedule

	state     State
	index     int
	clock     PlaybackClock
	firstPlay time.Time
	pending   FrameHandle
	closed    bool
}

// Snapshot is a read-only view of the engine for the UI layer.
type Snapshot struct {
	Tokens                    []model.Token
	CurrentIndex              int
	State                     State
	IsPlaying                 bool
	IsComplete                bool
	Rate                      int
	CurrentToken              *model.Token
	ProgressPercent           float64
	TokensRemaining           int
	EstimatedSecondsRemaining float64
}

// New constructs an engine with an empty sequence.
func New(opts Options) *Engine {
	if opts.MinRate <= 0 {
		opts.MinRate = DefaultMinRate
	}
	if opts.MaxRate <= 0 {
		opts.MaxRate = DefaultMaxRate
	}
	if opts.MaxRate < opts.MinRate {
		opts.MaxRate = opts.MinRate
	}
	if opts.Rate <= 0 {
		opts.Rate = DefaultRate
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	e := &Engine{
		minRate:    opts.MinRate,
		maxRate:    opts.MaxRate,
		clockSrc:   opts.Clock,
		frames:     opts.Frames,
		onIndex:    opts.OnIndex,
		onComplete: opts.OnComplete,
	}
	e.rate = e.clampRate(opts.Rate)
	return e
}

// LoadSequence replaces the whole session: index, clock, completion and
// first-play time all start over.
func (e *Engine) LoadSequence(tokens []model.Token) {
	e.cancelFrame()
	e.tokens = append([]model.Token(nil), tokens...)
	e.schedule = BuildSchedule(e.tokens, e.rate)
	e.state = StateIdle
	e.clock = PlaybackClock{}
	e.firstPlay = time.Time{}
	e.setIndex(0)
}

// ReloadSequence swaps in a revised sequence for the same document. The
// current position survives in token terms and playback continues if it
// was running.
func (e *Engine) ReloadSequence(tokens []model.Token) {
	if len(tokens) == 0 {
		e.LoadSequence(tokens)
		return
	}
	e.cancelFrame()
	e.tokens = append([]model.Token(nil), tokens...)
	e.schedule = BuildSchedule(e.tokens, e.rate)
	last := len(e.tokens) - 1
	idx := clampIndex(e.index, len(e.tokens))
	if e.state == StateComplete && idx < last {
		e.state = StatePaused
	}
	e.setIndex(idx)
	e.clock = e.clock.Seek(e.schedule.Due(idx), e.now())
	if e.state == StateRunning {
		e.requestFrame()
	}
}

// Play starts or resumes playback. Playing a completed session restarts it.
func (e *Engine) Play() {
	if len(e.tokens) == 0 || e.state == StateRunning || e.closed {
		return
	}
	now := e.now()
	if e.state == StateComplete {
		e.clock = PlaybackClock{}
		e.firstPlay = time.Time{}
		e.setIndex(0)
	}
	if e.firstPlay.IsZero() {
		e.firstPlay = now
	}
	e.clock = e.clock.Start(now)
	e.state = StateRunning
	e.requestFrame()
}

// Pause freezes the clock and cancels the pending frame.
func (e *Engine) Pause() {
	if e.state != StateRunning {
		return
	}
	e.cancelFrame()
	e.clock = e.clock.Stop(e.now())
	e.state = StatePaused
}

// Toggle pauses a running session and plays otherwise.
func (e *Engine) Toggle() {
	if e.state == StateRunning {
		e.Pause()
		return
	}
	e.Play()
}

// Reset returns to the first token with a zeroed clock.
func (e *Engine) Reset() {
	e.cancelFrame()
	e.state = StateIdle
	e.clock = PlaybackClock{}
	e.firstPlay = time.Time{}
	if len(e.tokens) > 0 {
		e.setIndex(0)
	}
}

// SetRate changes the rate, clamped to the configured range. The schedule
// is rebuilt and the clock re-anchored at the current token so no progress
// is lost and the index does not jump.
func (e *Engine) SetRate(rate int) {
	rate = e.clampRate(rate)
	if rate == e.rate {
		return
	}
	e.rate = rate
	e.schedule = BuildSchedule(e.tokens, e.rate)
	if len(e.tokens) == 0 {
		return
	}
	e.clock = e.clock.Seek(e.schedule.Due(e.index), e.now())
	if e.state == StateRunning {
		e.cancelFrame()
		e.requestFrame()
	}
}

// Rate returns the current rate.
func (e *Engine) Rate() int {
	return e.rate
}

// RateBounds returns the configured [min, max] rate range.
func (e *Engine) RateBounds() (int, int) {
	return e.minRate, e.maxRate
}

// State returns the playback state.
func (e *Engine) State() State {
	return e.state
}

// Index returns the published token index.
func (e *Engine) Index() int {
	return e.index
}

// Len returns the number of tokens in the session.
func (e *Engine) Len() int {
	return len(e.tokens)
}

// Elapsed returns the scheduled reading time consumed so far.
func (e *Engine) Elapsed() time.Duration {
	return e.clock.Elapsed(e.now())
}

// Close cancels any pending frame. A closed engine never schedules again.
func (e *Engine) Close() {
	e.Pause()
	e.cancelFrame()
	e.closed = true
}

// Snapshot returns the state the UI renders from.
func (e *Engine) Snapshot() Snapshot {
	n := len(e.tokens)
	snap := Snapshot{
		Tokens:       e.tokens,
		CurrentIndex: e.index,
		State:        e.state,
		IsPlaying:    e.state == StateRunning,
		IsComplete:   e.state == StateComplete,
		Rate:         e.rate,
	}
	if n == 0 {
		return snap
	}
	tok := e.tokens[e.index]
	snap.CurrentToken = &tok
	if n > 1 {
		snap.ProgressPercent = float64(e.index) / float64(n-1) * 100
	}
	snap.TokensRemaining = n - e.index - 1
	snap.EstimatedSecondsRemaining = e.schedule.Remaining(e.index).Seconds()
	return snap
}

func (e *Engine) step() {
	e.pending = nil
	if e.state != StateRunning || len(e.tokens) == 0 {
		return
	}
	now := e.now()
	elapsed := e.clock.Elapsed(now)
	target := e.schedule.IndexAt(elapsed)
	last := len(e.tokens) - 1
	if target >= last && elapsed >= e.schedule.Total() {
		e.clock = e.clock.Stop(now)
		e.state = StateComplete
		e.setIndex(last)
		e.reportCompletion(now)
		return
	}
	e.setIndex(target)
	e.requestFrame()
}

func (e *Engine) reportCompletion(now time.Time) {
	if e.onComplete == nil || e.firstPlay.IsZero() {
		return
	}
	e.onComplete(completionStats(len(e.tokens), now.Sub(e.firstPlay)))
}

func completionStats(tokens int, elapsed time.Duration) model.CompletionStats {
	stats := model.CompletionStats{
		TotalTokens: tokens,
		TotalTime:   elapsed.Seconds(),
	}
	if stats.TotalTime > 0 {
		stats.AverageWPM = int(math.Round(float64(tokens) / stats.TotalTime * 60))
	}
	return stats
}

func (e *Engine) setIndex(i int) {
	if i == e.index {
		return
	}
	e.index = i
	if e.onIndex != nil {
		e.onIndex(i)
	}
}

func (e *Engine) requestFrame() {
	if e.frames == nil || e.closed || e.pending != nil {
		return
	}
	e.pending = e.frames.RequestFrame(e.step)
}

func (e *Engine) cancelFrame() {
	if e.pending == nil {
		return
	}
	e.pending.Cancel()
	e.pending = nil
}

func (e *Engine) clampRate(rate int) int {
	if rate < e.minRate {
		return e.minRate
	}
	if rate > e.maxRate {
		return e.maxRate
	}
	return rate
}

func (e *Engine) now() time.Time {
	return e.clockSrc.Now()
}
