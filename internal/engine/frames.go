package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// FrameScheduler is the host's recurring-task primitive. RequestFrame
// arranges for step to run once at the next frame; the returned handle
// revokes that request. Steps must run on the goroutine that owns the
// engine.
type FrameScheduler interface {
	RequestFrame(step func()) FrameHandle
}

// FrameHandle cancels a pending frame request.
type FrameHandle interface {
	Cancel()
}

// LoopScheduler runs frames on the caller's goroutine inside Run, paced at a
// fixed interval. It suits headless hosts without an event loop of their own.
type LoopScheduler struct {
	limiter *rate.Limiter
	pending *loopFrame
}

type loopFrame struct {
	step      func()
	cancelled bool
}

func (f *loopFrame) Cancel() {
	f.cancelled = true
}

// NewLoopScheduler returns a scheduler firing at most once per interval.
func NewLoopScheduler(interval time.Duration) *LoopScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &LoopScheduler{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// RequestFrame implements FrameScheduler. A newer request replaces an older
// one.
func (s *LoopScheduler) RequestFrame(step func()) FrameHandle {
	if s.pending != nil {
		s.pending.cancelled = true
	}
	f := &loopFrame{step: step}
	s.pending = f
	return f
}

// Pending reports whether a live frame is waiting.
func (s *LoopScheduler) Pending() bool {
	return s.pending != nil && !s.pending.cancelled
}

// Run fires pending frames until none remain or ctx is done.
func (s *LoopScheduler) Run(ctx context.Context) error {
	for s.Pending() {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		f := s.pending
		s.pending = nil
		if f == nil || f.cancelled {
			continue
		}
		f.step()
	}
	return ctx.Err()
}
