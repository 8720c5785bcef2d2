package engine

import "time"

// Clock supplies the current time. Tests inject a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. time.Now carries a monotonic reading,
// so differences between samples are immune to wall-clock jumps.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// PlaybackClock tracks scheduled reading time across pause and resume.
// Values are immutable; every boundary produces a new value.
type PlaybackClock struct {
	Running     bool
	Reference   time.Time
	Accumulated time.Duration
}

// Elapsed returns the scheduled time consumed at now.
func (c PlaybackClock) Elapsed(now time.Time) time.Duration {
	if !c.Running {
		return c.Accumulated
	}
	return now.Sub(c.Reference)
}

// Start re-anchors the reference point so elapsed continues from
// Accumulated rather than from zero.
func (c PlaybackClock) Start(now time.Time) PlaybackClock {
	if c.Running {
		return c
	}
	return PlaybackClock{
		Running:     true,
		Reference:   now.Add(-c.Accumulated),
		Accumulated: c.Accumulated,
	}
}

// Stop freezes elapsed time at now.
func (c PlaybackClock) Stop(now time.Time) PlaybackClock {
	if !c.Running {
		return c
	}
	return PlaybackClock{Accumulated: now.Sub(c.Reference)}
}

// Seek moves the clock to pos, keeping the running flag.
func (c PlaybackClock) Seek(pos time.Duration, now time.Time) PlaybackClock {
	next := PlaybackClock{Running: c.Running, Accumulated: pos}
	if c.Running {
		next.Reference = now.Add(-pos)
	}
	return next
}
