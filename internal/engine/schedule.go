// Package engine implements the RSVP playback scheduling engine.
package engine

import (
	"sort"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
)

// Schedule maps token indexes to the elapsed reading time at which each
// token becomes due. It is built for one (tokens, rate) pair and must be
// rebuilt whenever either changes.
type Schedule struct {
	due       []time.Duration
	durations []time.Duration
	total     time.Duration
}

// BaseDuration returns the unweighted per-token duration for a rate.
func BaseDuration(rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Minute / time.Duration(rate)
}

// BuildSchedule computes the cumulative due times for tokens at rate.
func BuildSchedule(tokens []model.Token, rate int) Schedule {
	if len(tokens) == 0 || rate <= 0 {
		return Schedule{}
	}
	base := float64(time.Minute) / float64(rate)
	s := Schedule{
		due:       make([]time.Duration, len(tokens)),
		durations: make([]time.Duration, len(tokens)),
	}
	var acc time.Duration
	for i, tok := range tokens {
		s.due[i] = acc
		d := time.Duration(base * tok.Weight)
		s.durations[i] = d
		acc += d
	}
	s.total = acc
	return s
}

// Len returns the number of scheduled tokens.
func (s Schedule) Len() int {
	return len(s.due)
}

// Due returns the time at which token i becomes due. Out-of-range indexes
// are clamped; an empty schedule returns 0.
func (s Schedule) Due(i int) time.Duration {
	if len(s.due) == 0 {
		return 0
	}
	return s.due[clampIndex(i, len(s.due))]
}

// Duration returns the weighted display duration of token i.
func (s Schedule) Duration(i int) time.Duration {
	if len(s.durations) == 0 {
		return 0
	}
	return s.durations[clampIndex(i, len(s.durations))]
}

// Total returns the scheduled duration of the whole sequence: the last
// token's due time plus its own weighted duration.
func (s Schedule) Total() time.Duration {
	return s.total
}

// Remaining returns the summed durations of all tokens after index i.
func (s Schedule) Remaining(i int) time.Duration {
	n := len(s.due)
	if n == 0 || i >= n-1 {
		return 0
	}
	if i < 0 {
		return s.total
	}
	return s.total - s.due[i+1]
}

// IndexAt returns the largest index whose due time is <= elapsed, clamped
// to the valid range. A token is due exactly at its own due time.
func (s Schedule) IndexAt(elapsed time.Duration) int {
	n := len(s.due)
	if n == 0 {
		return 0
	}
	// First index strictly after elapsed, minus one.
	i := sort.Search(n, func(i int) bool { return s.due[i] > elapsed }) - 1
	return clampIndex(i, n)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
