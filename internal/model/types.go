// Package model defines shared data structures.
package model

import "time"

// Pacing tiers applied by the tokenizer. A token is never shown faster than
// the base rate, so every tier is at least NormalWeight.
const (
	NormalWeight    = 1.0
	ClauseWeight    = 1.25
	SentenceWeight  = 1.5
	ParagraphWeight = 2.0
)

// Token is one presented unit with its pacing weight.
type Token struct {
	Text   string
	Weight float64
}

// EndsSentence reports whether the token carries the sentence tier or higher.
func (t Token) EndsSentence() bool {
	return t.Weight >= SentenceWeight
}

// Config defines reader settings.
type Config struct {
	WPM        int
	MinWPM     int
	MaxWPM     int
	WPMStep    int
	FocusGuide bool
	Frame      time.Duration
	Autoplay   bool
	Watch      bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Source      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// CompletionStats is reported once when a reading session completes.
type CompletionStats struct {
	TotalTokens int
	TotalTime   float64 // seconds
	AverageWPM  int
}

// SessionStats captures a completed reading session for persistence.
type SessionStats struct {
	StartedAt    time.Time
	EndedAt      time.Time
	Source       string
	Tokens       int
	WPM          int
	TotalSeconds float64
	AverageWPM   int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID    int64     `json:"id" yaml:"id"`
	EndedAt      time.Time `json:"ended_at" yaml:"ended_at"`
	Source       string    `json:"source" yaml:"source"`
	Tokens       int       `json:"tokens" yaml:"tokens"`
	WPM          int       `json:"wpm" yaml:"wpm"`
	TotalSeconds float64   `json:"total_seconds" yaml:"total_seconds"`
	AverageWPM   int       `json:"average_wpm" yaml:"average_wpm"`
}
