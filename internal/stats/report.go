package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
)

// SessionLister lists stored sessions.
type SessionLister interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	GeneratedAt time.Time                `json:"generated_at" yaml:"generated_at"`
	Summary     Summary                  `json:"summary" yaml:"summary"`
	Curve       []float64                `json:"curve" yaml:"curve"`
	Sessions    []model.SessionAggregate `json:"sessions" yaml:"sessions"`
}

// BuildReport loads sessions and prepares data for stats rendering.
func BuildReport(ctx context.Context, st SessionLister, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	return Report{
		GeneratedAt: time.Now(),
		Summary:     Summarize(sessions),
		Curve:       wpmCurve(sessions, cfg.CurveWindow),
		Sessions:    sessions,
	}, nil
}

func wpmCurve(sessions []model.SessionAggregate, window int) []float64 {
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(s.AverageWPM)
	}
	return MovingAverage(values, window)
}
