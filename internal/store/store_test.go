package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuiread/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuiread.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return st
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sources := []string{"a.txt", "b.md", "a.txt", "a.txt"}
	for i, src := range sources {
		ended := base.Add(time.Duration(i) * time.Hour)
		_, err := st.InsertSession(ctx, model.SessionStats{
			StartedAt:    ended.Add(-time.Minute),
			EndedAt:      ended,
			Source:       src,
			Tokens:       100 + i,
			WPM:          300,
			TotalSeconds: 60,
			AverageWPM:   100 + i,
		})
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(all))
	}
	if !all[0].EndedAt.Equal(base) || all[3].Tokens != 103 {
		t.Fatalf("expected ascending order, got %+v", all)
	}

	onlyA, err := st.ListSessions(ctx, model.StatsConfig{Source: "a.txt"})
	if err != nil {
		t.Fatalf("list source: %v", err)
	}
	if len(onlyA) != 3 {
		t.Fatalf("expected 3 sessions for a.txt, got %d", len(onlyA))
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 sessions since %v, got %d", since, len(recent))
	}

	last, err := st.ListSessions(ctx, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 || last[0].Tokens != 102 || last[1].Tokens != 103 {
		t.Fatalf("expected two most recent sessions oldest first, got %+v", last)
	}
}

func TestSettings(t *testing.T) {
	st := openTemp(t)
	ctx := context.Background()

	if _, ok, err := st.GetSetting(ctx, PreferredRateKey); err != nil || ok {
		t.Fatalf("expected missing setting, got ok=%v err=%v", ok, err)
	}
	if err := st.PutSetting(ctx, PreferredRateKey, "320"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.PutSetting(ctx, PreferredRateKey, "450"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := st.GetSetting(ctx, PreferredRateKey)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != "450" {
		t.Fatalf("expected 450, got %q", value)
	}
}
