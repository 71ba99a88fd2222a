package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/workmanship/internal/model"
	"github.com/verte-zerg/workmanship/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "scores.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		entry := model.ScoreEntry{
			Layout:     "Dvorak",
			Lesson:     "AOEU: home row",
			RecordedAt: time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			CPS:        float64(i + 1),
			WPM:        CPSToWPM(float64(i + 1)),
			HitRatio:   0.9,
			ElapsedMs:  30000,
			Hits:       30 * (i + 1),
			Misses:     3,
		}
		id, err := st.AppendScore(ctx, entry)
		if err != nil {
			t.Fatalf("append score: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.ScoreFilter{Layout: "Dvorak", Last: 2, Window: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(report.Scores))
	}
	if report.Scores[0].ID != ids[1] || report.Scores[1].ID != ids[2] {
		t.Fatalf("unexpected score ids: %+v", report.Scores)
	}
	if len(report.Window) != 1 || report.Window[0].ID != ids[2] {
		t.Fatalf("unexpected window: %+v", report.Window)
	}
	if len(report.Lessons) != 1 || report.Lessons[0].Attempts != 3 {
		t.Fatalf("unexpected lesson aggregates: %+v", report.Lessons)
	}

	var buf bytes.Buffer
	if err := RenderSummary(&buf, report.Scores); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Best WPM: 36.00")) {
		t.Fatalf("summary missing best wpm: %s", buf.String())
	}
}
