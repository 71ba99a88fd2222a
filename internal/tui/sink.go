package tui

import (
	"context"
	"fmt"

	"github.com/verte-zerg/workmanship/internal/model"
	"github.com/verte-zerg/workmanship/internal/stats"
)

// ScoreStore persists score history.
type ScoreStore interface {
	AppendScore(ctx context.Context, entry model.ScoreEntry) (string, error)
	LessonSummaries(ctx context.Context, filter model.ScoreFilter) ([]model.LessonAggregate, error)
}

// StoreSink adapts a ScoreStore to session.ScoreSink.
type StoreSink struct {
	Store ScoreStore
}

// AppendScore records snap under the lesson identified by lessonKey.
func (s StoreSink) AppendScore(lessonKey string, snap stats.Snapshot) error {
	layout, lesson, ok := model.SplitLessonKey(lessonKey)
	if !ok {
		return fmt.Errorf("invalid lesson key %q", lessonKey)
	}
	_, err := s.Store.AppendScore(context.Background(), model.ScoreEntry{
		Layout:    layout,
		Lesson:    lesson,
		CPS:       snap.CPS,
		WPM:       snap.WPM,
		HitRatio:  snap.HitRatio,
		ElapsedMs: snap.Elapsed.Milliseconds(),
		Hits:      snap.Hits,
		Misses:    snap.Misses,
	})
	return err
}
