package stats

import (
	"context"

	"github.com/verte-zerg/workmanship/internal/model"
	"github.com/verte-zerg/workmanship/internal/store"
)

// Report contains precomputed data for score rendering.
type Report struct {
	Scores  []model.ScoreEntry
	Window  []model.ScoreEntry
	Lessons []model.LessonAggregate
}

// BuildReport loads and prepares data for score rendering.
func BuildReport(ctx context.Context, st *store.Store, filter model.ScoreFilter) (Report, error) {
	scores, err := st.ListScores(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if filter.Last > 0 && len(scores) > filter.Last {
		scores = scores[len(scores)-filter.Last:]
	}
	lessons, err := st.LessonSummaries(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Scores:  scores,
		Window:  lastScores(scores, filter.Window),
		Lessons: lessons,
	}, nil
}

func lastScores(scores []model.ScoreEntry, window int) []model.ScoreEntry {
	if window <= 0 || len(scores) <= window {
		return scores
	}
	return scores[len(scores)-window:]
}
