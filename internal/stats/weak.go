package stats

import (
	"sort"

	"github.com/verte-zerg/workmanship/internal/model"
)

// WeakestLessons selects the lowest-accuracy lessons from aggregates.
func WeakestLessons(aggs []model.LessonAggregate, top int) []model.LessonAggregate {
	candidates := make([]model.LessonAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Attempts > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].AvgHitRatio == candidates[j].AvgHitRatio {
			return lessonKey(candidates[i]) < lessonKey(candidates[j])
		}
		return candidates[i].AvgHitRatio < candidates[j].AvgHitRatio
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
