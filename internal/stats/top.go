package stats

import (
	"sort"

	"github.com/verte-zerg/workmanship/internal/model"
)

// MostPracticed returns the top N lessons by attempt count.
func MostPracticed(aggs []model.LessonAggregate, n int) []model.LessonAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.LessonAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Attempts == items[j].Attempts {
			return lessonKey(items[i]) < lessonKey(items[j])
		}
		return items[i].Attempts > items[j].Attempts
	})
	return items[:min(n, len(items))]
}

func lessonKey(agg model.LessonAggregate) string {
	return model.LessonKey(agg.Layout, agg.Lesson)
}
