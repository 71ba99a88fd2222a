package stats

import (
	"testing"

	"github.com/verte-zerg/workmanship/internal/model"
)

func TestMostPracticed(t *testing.T) {
	aggs := []model.LessonAggregate{
		{Layout: "Dvorak", Lesson: "b", Attempts: 4},
		{Layout: "Dvorak", Lesson: "a", Attempts: 4},
		{Layout: "Dvorak", Lesson: "c", Attempts: 1},
	}
	top := MostPracticed(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(top))
	}
	if top[0].Lesson != "a" || top[1].Lesson != "b" {
		t.Fatalf("unexpected order: %+v", top)
	}
}

func TestWeakestLessons(t *testing.T) {
	aggs := []model.LessonAggregate{
		{Layout: "Dvorak", Lesson: "good", Attempts: 2, AvgHitRatio: 0.99},
		{Layout: "Dvorak", Lesson: "bad", Attempts: 3, AvgHitRatio: 0.7},
		{Layout: "Dvorak", Lesson: "untried", Attempts: 0},
	}
	weak := WeakestLessons(aggs, 5)
	if len(weak) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(weak))
	}
	if weak[0].Lesson != "bad" {
		t.Fatalf("expected weakest lesson first, got %+v", weak[0])
	}
}

func TestSparklineAndMovingAverage(t *testing.T) {
	avg := MovingAverage([]float64{10, 20, 30, 40}, 2)
	want := []float64{10, 15, 25, 35}
	for i := range want {
		if avg[i] != want[i] {
			t.Fatalf("moving average[%d] = %v, want %v", i, avg[i], want[i])
		}
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}
