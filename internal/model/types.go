// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Settings holds the user selections owned by the menu loop. Sessions read
// them once at start.
type Settings struct {
	Layout      string
	Beep        bool
	LessonsPath string
}

// DrillConfig defines generated drill lesson settings.
type DrillConfig struct {
	Layout       string
	WordListPath string
	Words        int
	CapsPct      float64
	PunctPct     float64
	LineWidth    int
}

// ScoreFilter defines filters for score history queries.
type ScoreFilter struct {
	Layout string
	Lesson string
	Since  *time.Time
	Last   int
	Window int
}

// ScoreEntry is one completed lesson attempt.
type ScoreEntry struct {
	ID         string
	Layout     string
	Lesson     string
	RecordedAt time.Time
	CPS        float64
	WPM        float64
	HitRatio   float64
	ElapsedMs  int64
	Hits       int
	Misses     int
}

// LessonKey builds the score-history key of a lesson.
func LessonKey(layout, lesson string) string {
	return layout + "/" + lesson
}

// SplitLessonKey splits a key built by LessonKey. Layout titles never
// contain a slash, lesson titles may.
func SplitLessonKey(key string) (layout, lesson string, ok bool) {
	layout, lesson, ok = strings.Cut(key, "/")
	return layout, lesson, ok
}

// LessonAggregate summarizes the attempts of one lesson.
type LessonAggregate struct {
	Layout      string
	Lesson      string
	Attempts    int
	BestWPM     float64
	AvgWPM      float64
	AvgHitRatio float64
	LastAt      time.Time
}
