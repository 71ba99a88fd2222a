package session

import (
	"fmt"

	"github.com/verte-zerg/workmanship/internal/stats"
)

// EventSource yields one input event per call, blocking until one arrives.
type EventSource interface {
	Next() (Event, error)
}

// ScoreSink receives the statistics of completed sessions.
type ScoreSink interface {
	AppendScore(lessonKey string, snap stats.Snapshot) error
}

// Run drives s until it completes or is abandoned. The sink receives exactly
// one score per completed session and none otherwise.
func Run(s *Session, lessonKey string, src EventSource, sink ScoreSink) (stats.Snapshot, bool, error) {
	for !s.State().Terminal() {
		ev, err := src.Next()
		if err != nil {
			return stats.Snapshot{}, false, fmt.Errorf("read input: %w", err)
		}
		s.Handle(ev)
	}
	snap, ok, err := Record(s, lessonKey, sink)
	if err != nil {
		return snap, ok, fmt.Errorf("append score: %w", err)
	}
	return snap, ok, nil
}

// Record hands the result of a completed session to sink. Sessions that are
// still running or were abandoned record nothing and report false. A nil sink
// is allowed. Callers must record each session at most once.
func Record(s *Session, lessonKey string, sink ScoreSink) (stats.Snapshot, bool, error) {
	snap, ok := s.Result()
	if !ok {
		return stats.Snapshot{}, false, nil
	}
	if sink == nil {
		return snap, true, nil
	}
	return snap, true, sink.AppendScore(lessonKey, snap)
}
