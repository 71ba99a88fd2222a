package stats

import (
	"fmt"
	"time"
)

// CharsPerWord is the word length convention behind WPM.
const CharsPerWord = 5.0

// Snapshot is a point-in-time view of typing speed and accuracy.
type Snapshot struct {
	CPS      float64
	WPM      float64
	HitRatio float64
	Elapsed  time.Duration
	Hits     int
	Misses   int
}

// Compute derives speed and accuracy from elapsed time and hit/miss counts.
// With no keystrokes it returns the zero snapshot. Tiny elapsed times are not
// clamped.
func Compute(start, now time.Time, hits, misses int) Snapshot {
	if hits+misses == 0 {
		return Snapshot{}
	}
	elapsed := now.Sub(start)
	cps := float64(hits) / elapsed.Seconds()
	return Snapshot{
		CPS:      cps,
		WPM:      CPSToWPM(cps),
		HitRatio: float64(hits) / float64(hits+misses),
		Elapsed:  elapsed,
		Hits:     hits,
		Misses:   misses,
	}
}

// CPSToWPM converts characters per second to words per minute.
func CPSToWPM(cps float64) float64 {
	return cps * 60 / CharsPerWord
}

// ElapsedSeconds returns the elapsed time in seconds.
func (s Snapshot) ElapsedSeconds() float64 {
	return s.Elapsed.Seconds()
}

// Progress returns the typed share of a lesson of total characters, in percent.
func (s Snapshot) Progress(total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(s.Hits) / float64(total)
}

// StatusLine renders the live status bar text for a lesson of total characters.
func (s Snapshot) StatusLine(total int) string {
	return fmt.Sprintf("CPS %.2f WPM %.2f Hits: %.2f%% Misses: %d(%.2f%%) Typed %d of %d(%.2f) Elapsed: %.0fsec",
		s.CPS,
		s.WPM,
		100*s.HitRatio,
		s.Misses,
		100*(1-s.HitRatio),
		s.Hits,
		total,
		s.Progress(total),
		s.ElapsedSeconds(),
	)
}
