// Package stats computes typing speed statistics and renders score reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/workmanship/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// WPMSeries extracts the WPM of each score, in order.
func WPMSeries(scores []model.ScoreEntry) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = s.WPM
	}
	return out
}

// Summary aggregates a list of scores.
type Summary struct {
	Attempts    int
	AvgWPM      float64
	BestWPM     float64
	AvgCPS      float64
	AvgHitRatio float64
}

// Summarize averages speed and accuracy over scores.
func Summarize(scores []model.ScoreEntry) Summary {
	if len(scores) == 0 {
		return Summary{}
	}
	var sum Summary
	for _, s := range scores {
		sum.AvgWPM += s.WPM
		sum.AvgCPS += s.CPS
		sum.AvgHitRatio += s.HitRatio
		sum.BestWPM = math.Max(sum.BestWPM, s.WPM)
	}
	count := float64(len(scores))
	sum.Attempts = len(scores)
	sum.AvgWPM /= count
	sum.AvgCPS /= count
	sum.AvgHitRatio /= count
	return sum
}

// RenderSummary prints a summary of the scores.
func RenderSummary(w io.Writer, scores []model.ScoreEntry) error {
	if len(scores) == 0 {
		_, err := fmt.Fprintln(w, "No scores recorded.")
		return err
	}
	sum := Summarize(scores)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", sum.Attempts),
		fmt.Sprintf("Avg WPM: %.2f", sum.AvgWPM),
		fmt.Sprintf("Best WPM: %.2f", sum.BestWPM),
		fmt.Sprintf("Avg CPS: %.2f", sum.AvgCPS),
		fmt.Sprintf("Avg Hits: %.2f%%", sum.AvgHitRatio*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints the WPM moving average as a sparkline.
func RenderTrend(w io.Writer, scores []model.ScoreEntry, window int) error {
	if len(scores) == 0 {
		return nil
	}
	wpms := MovingAverage(WPMSeries(scores), window)
	if _, err := fmt.Fprintf(w, "WPM trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s] %.1f -> %.1f\n\n", Sparkline(wpms), wpms[0], wpms[len(wpms)-1]); err != nil {
		return err
	}
	return nil
}

// LessonTable returns the headers and rows of the per-lesson table.
func LessonTable(aggs []model.LessonAggregate) ([]string, [][]string) {
	headers := []string{"Layout", "Lesson", "Attempts", "Best WPM", "Avg WPM", "Avg Hits"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.Layout,
			agg.Lesson,
			fmt.Sprintf("%d", agg.Attempts),
			fmt.Sprintf("%.1f", agg.BestWPM),
			fmt.Sprintf("%.1f", agg.AvgWPM),
			fmt.Sprintf("%.2f%%", agg.AvgHitRatio*100),
		})
	}
	return headers, rows
}

// RenderLessonTable prints per-lesson aggregates.
func RenderLessonTable(w io.Writer, aggs []model.LessonAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No lesson stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Lesson"); err != nil {
		return err
	}
	headers, rows := LessonTable(aggs)
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
