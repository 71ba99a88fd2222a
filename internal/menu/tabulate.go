package menu

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BottomClearance is the number of rows kept free below a table for the
// blank line and the status bar.
const BottomClearance = 2

// TerminalError reports a display too small for the requested content.
type TerminalError struct {
	Msg string
}

func (e *TerminalError) Error() string {
	return e.Msg
}

// Grid is a column-major layout of labels.
type Grid struct {
	Labels []Label
	Rows   int
	Widths []int
}

// Columns returns the number of populated columns.
func (g Grid) Columns() int {
	return len(g.Widths)
}

// Tabulate finds the largest column count whose total width, gutters
// included, stays under maxWidth. Labels fill columns top to bottom. The
// table starts at row startY and must leave BottomClearance rows free.
func Tabulate(labels []Label, maxWidth, maxHeight, startY int, gutter string) (Grid, error) {
	n := len(labels)
	if n == 0 {
		return Grid{}, nil
	}
	lengths := make([]int, n)
	for i, l := range labels {
		lengths[i] = runewidth.StringWidth(l.Text)
	}
	gutterWidth := runewidth.StringWidth(gutter)

	var best *Grid
	totalWidth := 0
	for ncols := 1; ncols <= n; ncols++ {
		nrows := (n + ncols - 1) / ncols
		widths := columnWidths(lengths, nrows)
		totalWidth = gutterWidth * (ncols - 1)
		for _, w := range widths {
			totalWidth += w
		}
		if totalWidth >= maxWidth {
			break
		}
		best = &Grid{Labels: labels, Rows: nrows, Widths: widths}
	}
	if best == nil {
		return Grid{}, &TerminalError{Msg: fmt.Sprintf(
			"Terminal width(%d) too small, must have more than %d columns.", maxWidth, totalWidth)}
	}

	needHeight := startY + best.Rows + BottomClearance
	if needHeight >= maxHeight {
		return Grid{}, &TerminalError{Msg: fmt.Sprintf(
			"Terminal height(%d) too small, must have more than %d rows or more than %d columns.",
			maxHeight, needHeight, maxWidth)}
	}
	return *best, nil
}

func columnWidths(lengths []int, nrows int) []int {
	var widths []int
	for start := 0; start < len(lengths); start += nrows {
		end := min(start+nrows, len(lengths))
		w := 0
		for _, l := range lengths[start:end] {
			w = max(w, l)
		}
		widths = append(widths, w)
	}
	return widths
}

// Lines renders the grid row by row. Paint styles a padded cell and may be
// nil. Cells are padded only when another cell follows on the same row.
func (g Grid) Lines(gutter string, paint func(text string, style Style) string) []string {
	if paint == nil {
		paint = func(text string, _ Style) string { return text }
	}
	lines := make([]string, 0, g.Rows)
	for r := 0; r < g.Rows; r++ {
		var b strings.Builder
		for c := range g.Widths {
			i := c*g.Rows + r
			if i >= len(g.Labels) {
				break
			}
			if c > 0 {
				b.WriteString(gutter)
			}
			text := g.Labels[i].Text
			if next := (c+1)*g.Rows + r; next < len(g.Labels) {
				text = runewidth.FillRight(text, g.Widths[c])
			}
			b.WriteString(paint(text, g.Labels[i].Style))
		}
		lines = append(lines, b.String())
	}
	return lines
}
