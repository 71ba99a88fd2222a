package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/workmanship/internal/session"
)

// LineEndMark is shown where Enter must be typed.
const LineEndMark = "↳"

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles one lesson line. Lines before the cursor line are
// fully typed, lines after are pending. missed marks the cursor as a miss.
func buildStyledRunes(line []rune, lineIdx, cursorLine, cursorCol int, missed bool) []styledRune {
	out := make([]styledRune, 0, len(line))
	for i, target := range line {
		displayed := string(target)
		width := runewidth.RuneWidth(target)
		if target == session.LineEnd {
			displayed = LineEndMark
			width = runewidth.StringWidth(LineEndMark)
		}
		style := pendingStyle
		switch {
		case lineIdx < cursorLine, lineIdx == cursorLine && i < cursorCol:
			style = correctStyle
		case lineIdx == cursorLine && i == cursorCol:
			style = cursorStyle
			if missed {
				style = incorrectStyle
			}
		case target == session.LineEnd:
			style = lineEndStyle
		}
		out = append(out, styledRune{
			s:       style.Render(displayed),
			width:   width,
			isSpace: target == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks a styled line at spaces so it fits width cells.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

// renderLesson renders every lesson line, wrapped to width.
func renderLesson(s *session.Session, width int, missed bool) string {
	cursorLine, cursorCol := s.Cursor()
	lines := s.Lines()
	rendered := make([]string, 0, len(lines))
	for i, line := range lines {
		runes := buildStyledRunes(line, i, cursorLine, cursorCol, missed)
		rendered = append(rendered, wrapStyledRunes(runes, width))
	}
	return strings.Join(rendered, "\n")
}
