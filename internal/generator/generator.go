// Package generator builds drill lesson text.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/workmanship/internal/layout"
)

// Generator produces randomized typing text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Options controls drill generation.
type Options struct {
	Words     int
	CapsPct   float64
	PunctPct  float64
	PunctSet  []rune
	LineWidth int
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		result = append(result, word)
	}
	return result
}

// Drill generates a lesson text of opts.Words words wrapped to
// opts.LineWidth runes per line.
func (g *Generator) Drill(words []string, opts Options) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("no words available for drill")
	}
	if opts.Words <= 0 {
		return "", fmt.Errorf("word count must be > 0")
	}
	picked := g.Generate(words, opts.Words, opts.CapsPct, opts.PunctPct, opts.PunctSet)
	return strings.Join(Wrap(picked, opts.LineWidth), "\n"), nil
}

// Wrap joins words with spaces into lines of at most width runes. A word
// longer than width gets a line of its own. Width <= 0 yields one line.
func Wrap(words []string, width int) []string {
	var lines []string
	var line strings.Builder
	lineLen := 0
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if lineLen > 0 && width > 0 && lineLen+1+n > width {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteByte(' ')
			lineLen++
		}
		line.WriteString(w)
		lineLen += n
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// Punctuation returns the punctuation and symbol characters of a layout
// table in row order, without duplicates.
func Punctuation(table layout.Table) []rune {
	seen := map[rune]struct{}{}
	var out []rune
	for _, row := range table {
		for _, r := range row {
			if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
				continue
			}
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
