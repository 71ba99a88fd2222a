package generator

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/verte-zerg/workmanship/internal/layout"
)

func TestWrap(t *testing.T) {
	got := Wrap([]string{"aa", "bbb", "c", "dddddddd", "e"}, 6)
	want := []string{"aa bbb", "c", "dddddddd", "e"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected wrap: %q", got)
	}
	if got := Wrap([]string{"a", "b"}, 0); len(got) != 1 || got[0] != "a b" {
		t.Fatalf("expected single line without width, got %q", got)
	}
	if got := Wrap(nil, 10); len(got) != 0 {
		t.Fatalf("expected no lines, got %q", got)
	}
}

func TestDrillRespectsOptions(t *testing.T) {
	g := NewSeeded(7)
	words := []string{"aoeu", "htns", "id"}
	text, err := g.Drill(words, Options{Words: 30, LineWidth: 20})
	if err != nil {
		t.Fatalf("drill: %v", err)
	}
	lines := strings.Split(text, "\n")
	count := 0
	for _, line := range lines {
		if utf8.RuneCountInString(line) > 20 {
			t.Fatalf("line too long: %q", line)
		}
		for _, w := range strings.Fields(line) {
			if w != "aoeu" && w != "htns" && w != "id" {
				t.Fatalf("unexpected word %q", w)
			}
			count++
		}
	}
	if count != 30 {
		t.Fatalf("expected 30 words, got %d", count)
	}
}

func TestDrillAppliesCapsAndPunct(t *testing.T) {
	g := NewSeeded(1)
	text, err := g.Drill([]string{"aoeu"}, Options{Words: 5, CapsPct: 1, PunctPct: 1, PunctSet: []rune{';'}})
	if err != nil {
		t.Fatalf("drill: %v", err)
	}
	if text != "Aoeu; Aoeu; Aoeu; Aoeu; Aoeu;" {
		t.Fatalf("unexpected drill text: %q", text)
	}
}

func TestDrillErrors(t *testing.T) {
	g := NewSeeded(1)
	if _, err := g.Drill(nil, Options{Words: 3}); err == nil {
		t.Fatalf("expected error without words")
	}
	if _, err := g.Drill([]string{"a"}, Options{}); err == nil {
		t.Fatalf("expected error for zero words")
	}
}

func TestPunctuationOfDvorak(t *testing.T) {
	table, err := layout.Lookup(layout.Dvorak)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	punct := string(Punctuation(table))
	if !strings.HasPrefix(punct, "&*()[{]}'\",<.>/?=+") {
		t.Fatalf("unexpected punctuation order: %q", punct)
	}
	if strings.ContainsAny(punct, "aoeu79") {
		t.Fatalf("letters or digits leaked: %q", punct)
	}
}
