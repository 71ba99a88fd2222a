package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Lesson", "Attempts", "Best WPM"}
	rows := [][]string{
		{"ASHT: home row", "12", "41.5"},
		{"home", "3", "8.0"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Lesson         Attempts Best WPM" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "ASHT: home row       12     41.5" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "home                  3      8.0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
