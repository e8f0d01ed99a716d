package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"#", "Word", "Errors"}
	rows := [][]string{
		{"1", "bók", "0"},
		{"12", "house", "3"},
	}
	rightAlign := map[int]bool{0: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	want := []string{
		" # Word  Errors",
		"-- ----- ------",
		" 1 bók        0",
		"12 house      3",
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: got %q want %q", i, lines[i], line)
		}
	}
}
