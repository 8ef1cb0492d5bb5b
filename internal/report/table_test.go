package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Name", "Kind", "Duration"}
	rows := [][]string{
		{"double-tap", "composite", "320 ms"},
		{"ramp", "pwle", "150 ms"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Name       Kind      Duration" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "double-tap composite   320 ms" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "ramp       pwle        150 ms" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
