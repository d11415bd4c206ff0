package scrollback

import (
	"testing"
)

func TestPrintable(t *testing.T) {
	tests := []struct {
		r        rune
		expected bool
	}{
		{'A', true},
		{' ', true},
		{'中', true},
		{'Ａ', true}, // Fullwidth A
		{0, false},
		{'\u0301', false}, // combining acute accent
	}

	for _, tt := range tests {
		if got := printable(tt.r); got != tt.expected {
			t.Errorf("printable(%q) = %v, want %v", tt.r, got, tt.expected)
		}
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		s        string
		expected int
	}{
		{"Hello", 5},
		{"中文", 4},
		{"Hello中文", 9},
		{"", 0},
	}

	for _, tt := range tests {
		if got := StringWidth(tt.s); got != tt.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.s, got, tt.expected)
		}
	}
}

func TestRowWidth(t *testing.T) {
	row := NewLine(Run{Text: "ab"}, Run{Style: EmptyStyle.WithFlag(StyleFlagBold), Text: "日本"})

	if got := RowWidth(row); got != 6 {
		t.Errorf("RowWidth = %d, want 6", got)
	}
	if row.Len() != 4 {
		t.Errorf("Len = %d, want 4", row.Len())
	}
}

func TestScreenInputDropsZeroWidth(t *testing.T) {
	s := newTestScreen(2, 10)

	s.WriteString("e\u0301x")

	if got := s.LineContent(0); got != "ex" {
		t.Errorf("LineContent(0) = %q, want %q", got, "ex")
	}
	if _, col := s.CursorPos(); col != 2 {
		t.Errorf("cursor col = %d, want 2", col)
	}
}
