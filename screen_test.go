package scrollback

import (
	"math"
	"slices"
	"testing"
	"unicode"

	"github.com/danielgatis/go-ansicode"
)

func newTestScreen(rows, cols int, lines ...string) *Screen {
	return NewScreen(newTextBuffer(lines...), WithSize(rows, cols))
}

func TestNewScreen(t *testing.T) {
	s := NewScreen(NewBuffer())

	if s.Rows() != DefaultRows || s.Cols() != DefaultCols {
		t.Errorf("expected %dx%d, got %dx%d", DefaultRows, DefaultCols, s.Rows(), s.Cols())
	}
	if s.Buffer().Len() != DefaultRows {
		t.Errorf("expected screen rows to be materialized, got %d", s.Buffer().Len())
	}
	if !s.HasMode(ModeLineWrap) || !s.HasMode(ModeShowCursor) {
		t.Error("expected line wrap and show cursor by default")
	}
	if !s.CursorVisible() {
		t.Error("expected visible cursor")
	}
}

func TestScreenOverHistory(t *testing.T) {
	s := newTestScreen(3, 10, "A", "B", "C", "D", "E")

	if s.LineContent(0) != "C" {
		t.Errorf("expected screen to start at C, got %q", s.LineContent(0))
	}
	if s.String() != "C\nD\nE" {
		t.Errorf("expected %q, got %q", "C\nD\nE", s.String())
	}
}

func TestScreenWriteString(t *testing.T) {
	s := newTestScreen(3, 10)

	s.WriteString("Hello\r\nWorld")

	if s.String() != "Hello\nWorld" {
		t.Errorf("expected %q, got %q", "Hello\nWorld", s.String())
	}

	row, col := s.CursorPos()
	if row != 1 || col != 5 {
		t.Errorf("expected cursor (1, 5), got (%d, %d)", row, col)
	}
}

func TestScreenWriteStringControls(t *testing.T) {
	s := newTestScreen(2, 20)

	s.WriteString("ab\x07c\bX\tY")

	if got := s.LineContent(0); got != "abX     Y" {
		t.Errorf("expected %q, got %q", "abX     Y", got)
	}
}

func TestScreenIOWriter(t *testing.T) {
	s := newTestScreen(2, 20)

	n, err := s.Write([]byte("bytes"))
	if err != nil || n != 5 {
		t.Fatalf("expected (5, nil), got (%d, %v)", n, err)
	}
	if s.LineContent(0) != "bytes" {
		t.Errorf("expected %q, got %q", "bytes", s.LineContent(0))
	}
}

func TestScreenLineWrap(t *testing.T) {
	s := newTestScreen(3, 5)

	s.WriteString("abcdefg")

	if s.LineContent(0) != "abcde" || s.LineContent(1) != "fg" {
		t.Errorf("expected wrapped text, got %q", s.String())
	}
}

func TestScreenNoLineWrap(t *testing.T) {
	s := newTestScreen(3, 5)
	s.UnsetMode(ansicode.TerminalModeLineWrap)

	s.WriteString("abcdefg")

	if s.LineContent(0) != "abcdg" {
		t.Errorf("expected last column overwritten, got %q", s.LineContent(0))
	}
	if s.LineContent(1) != "" {
		t.Errorf("expected no wrap, got %q", s.LineContent(1))
	}
}

func TestScreenLineFeedIntoHistory(t *testing.T) {
	archive := NewMemoryArchive(0)
	buf := NewBuffer(WithCapacity(3), WithArchive(archive))
	s := NewScreen(buf, WithSize(2, 10))

	s.WriteString("L0\r\nL1\r\nL2\r\nL3\r\nL4\r\nL5")

	if s.LineContent(0) != "L4" || s.LineContent(1) != "L5" {
		t.Errorf("expected screen [L4 L5], got %q", s.String())
	}
	if buf.Len() != 4 {
		t.Errorf("expected buffer at capacity+1 rows, got %d", buf.Len())
	}
	if archive.Len() != 2 || archive.Row(0).Text() != "L0" {
		t.Errorf("expected L0 and L1 archived, got %d rows", archive.Len())
	}
}

func TestScreenLineFeedNewLineMode(t *testing.T) {
	s := newTestScreen(3, 10)
	s.SetMode(ansicode.TerminalModeLineFeedNewLine)

	s.WriteString("ab\ncd")

	if s.LineContent(1) != "cd" {
		t.Errorf("expected line feed to return to column 0, got %q", s.String())
	}
}

func TestScreenScrollRegionLineFeed(t *testing.T) {
	s := newTestScreen(5, 10, "A", "B", "C", "D", "E")

	s.SetScrollingRegion(2, 4)
	top, bottom := s.ScrollRegion()
	if top != 1 || bottom != 4 {
		t.Fatalf("expected region [1, 4), got [%d, %d)", top, bottom)
	}

	s.Goto(3, 0)
	s.LineFeed()

	if s.String() != "A\nC\nD\n\nE" {
		t.Errorf("expected region to scroll without history, got %q", s.String())
	}
	if s.Buffer().Len() != 5 {
		t.Errorf("expected no history rows, got %d rows", s.Buffer().Len())
	}
}

func TestScreenInsertDeleteLines(t *testing.T) {
	s := newTestScreen(5, 10, "A", "B", "C", "D", "E")

	s.Goto(1, 0)
	s.InsertBlankLines(2)
	if got := s.String(); got != "A\n\n\nB\nC" {
		t.Errorf("after insert expected %q, got %q", "A\n\n\nB\nC", got)
	}

	s.DeleteLines(2)
	if got := s.String(); got != "A\nB\nC" {
		t.Errorf("after delete expected %q, got %q", "A\nB\nC", got)
	}
}

func TestScreenInsertLinesKeepsHistory(t *testing.T) {
	s := newTestScreen(5, 10, "H1", "H2", "A", "B", "C", "D", "E")

	s.Goto(1, 0)
	s.InsertBlankLines(2)

	want := []string{"H1", "H2", "A", "", "", "B", "C"}
	if got := bufferTexts(t, s.Buffer()); !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestScreenInsertLinesOutsideRegion(t *testing.T) {
	s := newTestScreen(4, 10, "A", "B", "C", "D")

	s.SetScrollingRegion(1, 2)
	s.Goto(3, 0)
	s.InsertBlankLines(1)

	if got := s.String(); got != "A\nB\nC\nD" {
		t.Errorf("expected no change outside the region, got %q", got)
	}
}

func TestScreenReverseIndex(t *testing.T) {
	s := newTestScreen(3, 10, "A", "B", "C")

	s.ReverseIndex()

	if got := s.String(); got != "\nA\nB" {
		t.Errorf("expected %q, got %q", "\nA\nB", got)
	}

	s.Goto(2, 0)
	s.ReverseIndex()
	if row, _ := s.CursorPos(); row != 1 {
		t.Errorf("expected cursor to move up, got row %d", row)
	}
}

func TestScreenScrollUpDown(t *testing.T) {
	s := newTestScreen(3, 10, "A", "B", "C")

	s.ScrollUp(1)
	if got := s.String(); got != "B\nC" {
		t.Errorf("after scroll up expected %q, got %q", "B\nC", got)
	}
	if s.Buffer().Len() != 4 {
		t.Errorf("expected A kept as history, got %d rows", s.Buffer().Len())
	}

	s.ScrollDown(1)
	if got := s.String(); got != "\nB\nC" {
		t.Errorf("after scroll down expected %q, got %q", "\nB\nC", got)
	}
}

func TestScreenClearLine(t *testing.T) {
	tests := []struct {
		name string
		mode ansicode.LineClearMode
		want string
	}{
		{"right", ansicode.LineClearModeRight, "he"},
		{"left", ansicode.LineClearModeLeft, "   lo"},
		{"all", ansicode.LineClearModeAll, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen(2, 10, "hello", "world")
			s.Goto(0, 2)
			s.ClearLine(tt.mode)

			if got := s.LineContent(0); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if s.LineContent(1) != "world" {
				t.Errorf("expected other rows untouched, got %q", s.LineContent(1))
			}
		})
	}
}

func TestScreenClearScreen(t *testing.T) {
	tests := []struct {
		name string
		mode ansicode.ClearMode
		want string
	}{
		{"below", ansicode.ClearModeBelow, "aaa\nb"},
		{"above", ansicode.ClearModeAbove, "\n  b\nccc"},
		{"all", ansicode.ClearModeAll, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScreen(3, 10, "hist", "aaa", "bbb", "ccc")
			s.Goto(1, 1)
			s.ClearScreen(tt.mode)

			if got := s.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if text, _ := s.Buffer().LineText(0); text != "hist" {
				t.Errorf("expected history untouched, got %q", text)
			}
		})
	}
}

func TestScreenClearSaved(t *testing.T) {
	s := newTestScreen(2, 10, "H1", "H2", "A", "B")

	s.ClearScreen(ansicode.ClearModeSaved)

	if s.Buffer().Len() != 2 {
		t.Errorf("expected history removed, got %d rows", s.Buffer().Len())
	}
	if s.String() != "A\nB" {
		t.Errorf("expected screen kept, got %q", s.String())
	}
}

func TestScreenDeleteEraseChars(t *testing.T) {
	s := newTestScreen(2, 10, "hello")

	s.Goto(0, 1)
	s.DeleteChars(2)
	if got := s.LineContent(0); got != "hlo" {
		t.Errorf("after delete expected %q, got %q", "hlo", got)
	}

	s.EraseChars(1)
	if got := s.LineContent(0); got != "h o" {
		t.Errorf("after erase expected %q, got %q", "h o", got)
	}
}

func TestScreenCursorMovement(t *testing.T) {
	s := newTestScreen(5, 10)

	s.Goto(2, 3)
	s.MoveUp(1)
	s.MoveForward(2)
	if row, col := s.CursorPos(); row != 1 || col != 5 {
		t.Errorf("expected (1, 5), got (%d, %d)", row, col)
	}

	s.MoveDown(100)
	s.MoveBackward(100)
	if row, col := s.CursorPos(); row != 4 || col != 0 {
		t.Errorf("expected clamped (4, 0), got (%d, %d)", row, col)
	}

	s.GotoLine(2)
	s.GotoCol(7)
	if row, col := s.CursorPos(); row != 2 || col != 7 {
		t.Errorf("expected (2, 7), got (%d, %d)", row, col)
	}
}

func TestScreenTab(t *testing.T) {
	s := newTestScreen(2, 20)

	s.Tab(1)
	if _, col := s.CursorPos(); col != 8 {
		t.Errorf("expected col 8, got %d", col)
	}

	s.Tab(2)
	if _, col := s.CursorPos(); col != 19 {
		t.Errorf("expected tab to stop at last column, got %d", col)
	}
}

func TestScreenOriginMode(t *testing.T) {
	s := newTestScreen(5, 10)

	s.SetScrollingRegion(2, 4)
	s.SetMode(ansicode.TerminalModeOrigin)
	if row, _ := s.CursorPos(); row != 1 {
		t.Errorf("expected cursor at region top, got row %d", row)
	}

	s.Goto(1, 0)
	if row, _ := s.CursorPos(); row != 2 {
		t.Errorf("expected origin-relative row 2, got %d", row)
	}
}

func TestScreenSaveRestoreCursor(t *testing.T) {
	s := newTestScreen(5, 10)

	s.Goto(2, 3)
	s.SaveCursorPosition()

	s.Goto(0, 0)
	s.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeBold})
	s.RestoreCursorPosition()

	if row, col := s.CursorPos(); row != 2 || col != 3 {
		t.Errorf("expected (2, 3), got (%d, %d)", row, col)
	}
	if s.Template().HasFlag(StyleFlagBold) {
		t.Error("expected template restored without bold")
	}
}

func TestScreenShowCursorMode(t *testing.T) {
	s := newTestScreen(2, 10)

	s.UnsetMode(ansicode.TerminalModeShowCursor)
	if s.CursorVisible() || s.HasMode(ModeShowCursor) {
		t.Error("expected hidden cursor")
	}
}

func TestScreenCharAttributes(t *testing.T) {
	s := newTestScreen(2, 20)

	s.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeBold})
	s.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeCurlyUnderline})
	s.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeUnderline})
	s.WriteString("ab")
	s.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeReset})
	s.WriteString("cd")

	row, _ := s.Buffer().RowAt(0)
	runs := row.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d: %v", len(runs), runs)
	}

	styled := runs[0].Style
	if !styled.HasFlag(StyleFlagBold) || !styled.HasFlag(StyleFlagUnderline) {
		t.Errorf("expected bold underline, got %+v", styled)
	}
	if styled.HasFlag(StyleFlagCurlyUnderline) {
		t.Error("expected underline variants to be exclusive")
	}
	if !runs[1].Style.IsEmpty() {
		t.Errorf("expected reset style, got %+v", runs[1].Style)
	}
}

func TestScreenDefaultColorIsNil(t *testing.T) {
	s := newTestScreen(2, 20)

	s.SetTerminalCharAttribute(ansicode.TerminalCharAttribute{Attr: ansicode.CharAttributeForeground})
	if s.Template().Fg != nil {
		t.Errorf("expected default foreground, got %v", s.Template().Fg)
	}
}

func TestScreenHyperlink(t *testing.T) {
	s := newTestScreen(2, 20)

	s.SetHyperlink(&ansicode.Hyperlink{ID: "a", URI: "https://example.com"})
	s.WriteString("link")
	s.SetHyperlink(nil)
	s.WriteString(" text")

	row, _ := s.Buffer().RowAt(0)
	runs := row.Runs()
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Style.Hyperlink == nil || runs[0].Style.Hyperlink.URI != "https://example.com" {
		t.Errorf("expected hyperlink on first run, got %+v", runs[0].Style.Hyperlink)
	}
	if runs[1].Style.Hyperlink != nil {
		t.Error("expected hyperlink to end")
	}
}

func TestScreenResize(t *testing.T) {
	s := newTestScreen(3, 10, "A", "B", "C", "D", "E")
	s.Goto(2, 0)

	s.Resize(2, 10)
	if got := s.String(); got != "D\nE" {
		t.Errorf("after shrink expected %q, got %q", "D\nE", got)
	}
	if row, _ := s.CursorPos(); row != 1 {
		t.Errorf("expected cursor to follow E, got row %d", row)
	}

	s.Resize(5, 4)
	if got := s.String(); got != "A\nB\nC\nD\nE" {
		t.Errorf("after grow expected %q, got %q", "A\nB\nC\nD\nE", got)
	}
	if row, _ := s.CursorPos(); row != 4 {
		t.Errorf("expected cursor to follow E, got row %d", row)
	}
	if s.Cols() != 4 {
		t.Errorf("expected 4 cols, got %d", s.Cols())
	}

	s.Resize(0, 10)
	if s.Rows() != 5 {
		t.Errorf("expected invalid resize to be ignored, got %d rows", s.Rows())
	}
}

func TestScreenProject(t *testing.T) {
	s := newTestScreen(3, 10, "A", "B", "C", "D", "E")

	type call struct {
		row, startRow int
		text          string
	}
	var got []call
	s.Project(-1, 2, ConsumerFunc(func(col, row int, style Style, text string, startRow int) {
		got = append(got, call{row, startRow, text})
	}))

	want := []call{
		{-1, -2, "B"},
		{0, -2, "C"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestScreenProjectHugeCount(t *testing.T) {
	s := newTestScreen(3, 10, "A", "B", "C", "D", "E")

	var texts []string
	s.Project(-1, math.MaxInt, ConsumerFunc(func(col, row int, style Style, text string, startRow int) {
		texts = append(texts, text)
	}))

	if len(texts) < 3 || !slices.Equal(texts[:3], []string{"B", "C", "D"}) {
		t.Errorf("expected projection to start at B, got %v", texts)
	}
}

func TestScreenMiddleware(t *testing.T) {
	lineFeeds := 0
	s := NewScreen(NewBuffer(), WithSize(3, 10), WithMiddleware(&Middleware{
		Input: func(r rune, next func(rune)) {
			next(unicode.ToUpper(r))
		},
		LineFeed: func(next func()) {
			lineFeeds++
			next()
		},
	}))

	s.WriteString("ab\r\ncd")

	if s.String() != "AB\nCD" {
		t.Errorf("expected middleware to transform input, got %q", s.String())
	}
	if lineFeeds != 1 {
		t.Errorf("expected 1 line feed, got %d", lineFeeds)
	}
}

func TestMiddlewareMerge(t *testing.T) {
	calls := ""
	m := &Middleware{
		Backspace: func(next func()) { calls += "a" },
		Tab:       func(n int, next func(int)) { calls += "t" },
	}
	m.Merge(&Middleware{
		Backspace: func(next func()) { calls += "b" },
	})
	m.Merge(nil)

	m.Backspace(func() {})
	m.Tab(1, func(int) {})

	if calls != "bt" {
		t.Errorf("expected %q, got %q", "bt", calls)
	}
}
