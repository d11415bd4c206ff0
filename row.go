package scrollback

import "strings"

// Run is a maximal span of text sharing one style.
type Run struct {
	Style Style
	Text  string
}

// Row is one line of styled text held by a Buffer.
// The buffer never inspects characters itself; every column-level mutation
// is delegated to the row. Columns are counted in runes.
type Row interface {
	// Write overwrites text starting at col, padding with blanks when col is past the end.
	Write(col int, text string, style Style)
	// Clear removes all text from the row.
	Clear()
	// ClearRange blanks the columns in [startCol, endCol).
	ClearRange(startCol, endCol int)
	// DeleteChars removes count characters at col, shifting the rest left.
	DeleteChars(col, count int)
	// Text returns the concatenated text of all runs.
	Text() string
	// Runs returns the ordered runs of the row.
	Runs() []Run
}

// RowFactory creates an empty row.
type RowFactory func() Row

// NewEmptyLine is the default RowFactory.
func NewEmptyLine() Row {
	return &Line{}
}

// Line is the default Row implementation, storing text as styled runs.
type Line struct {
	runs []Run
}

// NewLine creates a line from runs. Empty runs are dropped and adjacent runs
// sharing a style are merged.
func NewLine(runs ...Run) *Line {
	l := &Line{}
	for _, r := range runs {
		l.runs = appendRun(l.runs, r)
	}
	return l
}

// lineCell is one rune with its style, used while mutating a line.
type lineCell struct {
	char  rune
	style Style
}

var blankCell = lineCell{char: ' ', style: EmptyStyle}

// Len returns the row length in runes.
func (l *Line) Len() int {
	n := 0
	for _, r := range l.runs {
		n += len([]rune(r.Text))
	}
	return n
}

func (l *Line) Write(col int, text string, style Style) {
	if col < 0 || text == "" {
		return
	}
	cells := l.cells()
	for len(cells) < col {
		cells = append(cells, blankCell)
	}
	for i, r := range []rune(text) {
		c := lineCell{char: r, style: style}
		if col+i < len(cells) {
			cells[col+i] = c
		} else {
			cells = append(cells, c)
		}
	}
	l.setCells(cells)
}

func (l *Line) Clear() {
	l.runs = nil
}

func (l *Line) ClearRange(startCol, endCol int) {
	if startCol < 0 {
		startCol = 0
	}
	cells := l.cells()
	if endCol > len(cells) {
		endCol = len(cells)
	}
	if startCol >= endCol {
		return
	}
	for i := startCol; i < endCol; i++ {
		cells[i] = blankCell
	}
	l.setCells(cells)
}

func (l *Line) DeleteChars(col, count int) {
	cells := l.cells()
	if col < 0 || count <= 0 || col >= len(cells) {
		return
	}
	end := min(col+count, len(cells))
	l.setCells(append(cells[:col], cells[end:]...))
}

func (l *Line) Text() string {
	var sb strings.Builder
	for _, r := range l.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func (l *Line) Runs() []Run {
	if len(l.runs) == 0 {
		return nil
	}
	runs := make([]Run, len(l.runs))
	copy(runs, l.runs)
	return runs
}

func (l *Line) cells() []lineCell {
	var cells []lineCell
	for _, r := range l.runs {
		for _, ch := range r.Text {
			cells = append(cells, lineCell{char: ch, style: r.Style})
		}
	}
	return cells
}

func (l *Line) setCells(cells []lineCell) {
	var runs []Run
	var sb strings.Builder
	for i, c := range cells {
		if i > 0 && c.style != cells[i-1].style {
			runs = append(runs, Run{Style: cells[i-1].style, Text: sb.String()})
			sb.Reset()
		}
		sb.WriteRune(c.char)
	}
	if len(cells) > 0 {
		runs = append(runs, Run{Style: cells[len(cells)-1].style, Text: sb.String()})
	}
	l.runs = runs
}

func appendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].Style == r.Style {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

var _ Row = (*Line)(nil)
