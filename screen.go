package scrollback

import (
	"image/color"
	"log/slog"
	"strings"
	"sync"

	"github.com/danielgatis/go-ansicode"
)

// ScreenMode is a bitmask of screen behavior flags.
type ScreenMode uint32

const (
	// ModeOrigin enables origin mode (cursor positioning relative to scroll region).
	ModeOrigin ScreenMode = 1 << iota
	// ModeLineWrap enables automatic line wrapping at column boundaries.
	ModeLineWrap
	// ModeLineFeedNewLine makes line feed also move to column 0.
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible.
	ModeShowCursor
)

const (
	// DefaultRows is the default number of screen rows.
	DefaultRows = 24
	// DefaultCols is the default number of screen columns.
	DefaultCols = 80
)

const tabWidth = 8

// Screen is a cursor and scroll region laid over the bottom rows of a Buffer.
// Screen row y is buffer row Len()-Rows()+y, so rows scrolled off the top of
// the screen stay in the buffer as history until the buffer evicts them.
// Command methods are named after the ansicode.Handler callbacks so a decoder
// driven handler can forward to them. All operations are thread-safe.
type Screen struct {
	mu sync.Mutex

	buf *Buffer

	rows int
	cols int

	cursor      *Cursor
	savedCursor *SavedCursor

	// Style applied to written text
	template Style

	// Scrolling region, bottom exclusive
	scrollTop    int
	scrollBottom int

	modes ScreenMode

	middleware *Middleware
	logger     *slog.Logger
}

// ScreenOption configures a Screen during construction.
type ScreenOption func(*Screen)

// WithSize sets the screen dimensions.
// Values <= 0 are replaced with defaults (24x80).
func WithSize(rows, cols int) ScreenOption {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}

	return func(s *Screen) {
		s.rows = rows
		s.cols = cols
	}
}

// WithMiddleware sets functions to intercept screen commands.
// Each middleware receives the original parameters and a next function to call the default implementation.
func WithMiddleware(mw *Middleware) ScreenOption {
	return func(s *Screen) {
		if s.middleware == nil {
			s.middleware = &Middleware{}
		}
		s.middleware.Merge(mw)
	}
}

// WithScreenLogger sets the logger for screen events.
func WithScreenLogger(l *slog.Logger) ScreenOption {
	return func(s *Screen) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScreen creates a screen over buf, extending the buffer so it holds at
// least Rows() rows. Defaults to 24x80 with line wrap and cursor visible.
// buf should have a capacity of at least Rows() rows.
func NewScreen(buf *Buffer, opts ...ScreenOption) *Screen {
	s := &Screen{
		buf:    buf,
		rows:   DefaultRows,
		cols:   DefaultCols,
		cursor: NewCursor(),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.scrollTop = 0
	s.scrollBottom = s.rows
	s.modes = ModeLineWrap | ModeShowCursor

	if c := buf.Capacity(); c > 0 && c < s.rows {
		s.logger.Warn("buffer capacity smaller than screen", "capacity", c, "rows", s.rows)
	}
	s.check(buf.RowAt(s.rows - 1))

	return s
}

// --- Coordinates ---

// top returns the buffer index of screen row 0 (caller must hold lock).
func (s *Screen) top() int {
	return max(s.buf.Len()-s.rows, 0)
}

// abs converts a screen row to a buffer row (caller must hold lock).
func (s *Screen) abs(row int) int {
	return s.top() + row
}

// effectiveRow returns the effective row considering origin mode.
func (s *Screen) effectiveRow(row int) int {
	if s.modes&ModeOrigin != 0 {
		return row + s.scrollTop
	}
	return row
}

// fullRegion reports whether the scroll region spans the whole screen.
func (s *Screen) fullRegion() bool {
	return s.scrollTop == 0 && s.scrollBottom == s.rows
}

func (s *Screen) check(_ Row, err error) {
	s.logError(err)
}

func (s *Screen) logError(err error) {
	if err != nil {
		s.logger.Warn("buffer operation failed", "error", err)
	}
}

// --- Accessors ---

// Rows returns the screen height in character rows.
func (s *Screen) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// Cols returns the screen width in character columns.
func (s *Screen) Cols() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cols
}

// Buffer returns the buffer backing the screen.
func (s *Screen) Buffer() *Buffer {
	return s.buf
}

// CursorPos returns the current cursor position (0-based, screen-relative).
func (s *Screen) CursorPos() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Row, s.cursor.Col
}

// CursorVisible returns true if the cursor is currently visible.
func (s *Screen) CursorVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Visible
}

// HasMode returns true if the specified mode flag is set.
func (s *Screen) HasMode(mode ScreenMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modes&mode != 0
}

// ScrollRegion returns the current scroll region (0-based, bottom exclusive).
func (s *Screen) ScrollRegion() (top, bottom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollTop, s.scrollBottom
}

// Template returns the style applied to newly written text.
func (s *Screen) Template() Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// --- Writing ---

// Write feeds plain text to the screen, implementing io.Writer.
// Escape sequences are not interpreted.
func (s *Screen) Write(data []byte) (int, error) {
	return s.WriteString(string(data))
}

// WriteString writes text at the cursor. Carriage return, line feed,
// backspace and tab move the cursor; other control characters are dropped.
func (s *Screen) WriteString(text string) (int, error) {
	for _, r := range text {
		switch r {
		case '\r':
			s.CarriageReturn()
		case '\n':
			s.LineFeed()
		case '\b':
			s.Backspace()
		case '\t':
			s.Tab(1)
		default:
			if r < 0x20 || r == 0x7f {
				continue
			}
			s.Input(r)
		}
	}
	return len(text), nil
}

// Input writes a character at the cursor using the current template and
// advances one column. Zero-width characters are dropped. When the cursor
// is past the last column, the line wraps first if ModeLineWrap is set,
// otherwise the last column is overwritten.
func (s *Screen) Input(r rune) {
	if s.middleware != nil && s.middleware.Input != nil {
		s.middleware.Input(r, s.inputInternal)
		return
	}
	s.inputInternal(r)
}

func (s *Screen) inputInternal(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !printable(r) {
		return
	}

	if s.cursor.Col >= s.cols {
		if s.modes&ModeLineWrap != 0 {
			s.cursor.Col = 0
			s.lineFeedLocked()
		} else {
			s.cursor.Col = s.cols - 1
		}
	}

	s.logError(s.buf.WriteText(s.cursor.Col, s.abs(s.cursor.Row), string(r), s.template))
	s.cursor.Col++
}

// Backspace moves the cursor one column left, stopping at column 0.
func (s *Screen) Backspace() {
	if s.middleware != nil && s.middleware.Backspace != nil {
		s.middleware.Backspace(s.backspaceInternal)
		return
	}
	s.backspaceInternal()
}

func (s *Screen) backspaceInternal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Col >= s.cols {
		s.cursor.Col = s.cols - 1
	}
	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

// CarriageReturn moves the cursor to column 0 of the current row.
func (s *Screen) CarriageReturn() {
	if s.middleware != nil && s.middleware.CarriageReturn != nil {
		s.middleware.CarriageReturn(s.carriageReturnInternal)
		return
	}
	s.carriageReturnInternal()
}

func (s *Screen) carriageReturnInternal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = 0
}

// LineFeed moves the cursor down one row. At the bottom of the scroll region
// the region scrolls up instead; with a full-screen region the top row moves
// into history. If ModeLineFeedNewLine is set, also moves to column 0.
func (s *Screen) LineFeed() {
	if s.middleware != nil && s.middleware.LineFeed != nil {
		s.middleware.LineFeed(s.lineFeedInternal)
		return
	}
	s.lineFeedInternal()
}

func (s *Screen) lineFeedInternal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modes&ModeLineFeedNewLine != 0 {
		s.cursor.Col = 0
	}
	s.lineFeedLocked()
}

func (s *Screen) lineFeedLocked() {
	switch {
	case s.cursor.Row == s.scrollBottom-1:
		s.scrollUpLocked(1)
	case s.cursor.Row < s.rows-1:
		s.cursor.Row++
	}
}

// ReverseIndex moves the cursor up one row. If at the top of the scroll region, scrolls down instead.
func (s *Screen) ReverseIndex() {
	if s.middleware != nil && s.middleware.ReverseIndex != nil {
		s.middleware.ReverseIndex(s.reverseIndexInternal)
		return
	}
	s.reverseIndexInternal()
}

func (s *Screen) reverseIndexInternal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row == s.scrollTop {
		s.scrollDownLocked(1)
	} else if s.cursor.Row > 0 {
		s.cursor.Row--
	}
}

// Tab moves the cursor forward n tab stops (every 8 columns), stopping at the last column.
func (s *Screen) Tab(n int) {
	if s.middleware != nil && s.middleware.Tab != nil {
		s.middleware.Tab(n, s.tabInternal)
		return
	}
	s.tabInternal(n)
}

func (s *Screen) tabInternal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.cursor.Col = min((s.cursor.Col/tabWidth+1)*tabWidth, s.cols-1)
	}
}

// --- Cursor movement ---

// Goto moves the cursor to (row, col), adjusting for origin mode if enabled.
func (s *Screen) Goto(row, col int) {
	if s.middleware != nil && s.middleware.Goto != nil {
		s.middleware.Goto(row, col, s.gotoInternal)
		return
	}
	s.gotoInternal(row, col)
}

func (s *Screen) gotoInternal(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row = s.effectiveRow(row)
	s.cursor.Row = clamp(row, 0, s.rows-1)
	s.cursor.Col = clamp(col, 0, s.cols-1)
}

// GotoLine moves the cursor to the specified row, adjusting for origin mode if enabled.
func (s *Screen) GotoLine(row int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row = s.effectiveRow(row)
	s.cursor.Row = clamp(row, 0, s.rows-1)
}

// GotoCol moves the cursor to the specified column, keeping the current row.
func (s *Screen) GotoCol(col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = clamp(col, 0, s.cols-1)
}

// MoveUp moves the cursor up n rows, stopping at row 0.
func (s *Screen) MoveUp(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.cursor.Row-n, 0, s.rows-1)
}

// MoveDown moves the cursor down n rows, stopping at the last row.
func (s *Screen) MoveDown(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.cursor.Row+n, 0, s.rows-1)
}

// MoveForward moves the cursor right n columns, stopping at the last column.
func (s *Screen) MoveForward(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = clamp(s.cursor.Col+n, 0, s.cols-1)
}

// MoveBackward moves the cursor left n columns, stopping at column 0.
func (s *Screen) MoveBackward(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = clamp(s.cursor.Col-n, 0, s.cols-1)
}

// SaveCursorPosition saves cursor position, template and origin mode for later restoration.
func (s *Screen) SaveCursorPosition() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.savedCursor = &SavedCursor{
		Row:        s.cursor.Row,
		Col:        s.cursor.Col,
		Template:   s.template,
		OriginMode: s.modes&ModeOrigin != 0,
	}
}

// RestoreCursorPosition restores the state saved by SaveCursorPosition.
// Does nothing if nothing was saved.
func (s *Screen) RestoreCursorPosition() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.savedCursor == nil {
		return
	}

	s.cursor.Row = clamp(s.savedCursor.Row, 0, s.rows-1)
	s.cursor.Col = clamp(s.savedCursor.Col, 0, s.cols-1)
	s.template = s.savedCursor.Template

	if s.savedCursor.OriginMode {
		s.modes |= ModeOrigin
	} else {
		s.modes &^= ModeOrigin
	}
}

// --- Scroll region ---

// SetScrollingRegion sets the scroll boundaries (1-based, converted to 0-based internally).
// Moves cursor to home position (top-left of region if origin mode, else absolute top-left).
func (s *Screen) SetScrollingRegion(top, bottom int) {
	if s.middleware != nil && s.middleware.SetScrollingRegion != nil {
		s.middleware.SetScrollingRegion(top, bottom, s.setScrollingRegionInternal)
		return
	}
	s.setScrollingRegionInternal(top, bottom)
}

func (s *Screen) setScrollingRegionInternal(top, bottom int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top--
	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > s.rows {
		bottom = s.rows
	}
	if top >= bottom {
		return
	}

	s.scrollTop = top
	s.scrollBottom = bottom

	if s.modes&ModeOrigin != 0 {
		s.cursor.Row = s.scrollTop
	} else {
		s.cursor.Row = 0
	}
	s.cursor.Col = 0
}

// ScrollUp shifts the scroll region up n rows. With a full-screen region the
// top rows move into history; otherwise they are discarded.
func (s *Screen) ScrollUp(n int) {
	if s.middleware != nil && s.middleware.ScrollUp != nil {
		s.middleware.ScrollUp(n, s.scrollUpInternal)
		return
	}
	s.scrollUpInternal(n)
}

func (s *Screen) scrollUpInternal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scrollUpLocked(n)
}

func (s *Screen) scrollUpLocked(n int) {
	if n <= 0 {
		return
	}

	if s.fullRegion() {
		for i := 0; i < n; i++ {
			s.buf.AppendStyledLine(EmptyStyle, "")
		}
		return
	}

	s.logError(s.buf.DeleteRows(s.abs(s.scrollTop), n, s.abs(s.scrollBottom-1)))
}

// ScrollDown shifts the scroll region down n rows, inserting blank rows at its top.
func (s *Screen) ScrollDown(n int) {
	if s.middleware != nil && s.middleware.ScrollDown != nil {
		s.middleware.ScrollDown(n, s.scrollDownInternal)
		return
	}
	s.scrollDownInternal(n)
}

func (s *Screen) scrollDownInternal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scrollDownLocked(n)
}

func (s *Screen) scrollDownLocked(n int) {
	s.logError(s.buf.InsertRows(s.abs(s.scrollTop), n, s.abs(s.scrollBottom-1)))
}

// InsertBlankLines inserts n blank lines at the cursor within the scroll region, shifting lines below down.
func (s *Screen) InsertBlankLines(n int) {
	if s.middleware != nil && s.middleware.InsertBlankLines != nil {
		s.middleware.InsertBlankLines(n, s.insertBlankLinesInternal)
		return
	}
	s.insertBlankLinesInternal(n)
}

func (s *Screen) insertBlankLinesInternal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		s.logError(s.buf.InsertRows(s.abs(s.cursor.Row), n, s.abs(s.scrollBottom-1)))
	}
}

// DeleteLines removes n lines at the cursor within the scroll region, shifting remaining lines up.
func (s *Screen) DeleteLines(n int) {
	if s.middleware != nil && s.middleware.DeleteLines != nil {
		s.middleware.DeleteLines(n, s.deleteLinesInternal)
		return
	}
	s.deleteLinesInternal(n)
}

func (s *Screen) deleteLinesInternal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		s.logError(s.buf.DeleteRows(s.abs(s.cursor.Row), n, s.abs(s.scrollBottom-1)))
	}
}

// --- Character operations ---

// DeleteChars removes n characters at the cursor, shifting the rest of the line left.
func (s *Screen) DeleteChars(n int) {
	if s.middleware != nil && s.middleware.DeleteChars != nil {
		s.middleware.DeleteChars(n, s.deleteCharsInternal)
		return
	}
	s.deleteCharsInternal(n)
}

func (s *Screen) deleteCharsInternal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logError(s.buf.DeleteChars(s.abs(s.cursor.Row), s.cursor.Col, n))
}

// EraseChars blanks n characters at the cursor without shifting.
func (s *Screen) EraseChars(n int) {
	if s.middleware != nil && s.middleware.EraseChars != nil {
		s.middleware.EraseChars(n, s.eraseCharsInternal)
		return
	}
	s.eraseCharsInternal(n)
}

func (s *Screen) eraseCharsInternal(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	end := min(s.cursor.Col+n, s.cols)
	s.logError(s.buf.ClearRange(s.abs(s.cursor.Row), s.cursor.Col, end))
}

// ClearLine clears portions of the current line based on mode (right of cursor, left of cursor, or entire line).
func (s *Screen) ClearLine(mode ansicode.LineClearMode) {
	if s.middleware != nil && s.middleware.ClearLine != nil {
		s.middleware.ClearLine(mode, s.clearLineInternal)
		return
	}
	s.clearLineInternal(mode)
}

func (s *Screen) clearLineInternal(mode ansicode.LineClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.abs(s.cursor.Row)
	switch mode {
	case ansicode.LineClearModeRight:
		s.logError(s.buf.ClearRange(row, s.cursor.Col, s.cols))
	case ansicode.LineClearModeLeft:
		s.logError(s.buf.ClearRange(row, 0, s.cursor.Col+1))
	case ansicode.LineClearModeAll:
		s.logError(s.buf.ClearRows(row, row))
	}
}

// ClearScreen clears screen regions based on mode (below cursor, above cursor, entire screen, or history).
func (s *Screen) ClearScreen(mode ansicode.ClearMode) {
	if s.middleware != nil && s.middleware.ClearScreen != nil {
		s.middleware.ClearScreen(mode, s.clearScreenInternal)
		return
	}
	s.clearScreenInternal(mode)
}

func (s *Screen) clearScreenInternal(mode ansicode.ClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.abs(s.cursor.Row)
	switch mode {
	case ansicode.ClearModeBelow:
		s.logError(s.buf.ClearRange(row, s.cursor.Col, s.cols))
		s.logError(s.buf.ClearRows(row+1, s.abs(s.rows-1)))
	case ansicode.ClearModeAbove:
		if s.cursor.Row > 0 {
			s.logError(s.buf.ClearRows(s.abs(0), row-1))
		}
		s.logError(s.buf.ClearRange(row, 0, s.cursor.Col+1))
	case ansicode.ClearModeAll:
		s.logError(s.buf.ClearRows(s.abs(0), s.abs(s.rows-1)))
	case ansicode.ClearModeSaved:
		// History is everything above the screen.
		s.buf.RemoveTopRows(s.top())
	}
}

// --- Attributes and modes ---

// SetTerminalCharAttribute applies SGR attributes to the template style (colors, bold, underline, etc.).
func (s *Screen) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	if s.middleware != nil && s.middleware.SetTerminalCharAttribute != nil {
		s.middleware.SetTerminalCharAttribute(attr, s.setTerminalCharAttributeInternal)
		return
	}
	s.setTerminalCharAttributeInternal(attr)
}

func (s *Screen) setTerminalCharAttributeInternal(attr ansicode.TerminalCharAttribute) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.template

	switch attr.Attr {
	case ansicode.CharAttributeReset:
		t = Style{Hyperlink: t.Hyperlink}

	case ansicode.CharAttributeBold:
		t = t.WithFlag(StyleFlagBold)

	case ansicode.CharAttributeDim:
		t = t.WithFlag(StyleFlagDim)

	case ansicode.CharAttributeItalic:
		t = t.WithFlag(StyleFlagItalic)

	case ansicode.CharAttributeUnderline:
		t = t.WithoutFlag(StyleFlagAnyUnderline).WithFlag(StyleFlagUnderline)

	case ansicode.CharAttributeDoubleUnderline:
		t = t.WithoutFlag(StyleFlagAnyUnderline).WithFlag(StyleFlagDoubleUnderline)

	case ansicode.CharAttributeCurlyUnderline:
		t = t.WithoutFlag(StyleFlagAnyUnderline).WithFlag(StyleFlagCurlyUnderline)

	case ansicode.CharAttributeDottedUnderline:
		t = t.WithoutFlag(StyleFlagAnyUnderline).WithFlag(StyleFlagDottedUnderline)

	case ansicode.CharAttributeDashedUnderline:
		t = t.WithoutFlag(StyleFlagAnyUnderline).WithFlag(StyleFlagDashedUnderline)

	case ansicode.CharAttributeBlinkSlow:
		t = t.WithFlag(StyleFlagBlinkSlow)

	case ansicode.CharAttributeBlinkFast:
		t = t.WithFlag(StyleFlagBlinkFast)

	case ansicode.CharAttributeReverse:
		t = t.WithFlag(StyleFlagReverse)

	case ansicode.CharAttributeHidden:
		t = t.WithFlag(StyleFlagHidden)

	case ansicode.CharAttributeStrike:
		t = t.WithFlag(StyleFlagStrike)

	case ansicode.CharAttributeCancelBold:
		t = t.WithoutFlag(StyleFlagBold)

	case ansicode.CharAttributeCancelBoldDim:
		t = t.WithoutFlag(StyleFlagBold | StyleFlagDim)

	case ansicode.CharAttributeCancelItalic:
		t = t.WithoutFlag(StyleFlagItalic)

	case ansicode.CharAttributeCancelUnderline:
		t = t.WithoutFlag(StyleFlagAnyUnderline)

	case ansicode.CharAttributeCancelBlink:
		t = t.WithoutFlag(StyleFlagBlinkSlow | StyleFlagBlinkFast)

	case ansicode.CharAttributeCancelReverse:
		t = t.WithoutFlag(StyleFlagReverse)

	case ansicode.CharAttributeCancelHidden:
		t = t.WithoutFlag(StyleFlagHidden)

	case ansicode.CharAttributeCancelStrike:
		t = t.WithoutFlag(StyleFlagStrike)

	case ansicode.CharAttributeForeground:
		t.Fg = attrColor(attr)

	case ansicode.CharAttributeBackground:
		t.Bg = attrColor(attr)

	case ansicode.CharAttributeUnderlineColor:
		t.UnderlineColor = attrColor(attr)
	}

	s.template = t
}

// attrColor converts an SGR color argument to a style color.
// No color means the terminal default, stored as nil so runs keep merging.
func attrColor(attr ansicode.TerminalCharAttribute) color.Color {
	if attr.RGBColor != nil {
		return color.RGBA{
			R: attr.RGBColor.R,
			G: attr.RGBColor.G,
			B: attr.RGBColor.B,
			A: 255,
		}
	}

	if attr.IndexedColor != nil {
		return IndexedColor{Index: int(attr.IndexedColor.Index)}
	}

	if attr.NamedColor != nil {
		switch name := int(*attr.NamedColor); name {
		case NamedColorForeground, NamedColorBackground:
			return nil
		default:
			return NamedColor{Name: name}
		}
	}

	return nil
}

// SetHyperlink sets the link attached to subsequently written text. nil ends the link.
func (s *Screen) SetHyperlink(hyperlink *ansicode.Hyperlink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hyperlink == nil {
		s.template.Hyperlink = nil
		return
	}
	s.template.Hyperlink = &Hyperlink{
		ID:  hyperlink.ID,
		URI: hyperlink.URI,
	}
}

// SetMode enables a screen mode. Modes the screen does not model are ignored.
func (s *Screen) SetMode(mode ansicode.TerminalMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setModeLocked(mode, true)
}

// UnsetMode disables a screen mode.
func (s *Screen) UnsetMode(mode ansicode.TerminalMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setModeLocked(mode, false)
}

// setModeLocked sets or unsets a screen mode (caller must hold lock).
func (s *Screen) setModeLocked(mode ansicode.TerminalMode, set bool) {
	var m ScreenMode

	switch mode {
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
		if set {
			s.cursor.Row = s.scrollTop
			s.cursor.Col = 0
		}
	case ansicode.TerminalModeLineWrap:
		m = ModeLineWrap
	case ansicode.TerminalModeLineFeedNewLine:
		m = ModeLineFeedNewLine
	case ansicode.TerminalModeShowCursor:
		m = ModeShowCursor
		s.cursor.Visible = set
	default:
		return
	}

	if set {
		s.modes |= m
	} else {
		s.modes &^= m
	}
}

// --- Resize ---

// Resize changes the screen dimensions. Growing takes rows back from history
// (or appends blank rows when there is none); shrinking leaves the rows above
// the new screen in history. The cursor keeps pointing at the same buffer row
// where possible, and the scroll region resets to the full screen.
func (s *Screen) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	oldTop := s.top()
	s.rows = rows
	s.cols = cols
	s.check(s.buf.RowAt(rows - 1))
	newTop := s.top()

	s.cursor.Row = clamp(s.cursor.Row+oldTop-newTop, 0, rows-1)
	s.cursor.Col = clamp(s.cursor.Col, 0, cols-1)

	s.scrollTop = 0
	s.scrollBottom = rows

	s.logger.Debug("resized screen", "rows", rows, "cols", cols)
}

// --- Reading ---

// LineContent returns the text of screen row row with trailing spaces removed.
// Returns "" if row is outside the screen.
func (s *Screen) LineContent(row int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineContentLocked(row)
}

func (s *Screen) lineContentLocked(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	text, err := s.buf.LineText(s.abs(row))
	if err != nil {
		return ""
	}
	return strings.TrimRight(text, " ")
}

// String returns the visible screen content as a newline-separated string.
// Trailing empty lines are omitted. Implements fmt.Stringer.
func (s *Screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []string
	lastNonEmpty := -1

	for row := 0; row < s.rows; row++ {
		line := s.lineContentLocked(row)
		lines = append(lines, line)
		if line != "" {
			lastNonEmpty = row
		}
	}

	if lastNonEmpty < 0 {
		return ""
	}

	return strings.Join(lines[:lastNonEmpty+1], "\n")
}

// Project feeds rowCount rows to consumer with row 0 at the top of the screen.
// Negative rows reach into history; startRow is the row of the oldest
// history line in that frame. consumer runs with the screen and its buffer
// locked and must not call back into either.
func (s *Screen) Project(firstRow, rowCount int, consumer StyledTextConsumer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	offset := min(s.buf.Len(), s.rows)
	s.buf.ProjectForDisplay(firstRow-offset, rowCount, ConsumerFunc(func(col, row int, style Style, text string, startRow int) {
		consumer.Consume(col, row+offset, style, text, startRow+offset)
	}))
}

// Snapshot captures the visible screen with its size and cursor.
// Rows in the snapshot are screen-relative; Total counts history and screen.
func (s *Screen) Snapshot(detail SnapshotDetail) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.buf.Snapshot(s.top(), s.rows, detail)
	snap.FirstRow = 0
	snap.Size = &SnapshotSize{Rows: s.rows, Cols: s.cols}
	snap.Cursor = &SnapshotCursor{
		Row:     s.cursor.Row,
		Col:     min(s.cursor.Col, s.cols-1),
		Visible: s.cursor.Visible,
	}
	return snap
}
