package scrollback

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"
)

// DefaultCapacity is the default maximum number of retained rows.
const DefaultCapacity = 1000

// ErrRowOutOfRange is returned when a row index is negative.
var ErrRowOutOfRange = errors.New("scrollback: row index out of range")

// bufferIDs orders buffers for two-buffer locking.
var bufferIDs atomic.Uint64

// Buffer stores a terminal's screen and history as an ordered stack of rows.
// Index 0 is the oldest retained row. Every exported method takes the
// buffer's lock, so a Buffer is safe for concurrent use; rows returned by
// RowAt are not protected once the call returns.
type Buffer struct {
	mu sync.Mutex
	id uint64

	rows     []Row
	capacity int // 0 means unbounded

	newRow  RowFactory
	archive ArchiveProvider
	logger  *slog.Logger
	evicted uint64
}

// Option configures a Buffer during construction.
type Option func(*Buffer)

// WithCapacity sets the maximum number of retained rows.
// Values <= 0 are replaced with DefaultCapacity.
func WithCapacity(capacity int) Option {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return func(b *Buffer) {
		b.capacity = capacity
	}
}

// WithRowFactory sets the constructor used for synthesized and blank rows.
// Defaults to NewEmptyLine if nil or not set.
func WithRowFactory(f RowFactory) Option {
	return func(b *Buffer) {
		if f != nil {
			b.newRow = f
		}
	}
}

// WithArchive sets where evicted rows are pushed. Defaults to a no-op.
func WithArchive(p ArchiveProvider) Option {
	return func(b *Buffer) {
		if p != nil {
			b.archive = p
		}
	}
}

// WithLogger sets the logger for evictions, region operations and range errors.
// Defaults to a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(b *Buffer) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuffer creates an empty buffer holding at most DefaultCapacity rows
// (plus the one-row overshoot described on Append).
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		id:       bufferIDs.Add(1),
		capacity: DefaultCapacity,
		newRow:   NewEmptyLine,
		archive:  NoopArchive{},
		logger:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// scratch returns an unbounded, unshared buffer for region operations.
func (b *Buffer) scratch() *Buffer {
	return &Buffer{
		id:      bufferIDs.Add(1),
		newRow:  b.newRow,
		archive: NoopArchive{},
		logger:  b.logger,
	}
}

// Len returns the number of rows currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rows)
}

// Capacity returns the configured row limit.
func (b *Buffer) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Evicted returns how many rows have been evicted since creation.
func (b *Buffer) Evicted() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.evicted
}

// Archive returns the provider receiving evicted rows. Eviction pushes to
// it while holding the buffer lock but readers of the returned provider do
// not, so providers shared with concurrent readers must synchronize
// themselves. MemoryArchive does.
func (b *Buffer) Archive() ArchiveProvider {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.archive
}

func (b *Buffer) rangeError(op string, index int) error {
	b.logger.Warn("row index out of range", "op", op, "row", index)
	return fmt.Errorf("%s: %w: %d", op, ErrRowOutOfRange, index)
}

// --- Capacity & eviction ---

// Append adds row at the bottom. If the buffer already holds more than
// Capacity rows, the oldest row is evicted first. The check runs before the
// append, so the buffer may hold Capacity+1 rows until the next append.
func (b *Buffer) Append(row Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appendRow(row)
}

// AppendStyledLine appends a row holding a single run of text.
func (b *Buffer) AppendStyledLine(style Style, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row := b.newRow()
	row.Write(0, text, style)
	b.appendRow(row)
}

func (b *Buffer) appendRow(row Row) {
	if b.capacity > 0 && len(b.rows) > b.capacity {
		b.evictTop()
	}
	b.rows = append(b.rows, row)
}

func (b *Buffer) evictTop() {
	row := b.rows[0]
	b.removeTopRows(1)
	b.evicted++
	b.archive.Push(row)
	b.logger.Debug("evicted row", "capacity", b.capacity, "evicted", b.evicted)
}

// RemoveTopRows drops up to n rows from the top without archiving them.
func (b *Buffer) RemoveTopRows(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeTopRows(n)
}

func (b *Buffer) removeTopRows(n int) {
	n = clamp(n, 0, len(b.rows))
	clear(b.rows[:n])
	b.rows = b.rows[n:]
}

func (b *Buffer) removeBottomRows(n int) {
	n = clamp(n, 0, len(b.rows))
	keep := len(b.rows) - n
	clear(b.rows[keep:])
	b.rows = b.rows[:keep]
}

func (b *Buffer) blankRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = b.newRow()
	}
	return rows
}

// --- Random access ---

// RowAt returns the row at index. RowAt mutates the buffer: when index is at
// or past the end, empty rows are appended (with eviction) up to and
// including index, and the last synthesized row is returned. If eviction
// fired during the extension, that row now sits at a lower index.
// Negative indices fail with ErrRowOutOfRange before anything changes.
func (b *Buffer) RowAt(index int) (Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rowAt("row at", index)
}

func (b *Buffer) rowAt(op string, index int) (Row, error) {
	if index < 0 {
		return nil, b.rangeError(op, index)
	}
	if index < len(b.rows) {
		return b.rows[index], nil
	}

	var row Row
	for i := len(b.rows); i <= index; i++ {
		row = b.newRow()
		b.appendRow(row)
	}
	return row, nil
}

// LineText returns the text of the row at index, extending like RowAt.
func (b *Buffer) LineText(index int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, err := b.rowAt("line text", index)
	if err != nil {
		return "", err
	}
	return row.Text(), nil
}

// Lines returns the text of every row joined with newlines.
func (b *Buffer) Lines() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	for i, row := range b.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(row.Text())
	}
	return sb.String()
}

// --- Segment transfer ---

// lockPair locks a and b in id order and returns the matching unlock.
func lockPair(a, b *Buffer) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// MoveTopRowsTo removes up to n rows from the top of b and appends them,
// in order, to the bottom of dst.
func (b *Buffer) MoveTopRowsTo(n int, dst *Buffer) {
	unlock := lockPair(b, dst)
	defer unlock()
	b.moveTopRowsTo(n, dst)
}

func (b *Buffer) moveTopRowsTo(n int, dst *Buffer) {
	n = min(n, len(b.rows))
	if n <= 0 {
		return
	}
	moved := slices.Clone(b.rows[:n])
	b.removeTopRows(n)
	dst.appendRows(moved)
}

// MoveBottomRowsTo removes up to n rows from the bottom of b and prepends
// them, in order, to the top of dst.
func (b *Buffer) MoveBottomRowsTo(n int, dst *Buffer) {
	unlock := lockPair(b, dst)
	defer unlock()
	b.moveBottomRowsTo(n, dst)
}

func (b *Buffer) moveBottomRowsTo(n int, dst *Buffer) {
	n = min(n, len(b.rows))
	if n <= 0 {
		return
	}
	moved := slices.Clone(b.rows[len(b.rows)-n:])
	b.removeBottomRows(n)
	dst.prependRows(moved)
}

// AppendRows adds rows at the bottom without eviction. The buffer takes
// ownership of the rows.
func (b *Buffer) AppendRows(rows ...Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appendRows(rows)
}

func (b *Buffer) appendRows(rows []Row) {
	b.rows = append(b.rows, rows...)
}

// PrependRows adds rows at the top without eviction. The buffer takes
// ownership of the rows.
func (b *Buffer) PrependRows(rows ...Row) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prependRows(rows)
}

func (b *Buffer) prependRows(rows []Row) {
	b.rows = slices.Concat(rows, b.rows)
}

// --- Region insert / delete ---

// InsertRows inserts count blank rows at atRow inside the scroll region
// ending at regionBottom (inclusive). Rows pushed past regionBottom are
// discarded; rows outside the region and the total row count are unchanged.
// The caller is responsible for a sane region (atRow <= regionBottom < Len).
func (b *Buffer) InsertRows(atRow, count, regionBottom int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if atRow < 0 {
		return b.rangeError("insert rows", atRow)
	}
	if regionBottom < 0 {
		return b.rangeError("insert rows", regionBottom)
	}
	b.insertRows(atRow, count, regionBottom)
	return nil
}

func (b *Buffer) insertRows(atRow, count, regionBottom int) {
	if count <= 0 {
		return
	}

	tail := b.scratch()
	if regionBottom < len(b.rows)-1 {
		b.moveBottomRowsTo(len(b.rows)-regionBottom-1, tail)
	}

	head := b.scratch()
	if atRow > 0 {
		b.moveTopRowsTo(atRow, head)
	}

	// Blanks beyond the region height would be trimmed right away.
	count = min(count, len(b.rows))
	head.appendRows(b.blankRows(count))

	head.moveBottomRowsTo(len(head.rows), b)
	b.removeBottomRows(count)
	tail.moveTopRowsTo(len(tail.rows), b)

	b.logger.Debug("inserted rows", "at", atRow, "count", count, "bottom", regionBottom)
}

// DeleteRows removes count rows at atRow inside the scroll region ending at
// regionBottom (inclusive) and fills the bottom of the region with blank rows.
// Rows outside the region and the total row count are unchanged.
func (b *Buffer) DeleteRows(atRow, count, regionBottom int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if atRow < 0 {
		return b.rangeError("delete rows", atRow)
	}
	if regionBottom < 0 {
		return b.rangeError("delete rows", regionBottom)
	}
	b.deleteRows(atRow, count, regionBottom)
	return nil
}

func (b *Buffer) deleteRows(atRow, count, regionBottom int) {
	if count <= 0 {
		return
	}

	tail := b.scratch()
	if regionBottom < len(b.rows)-1 {
		b.moveBottomRowsTo(len(b.rows)-regionBottom-1, tail)
	}

	head := b.scratch()
	if atRow > 0 {
		b.moveTopRowsTo(atRow, head)
	}

	toRemove := min(count, len(b.rows))
	b.removeTopRows(toRemove)

	head.moveBottomRowsTo(len(head.rows), b)
	b.appendRows(b.blankRows(toRemove))
	tail.moveTopRowsTo(len(tail.rows), b)

	b.logger.Debug("deleted rows", "at", atRow, "count", toRemove, "bottom", regionBottom)
}

// --- Text mutation ---

// WriteText writes text at (col, row), extending the buffer to reach row.
func (b *Buffer) WriteText(col, row int, text string, style Style) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, err := b.rowAt("write text", row)
	if err != nil {
		return err
	}
	r.Write(col, text, style)
	return nil
}

// ClearRange blanks columns [startCol, endCol) of row, extending the buffer to reach row.
func (b *Buffer) ClearRange(row, startCol, endCol int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, err := b.rowAt("clear range", row)
	if err != nil {
		return err
	}
	r.ClearRange(startCol, endCol)
	return nil
}

// DeleteChars removes count characters at (col, row), extending the buffer to reach row.
func (b *Buffer) DeleteChars(row, col, count int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	r, err := b.rowAt("delete chars", row)
	if err != nil {
		return err
	}
	r.DeleteChars(col, count)
	return nil
}

// ClearRows clears rows startRow through endRow (inclusive). Rows past the
// end of the buffer are not synthesized.
func (b *Buffer) ClearRows(startRow, endRow int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if startRow < 0 {
		return b.rangeError("clear rows", startRow)
	}
	for i := startRow; i <= endRow && i < len(b.rows); i++ {
		b.rows[i].Clear()
	}
	return nil
}

// ClearArea blanks columns [left, right) on rows [top, bottom), extending
// the buffer to reach bottom-1.
func (b *Buffer) ClearArea(left, top, right, bottom int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if top < 0 {
		return b.rangeError("clear area", top)
	}
	for y := top; y < bottom; y++ {
		r, err := b.rowAt("clear area", y)
		if err != nil {
			return err
		}
		r.ClearRange(left, right)
	}
	return nil
}

// --- Projection ---

// ForEachRun walks rows [firstRow, firstRow+rowCount) and calls visit for
// each run, left to right, with its starting column and absolute row.
// Rows that do not exist are skipped. visit runs with the buffer locked and
// must not call back into it.
func (b *Buffer) ForEachRun(firstRow, rowCount int, visit RunVisitor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forEachRun(firstRow, rowCount, visit)
}

func (b *Buffer) forEachRun(firstRow, rowCount int, visit RunVisitor) {
	if firstRow < 0 {
		rowCount += firstRow
		firstRow = 0
	}
	n := min(rowCount, len(b.rows)-firstRow)
	for y := firstRow; y < firstRow+n; y++ {
		x := 0
		for _, run := range b.rows[y].Runs() {
			visit(x, y, run.Style, run.Text)
			x += utf8.RuneCountInString(run.Text)
		}
	}
}

// ProjectForDisplay feeds rowCount rows to consumer, addressing rows relative
// to the end of the buffer: firstRow -1 is the last row, -Len() the first.
// The consumer receives row coordinates in that same frame and -Len() as
// startRow. consumer runs with the buffer locked and must not call back
// into it.
func (b *Buffer) ProjectForDisplay(firstRow, rowCount int, consumer StyledTextConsumer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	shift := len(b.rows)
	b.forEachRun(shift+firstRow, rowCount, func(col, row int, style Style, text string) {
		consumer.Consume(col, row-shift, style, text, -shift)
	})
}

// --- Search ---

// Search finds every occurrence of pattern in the buffer's rows.
// Positions use absolute row indices and rune columns.
func (b *Buffer) Search(pattern string) []Position {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pattern == "" {
		return nil
	}

	var matches []Position
	patternRunes := []rune(pattern)

	for row, r := range b.rows {
		lineRunes := []rune(r.Text())
		for col := 0; col <= len(lineRunes)-len(patternRunes); col++ {
			if slices.Equal(lineRunes[col:col+len(patternRunes)], patternRunes) {
				matches = append(matches, Position{Row: row, Col: col})
			}
		}
	}

	return matches
}

// Position identifies a character location in the buffer (0-based).
type Position struct {
	Row int
	Col int
}

// Before returns true if this position comes before other in reading order (top-to-bottom, left-to-right).
func (p Position) Before(other Position) bool {
	if p.Row < other.Row {
		return true
	}
	return p.Row == other.Row && p.Col < other.Col
}

// clamp ensures the value is within the given range.
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
