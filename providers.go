package scrollback

import "sync"

// --- Archive Provider ---

// ArchiveProvider receives rows evicted from the top of a Buffer.
// Implementations can keep them in memory, compress them, drop them, etc.
type ArchiveProvider interface {
	// Push stores an evicted row. Oldest rows should be removed if MaxRows is exceeded.
	Push(row Row)
	// Len returns the current number of stored rows.
	Len() int
	// Row returns the row at index, where 0 is the oldest row. Returns nil if out of range.
	Row(index int) Row
	// Clear removes all stored rows.
	Clear()
	// SetMaxRows sets the maximum capacity. Implementations should trim oldest rows if needed.
	SetMaxRows(max int)
	// MaxRows returns the current maximum capacity.
	MaxRows() int
}

// NoopArchive discards every evicted row.
type NoopArchive struct{}

func (NoopArchive) Push(row Row)       {}
func (NoopArchive) Len() int           { return 0 }
func (NoopArchive) Row(index int) Row  { return nil }
func (NoopArchive) Clear()             {}
func (NoopArchive) SetMaxRows(max int) {}
func (NoopArchive) MaxRows() int       { return 0 }

// MemoryArchive keeps evicted rows in memory with a configurable limit.
// When the limit is reached, the oldest rows are dropped. It is safe to read
// while the owning Buffer evicts into it.
//
// Example:
//
//	archive := scrollback.NewMemoryArchive(10000)
//	buf := scrollback.NewBuffer(scrollback.WithArchive(archive))
type MemoryArchive struct {
	mu      sync.RWMutex
	rows    []Row
	maxRows int
}

// NewMemoryArchive creates an in-memory archive with the given capacity.
// If maxRows is 0, the archive is unlimited.
func NewMemoryArchive(maxRows int) *MemoryArchive {
	return &MemoryArchive{
		rows:    make([]Row, 0),
		maxRows: maxRows,
	}
}

// Push appends a row. If maxRows is exceeded, the oldest row is removed.
// The archive takes ownership of the row.
func (m *MemoryArchive) Push(row Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
	m.trim()
}

func (m *MemoryArchive) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func (m *MemoryArchive) Row(index int) Row {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.rows) {
		return nil
	}
	return m.rows[index]
}

func (m *MemoryArchive) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make([]Row, 0)
}

// SetMaxRows sets the maximum capacity, dropping the oldest rows if the
// archive already holds more.
func (m *MemoryArchive) SetMaxRows(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxRows = max
	m.trim()
}

func (m *MemoryArchive) MaxRows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxRows
}

func (m *MemoryArchive) trim() {
	if m.maxRows > 0 && len(m.rows) > m.maxRows {
		excess := len(m.rows) - m.maxRows
		clear(m.rows[:excess])
		m.rows = m.rows[excess:]
	}
}

// --- Projection ---

// RunVisitor is called for every text run walked by Buffer.ForEachRun.
// col is the run's starting column and row its absolute buffer index.
type RunVisitor func(col, row int, style Style, text string)

// StyledTextConsumer receives the runs produced by a projection.
// row is relative to the caller's origin; startRow is the offset of the
// buffer's first row relative to that same origin.
type StyledTextConsumer interface {
	Consume(col, row int, style Style, text string, startRow int)
}

// ConsumerFunc adapts a function to StyledTextConsumer.
type ConsumerFunc func(col, row int, style Style, text string, startRow int)

func (f ConsumerFunc) Consume(col, row int, style Style, text string, startRow int) {
	f(col, row, style, text, startRow)
}

// Ensure implementations satisfy their interfaces
var _ ArchiveProvider = (*NoopArchive)(nil)
var _ ArchiveProvider = (*MemoryArchive)(nil)
var _ StyledTextConsumer = ConsumerFunc(nil)
