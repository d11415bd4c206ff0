// Package scrollback provides the line store behind a terminal's scrollback
// history: an ordered, capacity-bounded stack of styled rows that a terminal
// emulator writes into and a renderer reads from.
//
// # Quick Start
//
// Create a buffer, append a few lines and read them back:
//
//	buf := scrollback.NewBuffer(scrollback.WithCapacity(5000))
//	buf.AppendStyledLine(scrollback.EmptyStyle, "$ ls")
//	buf.AppendStyledLine(scrollback.EmptyStyle, "README.md  go.mod")
//	fmt.Println(buf.Lines())
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [Buffer]: the row stack with eviction, region operations and projection
//   - [Row]: one line of styled text; [Line] is the default implementation
//   - [Style]: colors, flags and hyperlink shared by a run of text
//   - [Screen]: a cursor and scroll region over the bottom rows of a Buffer
//
// # Capacity and Eviction
//
// A Buffer holds at most Capacity rows plus one. The check runs before each
// append, so the buffer ratchets between Capacity and Capacity+1 rows once
// full. Evicted rows are pushed to an [ArchiveProvider]:
//
//	archive := scrollback.NewMemoryArchive(100000)
//	buf := scrollback.NewBuffer(
//	    scrollback.WithCapacity(1000),
//	    scrollback.WithArchive(archive),
//	)
//
// # Random Access
//
// [Buffer.RowAt] is not a pure read. Asking for a row past the end appends
// empty rows up to that index, which is how a cursor moving below the last
// line materializes it. Negative indices return [ErrRowOutOfRange]:
//
//	row, err := buf.RowAt(42)
//	if errors.Is(err, scrollback.ErrRowOutOfRange) {
//	    // negative index
//	}
//
// # Scroll Regions
//
// [Buffer.InsertRows] and [Buffer.DeleteRows] implement the IL/DL and
// partial-region scrolling primitives. Both keep the row count unchanged and
// leave rows outside [atRow, regionBottom] untouched:
//
//	buf.InsertRows(1, 2, 4) // A B C D E -> A _ _ B C
//	buf.DeleteRows(1, 2, 4) // A _ _ B C -> A B C _ _
//
// # Projection
//
// [Buffer.ProjectForDisplay] walks rows relative to the end of the buffer and
// hands each run to a [StyledTextConsumer]. [Buffer.ForEachRun] does the same
// with absolute indices:
//
//	buf.ProjectForDisplay(-24, 24, scrollback.ConsumerFunc(
//	    func(col, row int, style scrollback.Style, text string, startRow int) {
//	        draw(col, row, style, text)
//	    },
//	))
//
// # Screen
//
// [Screen] keeps a cursor and scroll region and exposes commands named after
// the ansicode handler callbacks. Line feeds at the bottom of a full-screen
// region push the top row into history:
//
//	screen := scrollback.NewScreen(buf, scrollback.WithSize(24, 80))
//	screen.WriteString("hello\r\nworld")
//	fmt.Println(screen.String())
//
// Every screen command can be intercepted with [Middleware].
//
// # Snapshots
//
// [Buffer.Snapshot] and [Screen.Snapshot] capture rows as JSON-friendly
// structs, either as plain text or with styled segments.
//
// # Configuration
//
// [LoadConfig] reads a YAML [Config] and [Config.NewScreen] builds a buffer
// and screen from it.
//
// # Thread Safety
//
// Buffer and Screen methods lock internally. Rows returned by [Buffer.RowAt]
// are shared with the buffer and are not protected after the call returns.
package scrollback
