package scrollback

import "unicode/utf8"

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
)

// Snapshot is a serializable capture of a range of rows.
type Snapshot struct {
	Size     *SnapshotSize   `json:"size,omitempty"`
	Cursor   *SnapshotCursor `json:"cursor,omitempty"`
	FirstRow int             `json:"first_row"`
	Total    int             `json:"total_rows"`
	Lines    []SnapshotLine  `json:"lines"`
}

// SnapshotSize holds screen dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int  `json:"row"`
	Col     int  `json:"col"`
	Visible bool `json:"visible"`
}

// SnapshotLine represents a single row in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
}

// SnapshotSegment represents one styled run within a row.
type SnapshotSegment struct {
	Text       string        `json:"text"`
	Col        int           `json:"col"`
	Width      int           `json:"width"`
	Fg         string        `json:"fg,omitempty"`
	Bg         string        `json:"bg,omitempty"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// SnapshotLink holds hyperlink information.
type SnapshotLink struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri"`
}

// Snapshot captures rows [firstRow, firstRow+rowCount). Rows past the end
// of the buffer are not synthesized, so Lines may be shorter than rowCount.
func (b *Buffer) Snapshot(firstRow, rowCount int, detail SnapshotDetail) *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot(firstRow, rowCount, detail)
}

func (b *Buffer) snapshot(firstRow, rowCount int, detail SnapshotDetail) *Snapshot {
	firstRow = max(firstRow, 0)
	n := max(min(rowCount, len(b.rows)-firstRow), 0)
	snap := &Snapshot{
		FirstRow: firstRow,
		Total:    len(b.rows),
		Lines:    make([]SnapshotLine, 0, n),
	}

	for y := firstRow; y < firstRow+n; y++ {
		snap.Lines = append(snap.Lines, snapshotLine(b.rows[y], detail))
	}

	return snap
}

func snapshotLine(row Row, detail SnapshotDetail) SnapshotLine {
	line := SnapshotLine{
		Text: row.Text(),
	}

	if detail == SnapshotDetailStyled {
		line.Segments = runsToSegments(row.Runs())
	}

	return line
}

// runsToSegments converts runs to segments, starting a new segment whenever
// the resolved presentation changes.
func runsToSegments(runs []Run) []SnapshotSegment {
	var segments []SnapshotSegment
	col := 0

	for _, run := range runs {
		seg := SnapshotSegment{
			Text:       run.Text,
			Col:        col,
			Width:      StringWidth(run.Text),
			Fg:         colorToHex(run.Style.Fg, true),
			Bg:         colorToHex(run.Style.Bg, false),
			Attributes: styleAttrsToSnapshot(run.Style),
			Hyperlink:  styleHyperlinkToSnapshot(run.Style),
		}
		col += utf8.RuneCountInString(run.Text)

		if n := len(segments); n > 0 && segmentMatches(&segments[n-1], &seg) {
			segments[n-1].Text += seg.Text
			segments[n-1].Width += seg.Width
			continue
		}
		segments = append(segments, seg)
	}

	return segments
}

// segmentMatches checks if two segments render identically.
func segmentMatches(a, b *SnapshotSegment) bool {
	if a.Fg != b.Fg || a.Bg != b.Bg || a.Attributes != b.Attributes {
		return false
	}
	if a.Hyperlink == nil || b.Hyperlink == nil {
		return a.Hyperlink == b.Hyperlink
	}
	return *a.Hyperlink == *b.Hyperlink
}

func styleAttrsToSnapshot(s Style) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          s.HasFlag(StyleFlagBold),
		Dim:           s.HasFlag(StyleFlagDim),
		Italic:        s.HasFlag(StyleFlagItalic),
		Underline:     s.HasFlag(StyleFlagAnyUnderline),
		Blink:         s.HasFlag(StyleFlagBlinkSlow | StyleFlagBlinkFast),
		Reverse:       s.HasFlag(StyleFlagReverse),
		Hidden:        s.HasFlag(StyleFlagHidden),
		Strikethrough: s.HasFlag(StyleFlagStrike),
	}
}

func styleHyperlinkToSnapshot(s Style) *SnapshotLink {
	if s.Hyperlink == nil {
		return nil
	}
	return &SnapshotLink{
		ID:  s.Hyperlink.ID,
		URI: s.Hyperlink.URI,
	}
}
