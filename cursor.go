package scrollback

// Cursor tracks the write position on a Screen (0-based, screen-relative).
type Cursor struct {
	Row     int
	Col     int
	Visible bool
}

// NewCursor creates a visible cursor at (0, 0).
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Visible: true,
	}
}

// SavedCursor stores cursor position, style template and origin mode for restoration (DECSC/DECRC).
type SavedCursor struct {
	Row        int
	Col        int
	Template   Style
	OriginMode bool
}
