package scrollback

import "image/color"

// StyleFlags is a bitmask of text rendering attributes.
type StyleFlags uint16

const (
	StyleFlagBold StyleFlags = 1 << iota
	StyleFlagDim
	StyleFlagItalic
	StyleFlagUnderline
	StyleFlagDoubleUnderline
	StyleFlagCurlyUnderline
	StyleFlagDottedUnderline
	StyleFlagDashedUnderline
	StyleFlagBlinkSlow
	StyleFlagBlinkFast
	StyleFlagReverse
	StyleFlagHidden
	StyleFlagStrike
)

// StyleFlagAnyUnderline covers every underline variant.
const StyleFlagAnyUnderline = StyleFlagUnderline | StyleFlagDoubleUnderline | StyleFlagCurlyUnderline | StyleFlagDottedUnderline | StyleFlagDashedUnderline

// Style is the attribute set shared by every character of a text run.
// A nil color means the terminal default. Style values are compared with ==,
// so colors must be comparable (color.RGBA, IndexedColor and NamedColor are).
type Style struct {
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Flags          StyleFlags
	Hyperlink      *Hyperlink
}

// EmptyStyle is the default style used for blank padding and cleared cells.
var EmptyStyle = Style{}

// Hyperlink associates a run with a clickable link (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// HasFlag returns true if the specified flag is set.
func (s Style) HasFlag(flag StyleFlags) bool {
	return s.Flags&flag != 0
}

// WithFlag returns a copy of the style with flag enabled.
func (s Style) WithFlag(flag StyleFlags) Style {
	s.Flags |= flag
	return s
}

// WithoutFlag returns a copy of the style with flag disabled.
func (s Style) WithoutFlag(flag StyleFlags) Style {
	s.Flags &^= flag
	return s
}

// IsEmpty reports whether the style carries no colors, flags or link.
func (s Style) IsEmpty() bool {
	return s == EmptyStyle
}
