package scrollback

import "github.com/unilibs/uniwidth"

// printable reports whether r takes up a cell. Control characters and
// combining marks have zero width and are not printable.
func printable(r rune) bool {
	return uniwidth.RuneWidth(r) > 0
}

// StringWidth returns the display width of s: 2 per wide character (CJK, emoji), 1 per normal one.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// RowWidth returns the display width of a row's text.
// It can differ from the row's length in columns, which counts runes.
func RowWidth(row Row) int {
	return StringWidth(row.Text())
}
