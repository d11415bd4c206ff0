package scrollback

import (
	"github.com/danielgatis/go-ansicode"
)

// Middleware intercepts Screen commands, allowing custom behavior before/after execution.
// Each field wraps one command: receive original parameters and a next function to call the default implementation.
type Middleware struct {
	// Input wraps the Input command
	Input func(r rune, next func(rune))

	// Backspace wraps the Backspace command
	Backspace func(next func())

	// CarriageReturn wraps the CarriageReturn command
	CarriageReturn func(next func())

	// LineFeed wraps the LineFeed command
	LineFeed func(next func())

	// ReverseIndex wraps the ReverseIndex command
	ReverseIndex func(next func())

	// Tab wraps the Tab command
	Tab func(n int, next func(int))

	// Goto wraps the Goto command
	Goto func(row, col int, next func(int, int))

	// InsertBlankLines wraps the InsertBlankLines command
	InsertBlankLines func(n int, next func(int))

	// DeleteLines wraps the DeleteLines command
	DeleteLines func(n int, next func(int))

	// DeleteChars wraps the DeleteChars command
	DeleteChars func(n int, next func(int))

	// EraseChars wraps the EraseChars command
	EraseChars func(n int, next func(int))

	// ClearLine wraps the ClearLine command
	ClearLine func(mode ansicode.LineClearMode, next func(ansicode.LineClearMode))

	// ClearScreen wraps the ClearScreen command
	ClearScreen func(mode ansicode.ClearMode, next func(ansicode.ClearMode))

	// ScrollUp wraps the ScrollUp command
	ScrollUp func(n int, next func(int))

	// ScrollDown wraps the ScrollDown command
	ScrollDown func(n int, next func(int))

	// SetScrollingRegion wraps the SetScrollingRegion command
	SetScrollingRegion func(top, bottom int, next func(int, int))

	// SetTerminalCharAttribute wraps the SetTerminalCharAttribute command
	SetTerminalCharAttribute func(attr ansicode.TerminalCharAttribute, next func(ansicode.TerminalCharAttribute))
}

// Merge copies non-nil middleware functions from other into this, overwriting existing values.
func (m *Middleware) Merge(other *Middleware) {
	if other == nil {
		return
	}

	if other.Input != nil {
		m.Input = other.Input
	}
	if other.Backspace != nil {
		m.Backspace = other.Backspace
	}
	if other.CarriageReturn != nil {
		m.CarriageReturn = other.CarriageReturn
	}
	if other.LineFeed != nil {
		m.LineFeed = other.LineFeed
	}
	if other.ReverseIndex != nil {
		m.ReverseIndex = other.ReverseIndex
	}
	if other.Tab != nil {
		m.Tab = other.Tab
	}
	if other.Goto != nil {
		m.Goto = other.Goto
	}
	if other.InsertBlankLines != nil {
		m.InsertBlankLines = other.InsertBlankLines
	}
	if other.DeleteLines != nil {
		m.DeleteLines = other.DeleteLines
	}
	if other.DeleteChars != nil {
		m.DeleteChars = other.DeleteChars
	}
	if other.EraseChars != nil {
		m.EraseChars = other.EraseChars
	}
	if other.ClearLine != nil {
		m.ClearLine = other.ClearLine
	}
	if other.ClearScreen != nil {
		m.ClearScreen = other.ClearScreen
	}
	if other.ScrollUp != nil {
		m.ScrollUp = other.ScrollUp
	}
	if other.ScrollDown != nil {
		m.ScrollDown = other.ScrollDown
	}
	if other.SetScrollingRegion != nil {
		m.SetScrollingRegion = other.SetScrollingRegion
	}
	if other.SetTerminalCharAttribute != nil {
		m.SetTerminalCharAttribute = other.SetTerminalCharAttribute
	}
}
