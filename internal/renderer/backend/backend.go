// Package backend abstracts the terminal a masked field is drawn on.
//
// Key presses arrive as key.Event values so that the rest of keymask never
// sees terminal-specific codes. Bracketed paste is assembled into a single
// EventPaste carrying the pasted text.
package backend

import "github.com/dshills/keymask/internal/input/key"

// EventType identifies the kind of terminal event.
type EventType int

const (
	// EventNone is an event keymask does not care about.
	EventNone EventType = iota
	// EventKey is a key press.
	EventKey
	// EventPaste is a completed bracketed paste.
	EventPaste
	// EventResize reports a new terminal size.
	EventResize
	// EventClosed is returned once the terminal has shut down.
	EventClosed
)

// Event is a terminal event.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key key.Event

	// Text is set for EventPaste.
	Text string

	// Width and Height are set for EventResize.
	Width, Height int
}

// Style selects how text is drawn.
type Style int

const (
	// StyleNormal is the terminal's default style.
	StyleNormal Style = iota
	// StyleDim is used for hints and placeholders.
	StyleDim
	// StyleReverse highlights selected text.
	StyleReverse
	// StyleError is used for messages about rejected input.
	StyleError
	// StyleBold is used for labels.
	StyleBold
)

// Backend is the drawing surface and event source of the terminal host.
type Backend interface {
	// Init prepares the terminal for drawing.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the terminal size in cells.
	Size() (width, height int)

	// Clear blanks the back buffer.
	Clear()

	// DrawText draws text at (x, y) and returns the column after it.
	DrawText(x, y int, text string, style Style) int

	// Show flushes the back buffer to the terminal.
	Show()

	// ShowCursor places the terminal cursor.
	ShowCursor(x, y int)

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until the next event.
	PollEvent() Event
}
