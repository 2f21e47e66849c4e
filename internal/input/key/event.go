package key

import (
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a non-character key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsProducingCharacter returns true if the press inserts its rune into a
// field: a printable character with no Ctrl, Alt or Meta held.
// Shift alone changes the character rather than suppressing it.
func (e Event) IsProducingCharacter() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.HasAny(ModCtrl|ModAlt|ModMeta)
}

func (e Event) isLetter(r rune) bool {
	return e.IsRune() && unicode.ToLower(e.Rune) == r
}

// IsUndo returns true for Ctrl+Z or Meta+Z without Shift.
func (e Event) IsUndo() bool {
	return e.isLetter('z') &&
		e.Modifiers.HasAny(ModCtrl|ModMeta) &&
		!e.Modifiers.Has(ModShift)
}

// IsRedo returns true for Ctrl+Y, Ctrl+Shift+Z or Meta+Shift+Z.
func (e Event) IsRedo() bool {
	if e.isLetter('y') && e.Modifiers.Has(ModCtrl) {
		return true
	}
	return e.isLetter('z') &&
		e.Modifiers.HasAny(ModCtrl|ModMeta) &&
		e.Modifiers.Has(ModShift)
}

// Equals returns true if two events represent the same key press.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String returns the canonical specification, e.g. "Ctrl+Z" or "Enter".
func (e Event) String() string {
	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	default:
		name = e.Key.String()
	}

	mods := e.Modifiers.String()
	if mods == "" {
		return name
	}
	return strings.Join([]string{mods, name}, "+")
}
