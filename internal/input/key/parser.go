package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@", "+"
//   - Named keys: "Enter", "Escape", "Tab", "Backspace", "Delete", "Space"
//   - With modifiers: "Ctrl+Z", "Meta+Shift+Z", "Ctrl+Shift+Left"
//
// Letters combined with a modifier keep the case written in the spec.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	// "+" alone, or a trailing "++" naming the plus key.
	if spec == "+" {
		return NewRuneEvent('+', ModNone), nil
	}
	keyPart := spec
	var mods Modifier
	if i := strings.LastIndex(spec[:len(spec)-1], "+"); i >= 0 {
		keyPart = spec[i+1:]
		for _, p := range strings.Split(spec[:i], "+") {
			mod := ModifierFromName(p)
			if mod == ModNone {
				return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
			}
			mods |= mod
		}
	}

	return parseKey(strings.TrimSpace(keyPart), mods)
}

func parseKey(keyPart string, mods Modifier) (Event, error) {
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}
	if strings.EqualFold(keyPart, "space") {
		return NewRuneEvent(' ', mods), nil
	}
	if k := FromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}
	r := runes[0]
	if mods == ModNone && unicode.IsUpper(r) {
		// Uppercase letters have implicit Shift
		mods = ModShift
	}
	return NewRuneEvent(r, mods), nil
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code and tests.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}
