package mask

import (
	"fmt"
	"regexp"
	"unicode"
)

// Slot describes one position of a pattern mask.
// A fixed slot holds a literal rune; any other slot holds a predicate.
type Slot struct {
	literal rune
	fixed   bool
	accept  func(rune) bool
	name    string
}

// Fixed creates a literal slot that is auto-inserted, never typed over.
func Fixed(r rune) Slot {
	return Slot{literal: r, fixed: true, name: string(r)}
}

// Predicate creates a placeholder slot accepting runes for which fn returns true.
func Predicate(name string, fn func(rune) bool) Slot {
	return Slot{accept: fn, name: name}
}

// Class creates a placeholder slot from a regular expression that must
// match a single rune, such as "[0-9a-f]" or `\d`.
func Class(class string) (Slot, error) {
	re, err := regexp.Compile(`^(?:` + class + `)$`)
	if err != nil {
		return Slot{}, fmt.Errorf("%w %q: %v", ErrInvalidClass, class, err)
	}
	return Slot{
		accept: func(r rune) bool { return re.MatchString(string(r)) },
		name:   class,
	}, nil
}

// MustClass is like Class but panics on an invalid class.
func MustClass(class string) Slot {
	s, err := Class(class)
	if err != nil {
		panic(err)
	}
	return s
}

// Built-in placeholder slots.
var (
	Digit       = Predicate("digit", unicode.IsDigit)
	Letter      = Predicate("letter", unicode.IsLetter)
	Alnum       = Predicate("alnum", func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) })
	AnyNonSpace = Predicate("any", func(r rune) bool { return !unicode.IsSpace(r) })
)

// IsFixed returns true for literal slots.
func (s Slot) IsFixed() bool {
	return s.fixed
}

// Literal returns the rune of a fixed slot, or 0.
func (s Slot) Literal() rune {
	return s.literal
}

// Accepts reports whether a placeholder slot takes r.
// Fixed slots never accept typed input; they are matched by equality.
func (s Slot) Accepts(r rune) bool {
	if s.fixed || s.accept == nil {
		return false
	}
	return s.accept(r)
}

// Matches reports whether r may appear at this slot in a conformed value.
func (s Slot) Matches(r rune) bool {
	if s.fixed {
		return r == s.literal
	}
	return s.Accepts(r)
}

// String returns the slot name.
func (s Slot) String() string {
	if s.fixed {
		return fmt.Sprintf("Fixed(%q)", s.literal)
	}
	return s.name
}
