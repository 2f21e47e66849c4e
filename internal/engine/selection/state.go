package selection

import (
	"fmt"
	"unicode/utf8"
)

// State is an observable snapshot of a text field: its value and the
// selected range. A captured State is never mutated; edits produce new ones.
type State struct {
	Value     string
	Selection Range
}

// NewState creates a state with the selection clamped to the value.
func NewState(value string, sel Range) State {
	return State{Value: value, Selection: sel}.Clamp()
}

// Len returns the value length in runes.
func (s State) Len() int {
	return utf8.RuneCountInString(s.Value)
}

// Clamp returns the state with 0 <= From <= To <= Len().
func (s State) Clamp() State {
	return State{Value: s.Value, Selection: s.Selection.Clamp(s.Len())}
}

// Equal returns true if both value and selection match.
func (s State) Equal(other State) bool {
	return s.Value == other.Value && s.Selection.Equals(other.Selection)
}

// String returns a debug representation of the state.
func (s State) String() string {
	return fmt.Sprintf("%q %s", s.Value, s.Selection)
}

// ValuesEqual returns true if every state carries the same value.
// Selections are ignored.
func ValuesEqual(states ...State) bool {
	for i := 1; i < len(states); i++ {
		if states[i].Value != states[0].Value {
			return false
		}
	}
	return true
}

// Slice returns runes [from, to) of value. Out-of-range bounds are clamped.
func Slice(value string, from, to int) string {
	runes := []rune(value)
	r := NewRange(from, to).Clamp(len(runes))
	return string(runes[r.From:r.To])
}

// Splice replaces the runes covered by r with text. It is the naive,
// unmasked edit a plain field would perform.
func Splice(value string, r Range, text string) string {
	runes := []rune(value)
	r = r.Clamp(len(runes))
	out := make([]rune, 0, len(runes)-r.Len()+utf8.RuneCountInString(text))
	out = append(out, runes[:r.From]...)
	out = append(out, []rune(text)...)
	out = append(out, runes[r.To:]...)
	return string(out)
}
