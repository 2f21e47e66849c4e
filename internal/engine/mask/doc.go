// Package mask conforms text field values to an input mask.
//
// A mask Expression is either a positional pattern, one Slot per rune, or a
// whole-value regular expression. A Slot is a fixed literal that the user
// never types over, or a placeholder with an acceptance predicate.
//
// # Patterns
//
// Patterns are usually written in a compact notation:
//
//	phone := mask.MustParse("(999) 999-9999")
//
//	9   digit
//	a   letter
//	*   letter or digit
//	_   any non-space rune
//	\x  the literal x
//
// Any other rune is a fixed literal. Extra placeholder runes are registered
// with WithToken.
//
// # Definitions
//
// A Definition yields the Expression to apply for a given state. Static
// wraps a single expression; Dynamic computes one from the predicted
// post-edit state, which lets a mask depend on what was already entered.
//
// # Model
//
// A Model is built for a single edit from the current field state. It first
// calibrates the state, then applies AddCharacters or DeleteCharacters and
// exposes the conformed State:
//
//	m := mask.NewModel(state, mask.Static(phone))
//	if err := m.AddCharacters(state.Selection, "5"); errors.Is(err, mask.ErrRejected) {
//	    // block the edit
//	}
//	next := m.State()
//
// Editing works on the unmasked value: fixed characters are stripped, the
// edit is spliced in, and the result is recalibrated against the mask so
// fixed characters are re-imposed and the caret is mapped back.
package mask
