// Package selection provides the range and field-state value types shared by
// the mask engine, the history manager and the edit controller.
//
// Positions are rune offsets into a field value, never byte offsets:
//
//	s := selection.State{Value: "(12", Selection: selection.Caret(3)}
//	r := selection.ExtendToNotEmpty(s.Selection, false, s.Len()) // [2, 3)
//
// A Range is half-open, [From, To). When From == To the range is a caret
// with no selected text. Every constructor normalizes so From <= To.
package selection
