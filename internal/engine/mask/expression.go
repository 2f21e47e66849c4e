package mask

import (
	"regexp"

	"github.com/dshills/keymask/internal/engine/selection"
)

// Expression is a mask: either a positional pattern of slots or a regular
// expression every prefix of the value must satisfy.
type Expression struct {
	slots []Slot
	re    *regexp.Regexp
}

// Pattern creates a positional expression from slots.
func Pattern(slots ...Slot) Expression {
	return Expression{slots: append([]Slot(nil), slots...)}
}

// Literal creates a pattern made only of fixed slots.
func Literal(s string) Expression {
	slots := make([]Slot, 0, len(s))
	for _, r := range s {
		slots = append(slots, Fixed(r))
	}
	return Expression{slots: slots}
}

// RegExp creates a whole-value expression. Characters are kept one by one
// while the accumulated value still matches re, so re should accept every
// valid prefix (for example `^\d{0,4}$`).
func RegExp(re *regexp.Regexp) Expression {
	return Expression{re: re}
}

// IsPattern returns true for positional expressions.
func (e Expression) IsPattern() bool {
	return e.re == nil
}

// Len returns the number of slots, or 0 for a regexp expression.
func (e Expression) Len() int {
	return len(e.slots)
}

// Slot returns slot i of a pattern.
func (e Expression) Slot(i int) (Slot, bool) {
	if i < 0 || i >= len(e.slots) {
		return Slot{}, false
	}
	return e.slots[i], true
}

// Regexp returns the regular expression of a regexp expression.
func (e Expression) Regexp() *regexp.Regexp {
	return e.re
}

// isFixedAt reports whether value[i] is the literal imposed by slot i.
func (e Expression) isFixedAt(value []rune, i int) bool {
	s, ok := e.Slot(i)
	return ok && i < len(value) && s.fixed && s.literal == value[i]
}

// isComplete reports whether value fills every slot of the pattern.
func (e Expression) isComplete(value []rune) bool {
	if len(value) != len(e.slots) {
		return false
	}
	for i, r := range value {
		if !e.slots[i].Matches(r) {
			return false
		}
	}
	return true
}

// Definition supplies the expression to apply to a given field state.
type Definition interface {
	Expression(state selection.State) Expression
}

// DefinitionFunc adapts a function into a Definition.
type DefinitionFunc func(state selection.State) Expression

// Expression calls f.
func (f DefinitionFunc) Expression(state selection.State) Expression {
	return f(state)
}

type static struct {
	expr Expression
}

func (s static) Expression(selection.State) Expression {
	return s.expr
}

// Static returns a Definition that always yields expr.
func Static(expr Expression) Definition {
	return static{expr: expr}
}

// Dynamic returns a Definition computed from the predicted state of each edit.
func Dynamic(fn func(state selection.State) Expression) Definition {
	return DefinitionFunc(fn)
}
