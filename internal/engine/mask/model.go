package mask

import (
	"github.com/dshills/keymask/internal/engine/selection"
)

// Policy controls how AddCharacters treats runes no slot accepts.
type Policy int

const (
	// InsertAll rejects the whole insertion when any inserted rune cannot be
	// placed by the mask.
	InsertAll Policy = iota

	// InsertFiltered drops the runes that cannot be placed and keeps the
	// rest. The insertion is rejected only when nothing lands.
	InsertFiltered
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case InsertAll:
		return "all"
	case InsertFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// ParsePolicy parses a policy name. Unknown names yield InsertAll.
func ParsePolicy(s string) Policy {
	if s == "filtered" {
		return InsertFiltered
	}
	return InsertAll
}

// Model applies a single edit to a field state against a mask definition.
// A Model is transient: build one per edit and discard it afterwards.
type Model struct {
	def    Definition
	policy Policy
	w      working
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithPolicy sets the insertion policy.
func WithPolicy(p Policy) ModelOption {
	return func(m *Model) {
		m.policy = p
	}
}

// NewModel creates a model from state and calibrates it to the mask.
func NewModel(state selection.State, def Definition, opts ...ModelOption) *Model {
	m := &Model{def: def}
	for _, opt := range opts {
		opt(m)
	}

	m.w, _ = calibrate(toWorking(state), def.Expression(state), nil, selection.Range{})
	return m
}

// Value returns the conformed value.
func (m *Model) Value() string {
	return string(m.w.value)
}

// Selection returns the conformed selection.
func (m *Model) Selection() selection.Range {
	return m.w.sel
}

// State returns the conformed state.
func (m *Model) State() selection.State {
	return m.w.state()
}

// AddCharacters replaces r with text and conforms the result.
// It returns ErrRejected, leaving the model untouched, when the mask cannot
// place the text or the edit would change nothing.
func (m *Model) AddCharacters(r selection.Range, text string) error {
	current := m.w.value
	r = r.Clamp(len(current))
	inserted := []rune(text)

	caret := r.From + len(inserted)
	expr := m.def.Expression(selection.State{
		Value:     selection.Splice(string(current), r, text),
		Selection: selection.Caret(caret),
	})

	unmasked := removeFixed(working{value: current, sel: r}, expr)
	leading := make([]rune, 0, unmasked.sel.From+len(inserted))
	leading = append(leading, unmasked.value[:unmasked.sel.From]...)
	leading = append(leading, inserted...)
	newCaret := len(leading)

	full := make([]rune, 0, len(leading)+len(unmasked.value)-unmasked.sel.To)
	full = append(full, leading...)
	full = append(full, unmasked.value[unmasked.sel.To:]...)

	watch := selection.NewRange(unmasked.sel.From, newCaret)
	masked, dropped := calibrate(
		working{value: full, sel: selection.Caret(newCaret)},
		expr,
		current,
		watch,
	)

	if m.rejects(dropped, len(inserted)) || masked.state().Equal(m.w.state()) {
		return ErrRejected
	}

	m.w = masked
	return nil
}

func (m *Model) rejects(dropped, inserted int) bool {
	if inserted == 0 {
		return false
	}
	if m.policy == InsertFiltered {
		return dropped == inserted
	}
	return dropped > 0
}

// DeleteCharacters removes the runes in r and conforms the result.
// Fixed characters inside r are re-imposed by the mask.
func (m *Model) DeleteCharacters(r selection.Range) {
	current := m.w.value
	r = r.Clamp(len(current))
	if r.IsEmpty() {
		return
	}

	expr := m.def.Expression(selection.State{
		Value:     selection.Splice(string(current), r, ""),
		Selection: selection.Caret(r.From),
	})

	unmasked := removeFixed(working{value: current, sel: r}, expr)
	remaining := make([]rune, 0, len(unmasked.value)-unmasked.sel.Len())
	remaining = append(remaining, unmasked.value[:unmasked.sel.From]...)
	remaining = append(remaining, unmasked.value[unmasked.sel.To:]...)

	m.w, _ = calibrate(
		working{value: remaining, sel: selection.Caret(unmasked.sel.From)},
		expr,
		current,
		selection.Range{},
	)
}

// ExtendDeletion returns the range a Backspace (forward == false) or Delete
// keystroke removes from state. An empty selection grows by one position and
// then keeps growing across adjacent fixed characters in the same direction
// until a non-fixed character is covered or the value boundary is reached.
// Non-empty selections and regexp masks only get the one-position extension.
func ExtendDeletion(state selection.State, def Definition, forward bool) selection.Range {
	value := []rune(state.Value)
	sel := state.Selection.Clamp(len(value))
	r := selection.ExtendToNotEmpty(sel, forward, len(value))
	if !sel.IsEmpty() || r.IsEmpty() {
		return r
	}

	expr := def.Expression(state)
	if !expr.IsPattern() {
		return r
	}

	if forward {
		for r.To < len(value) && expr.isFixedAt(value, r.To-1) {
			r.To++
		}
		return r
	}

	for r.From > 0 && expr.isFixedAt(value, r.From) {
		r.From--
	}
	return r
}

// Conform calibrates state against def without editing it.
func Conform(state selection.State, def Definition) selection.State {
	return NewModel(state, def).State()
}
