package mask

import (
	"github.com/dshills/keymask/internal/engine/selection"
)

// noRune marks the absence of a candidate rune in leadingFixed.
const noRune rune = -1

// working is the rune-level state the algorithms operate on.
type working struct {
	value []rune
	sel   selection.Range
}

func toWorking(s selection.State) working {
	value := []rune(s.Value)
	return working{value: value, sel: s.Selection.Clamp(len(value))}
}

func (w working) state() selection.State {
	return selection.State{Value: string(w.value), Selection: w.sel.Clamp(len(w.value))}
}

// calibrate conforms w to expr. initial is the masked value before the edit
// (nil when there is none). Runes at input indices inside watch that the
// mask could not place are counted in dropped.
func calibrate(w working, expr Expression, initial []rune, watch selection.Range) (working, int) {
	if !expr.IsPattern() {
		return conformRegexp(w, expr, watch)
	}
	return conformPattern(w, expr, initial, watch)
}

// conformPattern walks the value rune by rune, auto-inserting the fixed
// characters that precede each placeholder and dropping runes no slot
// accepts. The selection is mapped onto the masked output.
func conformPattern(w working, expr Expression, initial []rune, watch selection.Range) (working, int) {
	validated := make([]rune, 0, expr.Len())
	from, to := -1, -1
	dropped := 0

	for i, r := range w.value {
		leading := leadingFixed(expr, len(validated), r, initial)
		next := len(validated) + len(leading)

		if from < 0 && i >= w.sel.From {
			from = next
		}
		if to < 0 && i >= w.sel.To {
			to = next
		}

		slot, ok := expr.Slot(next)
		switch {
		case !ok:
			// Past the last slot: the rune overflows the mask.
		case slot.IsFixed():
			// leadingFixed stops at a fixed slot only when r is its literal.
			validated = append(append(validated, leading...), slot.Literal())
			continue
		case slot.Accepts(r):
			validated = append(append(validated, leading...), r)
			continue
		case len(leading) > 0 && leading[0] == r:
			// r repeats a literal that already existed there.
			validated = append(validated, leading...)
			continue
		}

		if watch.Contains(i) {
			dropped++
		}
	}

	masked := validated
	if trailing := leadingFixed(expr, len(validated), noRune, initial); len(trailing) > 0 {
		candidate := append(append([]rune(nil), validated...), trailing...)
		if expr.isComplete(candidate) {
			masked = candidate
		}
	}

	if from < 0 {
		from = len(validated)
	}
	if to < 0 {
		to = len(validated)
	}

	return working{value: masked, sel: selection.NewRange(from, to).Clamp(len(masked))}, dropped
}

// leadingFixed returns the run of fixed characters starting at slot index
// start. The run stops at the first placeholder, or at a fixed slot whose
// literal equals candidate unless that literal already existed at the same
// position in initial (in which case it is treated as auto-inserted).
func leadingFixed(expr Expression, start int, candidate rune, initial []rune) []rune {
	var out []rune
	for i := start; i < expr.Len(); i++ {
		slot, _ := expr.Slot(i)
		existed := i < len(initial) && slot.IsFixed() && initial[i] == slot.Literal()
		if !slot.IsFixed() || (slot.Literal() == candidate && !existed) {
			return out
		}
		out = append(out, slot.Literal())
	}
	return out
}

// conformRegexp keeps each rune only while the accumulated value still
// matches the expression.
func conformRegexp(w working, expr Expression, watch selection.Range) (working, int) {
	re := expr.Regexp()
	validated := make([]rune, 0, len(w.value))
	from, to := w.sel.From, w.sel.To
	dropped := 0

	for i, r := range w.value {
		if i == w.sel.From {
			from = len(validated)
		}
		if i == w.sel.To {
			to = len(validated)
		}

		candidate := append(append([]rune(nil), validated...), r)
		if re.MatchString(string(candidate)) {
			validated = candidate
			continue
		}
		if watch.Contains(i) {
			dropped++
		}
	}

	return working{value: validated, sel: selection.NewRange(from, to).Clamp(len(validated))}, dropped
}

// removeFixed strips the fixed characters imposed by a pattern, mapping the
// selection onto the unmasked value. Regexp expressions have no fixed
// characters and pass through unchanged.
func removeFixed(w working, expr Expression) working {
	if !expr.IsPattern() {
		return w
	}

	raw := make([]rune, 0, len(w.value))
	bounds := make([]int, 0, 2)

	for i, r := range w.value {
		if i == w.sel.From {
			bounds = append(bounds, len(raw))
		}
		if i == w.sel.To {
			bounds = append(bounds, len(raw))
		}
		if expr.isFixedAt(w.value, i) {
			continue
		}
		raw = append(raw, r)
	}

	for len(bounds) < 2 {
		bounds = append(bounds, len(raw))
	}

	return working{value: raw, sel: selection.NewRange(bounds[0], bounds[1])}
}
