package selection

import "fmt"

// Range is a half-open rune range [From, To) inside a field value.
// Range is an immutable value type.
type Range struct {
	From int // Inclusive start
	To   int // Exclusive end
}

// NewRange creates a range covering a and b in either order.
func NewRange(a, b int) Range {
	if a <= b {
		return Range{From: a, To: b}
	}
	return Range{From: b, To: a}
}

// Caret creates an empty range at offset.
func Caret(offset int) Range {
	return Range{From: offset, To: offset}
}

// IsEmpty returns true if the range is a caret.
func (r Range) IsEmpty() bool {
	return r.From == r.To
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	if r.To < r.From {
		return r.From - r.To
	}
	return r.To - r.From
}

// Normalize returns a range with From <= To.
func (r Range) Normalize() Range {
	return NewRange(r.From, r.To)
}

// Clamp returns a normalized range with both ends inside [0, max].
func (r Range) Clamp(max int) Range {
	if max < 0 {
		max = 0
	}
	from, to := clampInt(r.From, max), clampInt(r.To, max)
	return NewRange(from, to)
}

// Contains returns true if offset is inside [From, To).
func (r Range) Contains(offset int) bool {
	return offset >= r.From && offset < r.To
}

// Equals returns true if both ends match.
func (r Range) Equals(other Range) bool {
	return r.From == other.From && r.To == other.To
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	if r.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", r.From)
	}
	return fmt.Sprintf("[%d:%d)", r.From, r.To)
}

// ExtendToNotEmpty grows an empty range by exactly one position: backward
// for Backspace, forward for Delete. Non-empty ranges are returned unchanged.
// The result never leaves [0, length].
func ExtendToNotEmpty(r Range, forward bool, length int) Range {
	if !r.IsEmpty() {
		return r.Clamp(length)
	}
	if forward {
		return NewRange(r.From, r.To+1).Clamp(length)
	}
	return NewRange(r.From-1, r.To).Clamp(length)
}

func clampInt(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
