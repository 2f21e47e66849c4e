package mask

import "fmt"

type parser struct {
	tokens map[rune]Slot
}

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithToken makes r a placeholder rune backed by slot.
// A fixed slot turns r into an alias for another literal.
func WithToken(r rune, slot Slot) ParseOption {
	return func(p *parser) {
		p.tokens[r] = slot
	}
}

// WithoutToken removes r from the placeholder runes so it parses as a literal.
func WithoutToken(r rune) ParseOption {
	return func(p *parser) {
		delete(p.tokens, r)
	}
}

func defaultTokens() map[rune]Slot {
	return map[rune]Slot{
		'9': Digit,
		'a': Letter,
		'*': Alnum,
		'_': AnyNonSpace,
	}
}

// Parse builds a pattern expression from mask notation.
func Parse(pattern string, opts ...ParseOption) (Expression, error) {
	p := &parser{tokens: defaultTokens()}
	for _, opt := range opts {
		opt(p)
	}

	if pattern == "" {
		return Expression{}, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	var slots []Slot
	escaped := false
	for _, r := range pattern {
		if escaped {
			slots = append(slots, Fixed(r))
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if slot, ok := p.tokens[r]; ok {
			slots = append(slots, slot)
			continue
		}
		slots = append(slots, Fixed(r))
	}

	if escaped {
		return Expression{}, fmt.Errorf("%w: trailing escape in %q", ErrInvalidPattern, pattern)
	}

	return Expression{slots: slots}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string, opts ...ParseOption) Expression {
	e, err := Parse(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return e
}
