package config

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dshills/keymask/internal/engine/mask"
)

// tokenEnv is the environment token expressions are evaluated against.
type tokenEnv struct {
	Char string `expr:"char"`
	Code int    `expr:"code"`
}

// compileToken turns an expr predicate into a slot.
func compileToken(source string) (mask.Slot, error) {
	program, err := expr.Compile(source, expr.Env(tokenEnv{}), expr.AsBool())
	if err != nil {
		return mask.Slot{}, err
	}
	return mask.Predicate(source, exprPredicate(program)), nil
}

// exprPredicate evaluates program for one rune. Evaluation errors reject it.
func exprPredicate(program *vm.Program) func(rune) bool {
	return func(r rune) bool {
		out, err := expr.Run(program, tokenEnv{Char: string(r), Code: int(r)})
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}

// parseOptions builds the pattern tokens declared in the file, in a stable
// order.
func (c *Config) parseOptions() ([]mask.ParseOption, error) {
	names := make([]string, 0, len(c.Tokens))
	for name := range c.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := make([]mask.ParseOption, 0, len(names))
	for _, name := range names {
		tok := c.Tokens[name]
		r, _ := utf8.DecodeRuneInString(name)

		var (
			slot mask.Slot
			err  error
		)
		if tok.Expr != "" {
			slot, err = compileToken(tok.Expr)
		} else {
			slot, err = mask.Class(tok.Class)
		}
		if err != nil {
			return nil, &ValidationError{Path: "tokens." + name, Message: fmt.Sprint(err)}
		}
		opts = append(opts, mask.WithToken(r, slot))
	}
	return opts, nil
}
