package lua

import (
	"fmt"
	"regexp"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keymask/internal/engine/mask"
	"github.com/dshills/keymask/internal/engine/selection"
	"github.com/dshills/keymask/internal/logging"
)

// Global function names a mask script may define.
const (
	FuncPreprocess  = "preprocess"
	FuncPostprocess = "postprocess"
	FuncMask        = "mask"
)

// passthrough accepts any value unchanged.
var passthrough = mask.Static(mask.RegExp(regexp.MustCompile(`^[\s\S]*$`)))

// Hooks exposes a script's global functions as mask processors and a
// dynamic mask definition.
type Hooks struct {
	state     *State
	log       *logging.Logger
	parseOpts []mask.ParseOption

	mu       sync.Mutex
	patterns map[string]mask.Expression
}

// HookOption configures Hooks.
type HookOption func(*Hooks)

// WithLogger sets the logger used to report hook failures.
func WithLogger(l *logging.Logger) HookOption {
	return func(h *Hooks) {
		h.log = l
	}
}

// WithParseOptions sets the options used to parse patterns returned by the
// mask function.
func WithParseOptions(opts ...mask.ParseOption) HookOption {
	return func(h *Hooks) {
		h.parseOpts = opts
	}
}

// NewHooks wraps a state into which a mask script has been loaded.
func NewHooks(state *State, opts ...HookOption) *Hooks {
	h := &Hooks{
		state:    state,
		log:      logging.Nop(),
		patterns: make(map[string]mask.Expression),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("lua")
	return h
}

// LoadFile creates a state, runs the script at path and returns its hooks.
func LoadFile(path string, stateOpts []StateOption, opts ...HookOption) (*Hooks, error) {
	state := NewState(stateOpts...)
	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, fmt.Errorf("load mask script %s: %w", path, err)
	}
	return NewHooks(state, opts...), nil
}

// Close closes the underlying state.
func (h *Hooks) Close() error {
	return h.state.Close()
}

// Preprocessor returns the script's preprocess function, or nil when the
// script does not define one.
func (h *Hooks) Preprocessor() mask.Preprocessor {
	if !h.state.HasFunction(FuncPreprocess) {
		return nil
	}
	return func(in mask.ProcessorInput) mask.ProcessorInput {
		ret, err := h.state.Call(FuncPreprocess, h.toTable(in.State, &in.Data))
		if err != nil {
			h.log.Warn("preprocess: %v", err)
			return in
		}
		out, data, err := fromTable(ret, in.State, in.Data)
		if err != nil {
			h.log.Warn("preprocess: %v", err)
			return in
		}
		return mask.ProcessorInput{Data: data, State: out}
	}
}

// Postprocessor returns the script's postprocess function, or nil when the
// script does not define one.
func (h *Hooks) Postprocessor() mask.Postprocessor {
	if !h.state.HasFunction(FuncPostprocess) {
		return nil
	}
	return func(s selection.State) selection.State {
		ret, err := h.state.Call(FuncPostprocess, h.toTable(s, nil))
		if err != nil {
			h.log.Warn("postprocess: %v", err)
			return s
		}
		out, _, err := fromTable(ret, s, "")
		if err != nil {
			h.log.Warn("postprocess: %v", err)
			return s
		}
		return out
	}
}

// Definition returns a definition that asks the script's mask function for
// a pattern on every edit. fallback is used when the script defines no mask
// function, when it fails, or when it returns an invalid pattern. A nil
// fallback accepts any value.
func (h *Hooks) Definition(fallback mask.Definition) mask.Definition {
	if fallback == nil {
		fallback = passthrough
	}
	if !h.state.HasFunction(FuncMask) {
		return fallback
	}
	return mask.Dynamic(func(s selection.State) mask.Expression {
		expr, err := h.expression(s)
		if err != nil {
			h.log.Warn("mask: %v", err)
			return fallback.Expression(s)
		}
		return expr
	})
}

func (h *Hooks) expression(s selection.State) (mask.Expression, error) {
	ret, err := h.state.Call(FuncMask, h.toTable(s, nil))
	if err != nil {
		return mask.Expression{}, err
	}
	pattern, ok := ret.(lua.LString)
	if !ok {
		return mask.Expression{}, fmt.Errorf("%w: mask returned %s", ErrBadResult, ret.Type())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if expr, ok := h.patterns[string(pattern)]; ok {
		return expr, nil
	}
	expr, err := mask.Parse(string(pattern), h.parseOpts...)
	if err != nil {
		return mask.Expression{}, err
	}
	h.patterns[string(pattern)] = expr
	return expr, nil
}

func (h *Hooks) toTable(s selection.State, data *string) *lua.LTable {
	t := h.state.NewTable()
	t.RawSetString("value", lua.LString(s.Value))
	t.RawSetString("from", lua.LNumber(s.Selection.From))
	t.RawSetString("to", lua.LNumber(s.Selection.To))
	if data != nil {
		t.RawSetString("data", lua.LString(*data))
	}
	return t
}

// fromTable reads a state table returned by a hook. Missing fields keep
// their values from base.
func fromTable(v lua.LValue, base selection.State, data string) (selection.State, string, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return base, data, fmt.Errorf("%w: expected table, got %s", ErrBadResult, v.Type())
	}

	out := base
	if s, ok := t.RawGetString("value").(lua.LString); ok {
		out.Value = string(s)
	}
	if n, ok := t.RawGetString("from").(lua.LNumber); ok {
		out.Selection.From = int(n)
	}
	if n, ok := t.RawGetString("to").(lua.LNumber); ok {
		out.Selection.To = int(n)
	}
	if s, ok := t.RawGetString("data").(lua.LString); ok {
		data = string(s)
	}
	return out.Clamp(), data, nil
}
