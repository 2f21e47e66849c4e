package config

import (
	"fmt"
	"regexp"

	"github.com/dshills/keymask/internal/engine/mask"
	"github.com/dshills/keymask/internal/field"
	"github.com/dshills/keymask/internal/logging"
	"github.com/dshills/keymask/internal/plugin/lua"
)

// Field is a mask ready to be attached to a field controller.
type Field struct {
	Name      string
	Options   field.Options
	Multiline bool

	hooks *lua.Hooks
}

// Close releases the mask's script state, if any.
func (f *Field) Close() error {
	if f.hooks == nil {
		return nil
	}
	return f.hooks.Close()
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	log *logging.Logger
}

// WithLogger sets the logger handed to mask scripts.
func WithLogger(l *logging.Logger) BuildOption {
	return func(b *buildConfig) {
		b.log = l
	}
}

// Build prepares the mask called name.
func (c *Config) Build(name string, opts ...BuildOption) (*Field, error) {
	m, err := c.Mask(name)
	if err != nil {
		return nil, err
	}
	return c.BuildMask(m, opts...)
}

// BuildMask prepares m using the file's settings and tokens. m need not be
// one of c.Masks.
func (c *Config) BuildMask(m Mask, opts ...BuildOption) (*Field, error) {
	bc := buildConfig{log: logging.Nop()}
	for _, opt := range opts {
		opt(&bc)
	}

	parseOpts, err := c.parseOptions()
	if err != nil {
		return nil, err
	}

	var def mask.Definition
	switch {
	case m.Pattern != "":
		expr, err := mask.Parse(m.Pattern, parseOpts...)
		if err != nil {
			return nil, fmt.Errorf("mask %q: %w", m.Name, err)
		}
		def = mask.Static(expr)
	case m.Regexp != "":
		re, err := regexp.Compile(m.Regexp)
		if err != nil {
			return nil, fmt.Errorf("mask %q: %w", m.Name, err)
		}
		def = mask.Static(mask.RegExp(re))
	}

	policy := c.Settings.Policy
	if m.Policy != "" {
		policy = m.Policy
	}

	f := &Field{
		Name: m.Name,
		Options: field.Options{
			Definition:   def,
			Policy:       mask.ParsePolicy(policy),
			HistoryLimit: c.Settings.HistoryLimit,
		},
		Multiline: m.Multiline,
	}

	if m.Script == "" {
		if def == nil {
			return nil, fmt.Errorf("mask %q: %w", m.Name, field.ErrNoDefinition)
		}
		return f, nil
	}

	var stateOpts []lua.StateOption
	if d := c.ScriptTimeout(); d > 0 {
		stateOpts = append(stateOpts, lua.WithExecutionTimeout(d))
	}
	hooks, err := lua.LoadFile(c.ScriptPath(m), stateOpts,
		lua.WithLogger(bc.log.WithField("mask", m.Name)),
		lua.WithParseOptions(parseOpts...),
	)
	if err != nil {
		return nil, fmt.Errorf("mask %q: %w", m.Name, err)
	}

	f.hooks = hooks
	f.Options.Definition = hooks.Definition(def)
	f.Options.Preprocessor = hooks.Preprocessor()
	f.Options.Postprocessor = hooks.Postprocessor()
	return f, nil
}
