package field

import (
	"github.com/dshills/keymask/internal/engine/mask"
	"github.com/dshills/keymask/internal/engine/selection"
)

// FieldHandle is the editable field a Controller manages.
type FieldHandle interface {
	// Read returns the current value and selection.
	Read() selection.State

	// SetValue replaces the value. The selection is clamped to it.
	SetValue(value string)

	// SetSelection replaces the selection.
	SetSelection(r selection.Range)

	// Multiline reports whether the field accepts line breaks.
	Multiline() bool
}

// Options configures how a field is masked.
type Options struct {
	// Definition supplies the mask. Required.
	Definition mask.Definition

	// Preprocessor runs before every edit. Defaults to identity.
	Preprocessor mask.Preprocessor

	// Postprocessor runs on every conformed result. Defaults to identity.
	Postprocessor mask.Postprocessor

	// Policy controls how inserts with unplaceable runes are treated.
	Policy mask.Policy

	// HistoryLimit caps the undo stack. Zero means unbounded.
	HistoryLimit int
}

func (o Options) withDefaults() (Options, error) {
	if o.Definition == nil {
		return o, ErrNoDefinition
	}
	if o.Preprocessor == nil {
		o.Preprocessor = mask.IdentityPreprocessor
	}
	if o.Postprocessor == nil {
		o.Postprocessor = mask.IdentityPostprocessor
	}
	return o, nil
}

func (o Options) model(state selection.State) *mask.Model {
	return mask.NewModel(state, o.Definition, mask.WithPolicy(o.Policy))
}

func (o Options) postprocess(m *mask.Model) selection.State {
	return o.Postprocessor(m.State()).Clamp()
}

// Conform returns state reshaped to the mask in opts, running both
// processors. It keeps no history and is safe for batch use.
func Conform(state selection.State, opts Options) (selection.State, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return selection.State{}, err
	}

	in := opts.Preprocessor(mask.ProcessorInput{State: state})
	return opts.postprocess(opts.model(in.State.Clamp())), nil
}
