package mask

import "github.com/dshills/keymask/internal/engine/selection"

// ProcessorInput is what a Preprocessor sees before the mask runs.
// Data is the text being inserted; it is empty for deletions and
// re-conformance.
type ProcessorInput struct {
	Data  string
	State selection.State
}

// Preprocessor transforms the observed field state and inserted text before
// the mask model runs. It must be pure and must not fail for valid input.
type Preprocessor func(in ProcessorInput) ProcessorInput

// Postprocessor transforms the model's conformed state into the final state
// written to the field. It must be pure and must not fail for valid input.
type Postprocessor func(state selection.State) selection.State

// IdentityPreprocessor returns its input unchanged.
func IdentityPreprocessor(in ProcessorInput) ProcessorInput {
	return in
}

// IdentityPostprocessor returns its input unchanged.
func IdentityPostprocessor(state selection.State) selection.State {
	return state
}

// PipePreprocessors chains preprocessors left to right. Nil entries are skipped.
func PipePreprocessors(procs ...Preprocessor) Preprocessor {
	return func(in ProcessorInput) ProcessorInput {
		for _, p := range procs {
			if p != nil {
				in = p(in)
			}
		}
		return in
	}
}

// PipePostprocessors chains postprocessors left to right. Nil entries are skipped.
func PipePostprocessors(procs ...Postprocessor) Postprocessor {
	return func(state selection.State) selection.State {
		for _, p := range procs {
			if p != nil {
				state = p(state)
			}
		}
		return state
	}
}
