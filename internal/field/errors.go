package field

import "errors"

// Errors returned by New and the history methods of Controller.
var (
	ErrNilHandle    = errors.New("field: nil field handle")
	ErrNilSource    = errors.New("field: nil intent source")
	ErrNoDefinition = errors.New("field: options have no mask definition")
	ErrDestroyed    = errors.New("field: controller destroyed")
)
