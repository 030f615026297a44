package tabular

import "errors"

// Sentinel kinds for tabular errors.
var (
	ErrMissingInput  = errors.New("missing input file")
	ErrMissingColumn = errors.New("missing required column")
	ErrWrite         = errors.New("write table")
)
