package merge

import "errors"

// Sentinel kinds for merge errors.
var (
	ErrMissingColumn = errors.New("missing join column")
)
