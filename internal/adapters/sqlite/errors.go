package sqlite

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrExport    = errors.New("sqlite export")
	ErrTableName = errors.New("invalid table name")
)
