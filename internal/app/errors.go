package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrMissingInput = errors.New("missing required input")
	ErrUnknownStage = errors.New("unknown stage")
)
