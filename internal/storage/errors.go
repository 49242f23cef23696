package storage

import "errors"

// Typed failures surfaced by the engine. Callers dispatch with errors.Is;
// anything not wrapping one of these sentinels is an underlying IO failure.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAccessDenied    = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrPayloadTooLarge = errors.New("payload too large")
)
