package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange signals a bounds violation (navigation index, percent value).
	ErrOutOfRange = errors.New("out of range")
	// ErrConflict signals a uniqueness violation (layer order collisions).
	ErrConflict = errors.New("conflict")
)
