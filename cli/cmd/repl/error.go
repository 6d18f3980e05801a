package repl

import "errors"

var (
	// ErrOutOfBounds is returned for a history index past either end.
	ErrOutOfBounds = errors.New("history index out of range")
	// ErrEditDeclined is returned when the user declines to fix a program
	// that does not parse.
	ErrEditDeclined = errors.New("edit declined")
)
