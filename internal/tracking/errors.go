package tracking

import "errors"

var (
	// ErrProgramExhausted indicates tracking past the end of the momentum
	// program.
	ErrProgramExhausted = errors.New("tracking: momentum program exhausted")

	// ErrBadResolution indicates a potential-well request with fewer than
	// two points.
	ErrBadResolution = errors.New("tracking: potential well needs at least two points")
)
