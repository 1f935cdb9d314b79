package viz

import "errors"

var (
	// ErrBadSize indicates a plane without at least one cell per side.
	ErrBadSize = errors.New("viz: plane needs a positive cell count")

	// ErrBadExtent indicates a world window whose minimum does not lie
	// below its maximum on both axes.
	ErrBadExtent = errors.New("viz: plane extent needs min below max")

	// ErrLengthMismatch indicates separatrix branch arrays of unequal
	// length.
	ErrLengthMismatch = errors.New("viz: coordinate arrays differ in length")
)
