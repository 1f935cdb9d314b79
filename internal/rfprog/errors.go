package rfprog

import "errors"

var (
	// ErrNoSystems indicates preprocessing without any program points.
	ErrNoSystems = errors.New("rfprog: at least one system program required")

	// ErrBadProgramPoints indicates mismatched or too-short time/value pairs.
	ErrBadProgramPoints = errors.New("rfprog: program needs matching time and value arrays or a single constant")

	// ErrNonMonotonic indicates time bases that do not strictly ascend.
	ErrNonMonotonic = errors.New("rfprog: time base must strictly ascend")

	// ErrUnknownInterpolation indicates an interpolation mode outside the
	// enumerated set.
	ErrUnknownInterpolation = errors.New("rfprog: unknown interpolation mode")

	// ErrNoSegments indicates combining without any segments.
	ErrNoSegments = errors.New("rfprog: at least one segment required")

	// ErrSegmentOverlap indicates segments whose time ranges touch or overlap.
	ErrSegmentOverlap = errors.New("rfprog: segment time ranges must be disjoint and ordered")

	// ErrUnknownMerge indicates a merge mode outside the enumerated set.
	ErrUnknownMerge = errors.New("rfprog: unknown merge mode")

	// ErrRingRequired indicates a tune-based merge without ring parameters.
	ErrRingRequired = errors.New("rfprog: linear-tune merge needs a ring and a harmonic")

	// ErrBadSegmentValue indicates voltages an adiabatic ramp cannot connect.
	ErrBadSegmentValue = errors.New("rfprog: isoadiabatic merge needs positive voltages")
)
