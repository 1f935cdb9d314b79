package phasespace

import "errors"

// Structural errors. Per-element domain violations never surface here;
// those produce NaN in the affected elements instead.
var (
	// ErrLengthMismatch indicates coordinate or table arrays of unequal length.
	ErrLengthMismatch = errors.New("phasespace: arrays differ in length")

	// ErrTooShort indicates an input with too few samples to difference.
	ErrTooShort = errors.New("phasespace: need at least three samples")

	// ErrUnknownVoltageMode indicates an unrecognized total-voltage mode.
	ErrUnknownVoltageMode = errors.New("phasespace: unknown total-voltage mode")

	// ErrNoStations indicates a total-voltage request without RF stations.
	ErrNoStations = errors.New("phasespace: at least one rf station required")

	// ErrNoMinimum indicates a potential well without any interior minimum.
	ErrNoMinimum = errors.New("phasespace: potential well has no minimum")

	// ErrIllShapedWell indicates more minima than maxima in a single-wall well.
	ErrIllShapedWell = errors.New("phasespace: potential well has more minima than maxima")

	// ErrOpenWell indicates a well whose boundary does not rise toward the wall.
	ErrOpenWell = errors.New("phasespace: potential well is open at the boundary")

	// ErrNoActiveSystem indicates that no RF system carries positive voltage.
	ErrNoActiveSystem = errors.New("phasespace: no rf system with positive voltage")

	// ErrNoUnstableFixedPoint indicates that the separatrix scan found no
	// usable zero crossing of the total waveform.
	ErrNoUnstableFixedPoint = errors.New("phasespace: no unstable fixed point in scan window")

	// ErrBadThetaRange indicates a probe placement that is neither a 2-value
	// range nor one value per particle.
	ErrBadThetaRange = errors.New("phasespace: theta range must have 2 or n values")

	// ErrTurnRange indicates a turn window outside the recorded history.
	ErrTurnRange = errors.New("phasespace: turn range outside recorded history")

	// ErrHistoryFull indicates tracking past the preallocated turn budget.
	ErrHistoryFull = errors.New("phasespace: tracker history is full")
)
