package llrf

import "errors"

var (
	// ErrShortSignal indicates a signal with fewer than two samples.
	ErrShortSignal = errors.New("llrf: signal needs at least two samples")

	// ErrLengthMismatch indicates arrays whose lengths must agree but do not.
	ErrLengthMismatch = errors.New("llrf: array lengths differ")

	// ErrBadWindow indicates a non-positive averaging window.
	ErrBadWindow = errors.New("llrf: window must be positive")

	// ErrTooShort indicates a signal shorter than the filter or window
	// needs.
	ErrTooShort = errors.New("llrf: signal too short")

	// ErrBadCutoff indicates a cutoff outside the open (0, 1) Nyquist
	// fraction range.
	ErrBadCutoff = errors.New("llrf: cutoff must lie inside (0, 1) of Nyquist")

	// ErrBadBins indicates a profile without at least two uniform bins.
	ErrBadBins = errors.New("llrf: profile needs at least two ascending bins")

	// ErrBadGain indicates a non-positive feedback gain.
	ErrBadGain = errors.New("llrf: loop gain must be positive")

	// ErrBadFrequency indicates a non-positive programmed frequency.
	ErrBadFrequency = errors.New("llrf: frequency must be positive")

	// ErrBadDuration indicates a negative program duration.
	ErrBadDuration = errors.New("llrf: durations must not be negative")

	// ErrCycleTooShort indicates a frequency program longer than the ring
	// cycle it should run on.
	ErrCycleTooShort = errors.New("llrf: cycle shorter than the frequency program")
)
