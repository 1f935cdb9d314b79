package machine

import "errors"

// Construction and lookup errors.
var (
	// ErrBadCircumference indicates a non-positive ring circumference.
	ErrBadCircumference = errors.New("machine: circumference must be positive")

	// ErrEmptyProgram indicates an empty momentum program.
	ErrEmptyProgram = errors.New("machine: momentum program is empty")

	// ErrBadMomentum indicates a non-positive momentum value.
	ErrBadMomentum = errors.New("machine: momentum must be positive")

	// ErrBadParticle indicates a particle with non-positive mass or zero charge.
	ErrBadParticle = errors.New("machine: particle mass must be positive and charge non-zero")

	// ErrNoRFSystems indicates a station constructed without RF systems.
	ErrNoRFSystems = errors.New("machine: rf station needs at least one system")

	// ErrProgramLength indicates an RF program whose length does not match
	// the ring turn count.
	ErrProgramLength = errors.New("machine: rf program length does not match ring turns")

	// ErrProgramShape indicates harmonic, voltage and phase programs with
	// different system counts.
	ErrProgramShape = errors.New("machine: rf programs must have one row per system")

	// ErrVoltageTooLow indicates an RF voltage that cannot supply the
	// requested energy gain per turn.
	ErrVoltageTooLow = errors.New("machine: rf voltage too low for requested energy gain")

	// ErrHarmonicNotFound indicates a frequency selection that matches no
	// RF system.
	ErrHarmonicNotFound = errors.New("machine: no rf system matches the requested frequency")
)
