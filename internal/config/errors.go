package config

import "errors"

var (
	// ErrBadMachine indicates an unusable machine section.
	ErrBadMachine = errors.New("config: bad machine section")

	// ErrBadParticle indicates an unknown particle name.
	ErrBadParticle = errors.New("config: unknown particle")

	// ErrNoRF indicates a config without RF systems.
	ErrNoRF = errors.New("config: at least one rf system required")

	// ErrBadRF indicates an unusable RF system entry.
	ErrBadRF = errors.New("config: bad rf system")

	// ErrBadAnalysis indicates an unusable analysis section.
	ErrBadAnalysis = errors.New("config: bad analysis section")

	// ErrBadTrack indicates an unusable track section.
	ErrBadTrack = errors.New("config: bad track section")
)
