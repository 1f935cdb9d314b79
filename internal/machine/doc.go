// Package machine describes the accelerator side of the problem: the ring
// lattice scalars, the particle species and the RF systems.
//
// A [Ring] is built from a momentum program (one value per turn plus the
// initial one) and derives the relativistic kinematics, revolution periods
// and slip factor for every turn. An [RFStation] attaches harmonic, voltage
// and phase programs to a ring and derives the angular RF frequencies and
// the synchronous phase.
//
// Programs are system-major: program[s][i] is the value for RF system s at
// turn i, with length NTurns+1. Accessors that take a turn index saturate
// at the end of the program, so analysis at the final turn never reads out
// of range.
//
// Units follow accelerator conventions: energies in eV, momenta in eV/c,
// masses in eV/c², charges in units of the elementary charge, voltages in
// volt, times in seconds.
package machine
