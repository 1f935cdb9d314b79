// Package beam holds macro-particle ensembles in longitudinal coordinates:
// arrival time dt relative to the RF clock edge, in seconds, and energy
// offset dE relative to the synchronous particle, in eV.
package beam

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/synchro/internal/machine"
)

// ErrEmptyEnsemble indicates a beam constructed with no particles.
var ErrEmptyEnsemble = errors.New("beam: ensemble needs at least one particle")

// Beam is a macro-particle ensemble on a ring. Dt and DE always have equal
// length.
type Beam struct {
	Ring      *machine.Ring
	Dt        []float64 // s
	DE        []float64 // eV
	Intensity float64   // physical particles represented
}

// New returns an ensemble of n particles at the origin.
func New(ring *machine.Ring, n int, intensity float64) (*Beam, error) {
	if n < 1 {
		return nil, ErrEmptyEnsemble
	}
	return &Beam{
		Ring:      ring,
		Dt:        make([]float64, n),
		DE:        make([]float64, n),
		Intensity: intensity,
	}, nil
}

// Linspaced returns an ensemble with dt spread evenly over [lo, hi] and
// zero energy offset.
func Linspaced(ring *machine.Ring, n int, lo, hi float64) (*Beam, error) {
	b, err := New(ring, n, 0)
	if err != nil {
		return nil, err
	}
	if n == 1 {
		b.Dt[0] = 0.5 * (lo + hi)
		return b, nil
	}
	step := (hi - lo) / float64(n-1)
	for i := range b.Dt {
		b.Dt[i] = lo + float64(i)*step
	}
	return b, nil
}

// N is the macro-particle count.
func (b *Beam) N() int { return len(b.Dt) }

// Clone returns a deep copy sharing the ring.
func (b *Beam) Clone() *Beam {
	return &Beam{
		Ring:      b.Ring,
		Dt:        append([]float64(nil), b.Dt...),
		DE:        append([]float64(nil), b.DE...),
		Intensity: b.Intensity,
	}
}

// Theta converts arrival times to azimuthal angle around the ring at the
// kinematics of the given turn.
func (b *Beam) Theta(turn int) []float64 {
	scale := b.Ring.BetaAt(turn) * machine.SpeedOfLight / b.Ring.Radius
	out := make([]float64, len(b.Dt))
	for i, dt := range b.Dt {
		out[i] = dt * scale
	}
	return out
}

// SetTheta places particles by azimuthal angle at the kinematics of the
// given turn.
func (b *Beam) SetTheta(theta []float64, turn int) {
	scale := b.Ring.Radius / (b.Ring.BetaAt(turn) * machine.SpeedOfLight)
	for i := range b.Dt {
		b.Dt[i] = theta[i] * scale
	}
}

// Stats summarizes an ensemble.
type Stats struct {
	MeanDt  float64
	SigmaDt float64
	MeanDE  float64
	SigmaDE float64
}

// Statistics returns mean and spread of both coordinates.
func (b *Beam) Statistics() Stats {
	s := Stats{
		MeanDt: stat.Mean(b.Dt, nil),
		MeanDE: stat.Mean(b.DE, nil),
	}
	if b.N() > 1 {
		s.SigmaDt = stat.StdDev(b.Dt, nil)
		s.SigmaDE = stat.StdDev(b.DE, nil)
	}
	return s
}
