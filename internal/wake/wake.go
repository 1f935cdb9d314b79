// Package wake provides sampled induced-voltage tables: the collective
// voltage a beam leaves behind, given on its own time base. Tables feed
// the analysis layer as potential overlays and kick probe ensembles as
// ghosts, without the probes contributing wake themselves.
package wake

import (
	"errors"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/numeric"
)

var (
	// ErrTableShape indicates mismatched or too-short table slices.
	ErrTableShape = errors.New("wake: time and voltage tables must match with at least two samples")

	// ErrUnsorted indicates a non-ascending time base.
	ErrUnsorted = errors.New("wake: time base must ascend")
)

// InducedVoltage is an induced-voltage table over an ascending time base.
type InducedVoltage struct {
	Time    []float64 // s
	Voltage []float64 // V
}

// New validates and wraps a table. The slices are retained, not copied.
func New(time, voltage []float64) (*InducedVoltage, error) {
	if len(time) != len(voltage) || len(time) < 2 {
		return nil, ErrTableShape
	}
	for i := 1; i < len(time); i++ {
		if time[i] <= time[i-1] {
			return nil, ErrUnsorted
		}
	}
	return &InducedVoltage{Time: time, Voltage: voltage}, nil
}

// At returns the induced voltage at dt. Outside the table window there is
// no wake, so the value is zero.
func (iv *InducedVoltage) At(dt float64) float64 {
	return numeric.InterpOutside(dt, iv.Time, iv.Voltage, 0, 0)
}

// Potential integrates the table into an induced potential on the same
// time base, in eV, using the equation-of-motion factor
// sign(eta)*q/t_rev supplied by the caller.
func (iv *InducedVoltage) Potential(eomPot float64) ([]float64, []float64) {
	pot := numeric.CumTrapzXY(iv.Time, iv.Voltage)
	for i := range pot {
		pot[i] *= -eomPot
	}
	return iv.Time, pot
}

// TrackGhosts kicks every probe with the wake sampled at its arrival time.
// The table itself never changes, so the probes stay invisible to the
// beam that produced the wake.
func (iv *InducedVoltage) TrackGhosts(b *beam.Beam) error {
	q := b.Ring.Particle.Charge
	for i, dt := range b.Dt {
		b.DE[i] += q * iv.At(dt)
	}
	return nil
}
