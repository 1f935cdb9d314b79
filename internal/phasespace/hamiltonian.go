package phasespace

import (
	"math"

	"github.com/san-kum/synchro/internal/machine"
)

// Hamiltonian evaluates the single-harmonic Hamiltonian at each (dt, dE)
// pair, using the station programs at its current turn. totalVoltage, when
// non-nil, overrides the fundamental voltage program with a combined
// per-turn amplitude (see [TotalVoltage]).
//
// Stations with several RF systems are reduced to their fundamental; that
// approximation is reported to diag and the computation proceeds.
func Hamiltonian(rf *machine.RFStation, dt, dE []float64, totalVoltage []float64, diag *Diag) ([]float64, error) {
	if len(dt) != len(dE) {
		return nil, ErrLengthMismatch
	}
	if rf.NRF > 1 {
		diag.Warningf("hamiltonian", "single-harmonic formula applied to %d rf systems; result is approximate", rf.NRF)
	}

	ring := rf.Ring
	counter := rf.Counter
	h0 := rf.HarmonicAt(0, counter)
	omega0 := rf.OmegaAt(0, counter)
	phi0 := rf.PhiAt(0, counter)
	phis := rf.PhiSAt(counter)
	eta0 := ring.Eta0At(counter)
	beta := ring.BetaAt(counter)
	energy := ring.EnergyAt(counter)

	v0 := rf.VoltageAt(0, counter)
	if len(totalVoltage) > 0 {
		i := counter
		if i >= len(totalVoltage) {
			i = len(totalVoltage) - 1
		}
		v0 = totalVoltage[i]
	}
	v0 *= ring.Particle.Charge

	c1 := eta0 * machine.SpeedOfLight * math.Pi / (ring.Circumference * beta * energy)
	c2 := machine.SpeedOfLight * beta * v0 / (h0 * ring.Circumference)

	phib := make([]float64, len(dt))
	for i, t := range dt {
		phib[i] = omega0*t + phi0
	}
	if eta0 < 0 {
		phib = PhaseModuloBelow(phib)
	} else if eta0 > 0 {
		phib = PhaseModuloAbove(phib)
	}

	sinS, cosS := math.Sincos(phis)
	out := make([]float64, len(dt))
	for i := range out {
		out[i] = c1*dE[i]*dE[i] + c2*(math.Cos(phib[i])-cosS+(phib[i]-phis)*sinS)
	}
	return out, nil
}

// IsInSeparatrix reports, per particle, whether (dt, dE) lies inside the
// single-harmonic bucket: the Hamiltonian magnitude is compared against the
// contour through the unstable fixed point.
func IsInSeparatrix(rf *machine.RFStation, dt, dE []float64, totalVoltage []float64, diag *Diag) ([]bool, error) {
	if len(dt) != len(dE) {
		return nil, ErrLengthMismatch
	}
	if rf.NRF > 1 {
		diag.Warningf("is_in_separatrix", "single-harmonic criterion applied to %d rf systems; result is approximate", rf.NRF)
	}

	counter := rf.Counter
	dtSep := (math.Pi - rf.PhiSAt(counter) - rf.PhiAt(0, counter)) / rf.OmegaAt(0, counter)

	hSep, err := Hamiltonian(rf, []float64{dtSep}, []float64{0}, totalVoltage, nil)
	if err != nil {
		return nil, err
	}
	h, err := Hamiltonian(rf, dt, dE, totalVoltage, nil)
	if err != nil {
		return nil, err
	}

	limit := math.Abs(hSep[0])
	out := make([]bool, len(h))
	for i, v := range h {
		out[i] = math.Abs(v) < limit
	}
	return out, nil
}
