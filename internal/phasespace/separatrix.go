package phasespace

import (
	"math"

	"github.com/san-kum/synchro/internal/machine"
	"github.com/san-kum/synchro/internal/numeric"
)

const ufpScanPoints = 1002

// Separatrix returns the bucket boundary dE(dt) at the station's current
// turn, one value per input time. Points outside the bucket yield NaN in
// place.
//
// A single RF system uses the closed form around the synchronous phase,
// with input times folded into one RF period. With several systems the
// unstable fixed point is located numerically: the total waveform minus the
// energy gain is scanned over one period of the first powered system, zero
// crossings are walked in the direction set by the slip-factor sign until
// the slope matches, and the crossing is refined by linear interpolation.
func Separatrix(rf *machine.RFStation, dt []float64) ([]float64, error) {
	ring := rf.Ring
	counter := rf.Counter
	q := ring.Particle.Charge

	eta0 := ring.Eta0At(counter)
	beta := ring.BetaAt(counter)
	betaSq := beta * beta
	energy := ring.EnergyAt(counter)
	denergy := ring.EnergyGainAt(counter)
	t0 := ring.TRevAt(counter)

	voltage := make([]float64, rf.NRF)
	omega := make([]float64, rf.NRF)
	phi := make([]float64, rf.NRF)
	idx := -1
	for s := 0; s < rf.NRF; s++ {
		voltage[s] = q * rf.VoltageAt(s, counter)
		omega[s] = rf.OmegaAt(s, counter)
		phi[s] = rf.PhiAt(s, counter)
		if idx < 0 && voltage[s] > 0 {
			idx = s
		}
	}
	if idx < 0 {
		return nil, ErrNoActiveSystem
	}
	tRF0 := 2 * math.Pi / omega[idx]

	if rf.NRF == 1 {
		phis := rf.PhiSAt(counter)
		offset := phi[0] / omega[0]
		if eta0 < 0 {
			offset = (phi[0] - math.Pi) / omega[0]
		}
		folded := TimeModulo(dt, offset, tRF0)

		h0 := rf.HarmonicAt(0, counter)
		coef := betaSq * energy * voltage[0] / (math.Pi * eta0 * h0)
		sinS, cosS := math.Sincos(phis)
		out := make([]float64, len(dt))
		for i, t := range folded {
			phib := omega[0]*t + phi[0]
			out[i] = math.Sqrt(coef * (-math.Cos(phib) - cosS + (math.Pi-phis-phib)*sinS))
		}
		return out, nil
	}

	tufp, err := unstableFixedPoint(voltage, omega, phi, idx, eta0, denergy, tRF0)
	if err != nil {
		return nil, err
	}

	coef := 2 * betaSq * energy / (eta0 * t0)
	out := make([]float64, len(dt))
	for i, t := range dt {
		var integral float64
		for s := 0; s < rf.NRF; s++ {
			integral += voltage[s] * (math.Cos(omega[s]*tufp+phi[s]) - math.Cos(omega[s]*t+phi[s])) / omega[s]
		}
		integral += denergy * (tufp - t)
		out[i] = math.Sqrt(coef * integral)
	}
	return out, nil
}

// unstableFixedPoint scans the net turn kick over one anchor period and
// walks its zero crossings until the slope sign matches the slip regime.
func unstableFixedPoint(voltage, omega, phi []float64, idx int, eta0, denergy, tRF0 float64) (float64, error) {
	anchor := phi[idx] / omega[idx]
	scan := numeric.Linspace(-anchor-tRF0/1000, tRF0-anchor+tRF0/1000, ufpScanPoints)
	if eta0 < 0 {
		for i := range scan {
			scan[i] -= 0.5 * tRF0
		}
	}

	vtot := make([]float64, len(scan))
	for i, t := range scan {
		var v float64
		for s := range voltage {
			v += voltage[s] * math.Sin(omega[s]*t+phi[s])
		}
		vtot[i] = v - denergy
	}

	var crossings []int
	for i := 0; i < len(vtot)-1; i++ {
		if sign(vtot[i]) != sign(vtot[i+1]) {
			crossings = append(crossings, i)
		}
	}
	if len(crossings) == 0 {
		return 0, ErrNoUnstableFixedPoint
	}

	var ind int
	if eta0 < 0 {
		k := len(crossings) - 1
		ind = crossings[k]
		for vtot[ind+1]-vtot[ind] > 0 {
			k--
			if k < 0 {
				return 0, ErrNoUnstableFixedPoint
			}
			ind = crossings[k]
		}
	} else {
		k := 0
		ind = crossings[k]
		for vtot[ind+1]-vtot[ind] < 0 {
			k++
			if k >= len(crossings) {
				return 0, ErrNoUnstableFixedPoint
			}
			ind = crossings[k]
		}
	}

	return scan[ind] + vtot[ind]/(vtot[ind]-vtot[ind+1])*(scan[ind+1]-scan[ind]), nil
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
