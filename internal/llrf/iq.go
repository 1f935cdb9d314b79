// Package llrf carries the low-level RF signal tools: IQ conversions,
// carrier remixing, comb and low-pass filters, running means, the RF
// component of a binned beam current, a proportional beam-phase loop and a
// fixed-frequency injection program.
package llrf

import (
	"math"
	"math/cmplx"
)

// PolarToCartesian converts amplitude/phase samples into IQ samples.
func PolarToCartesian(amplitude, phase []float64) ([]complex128, error) {
	if len(amplitude) != len(phase) {
		return nil, ErrLengthMismatch
	}
	out := make([]complex128, len(amplitude))
	for i := range amplitude {
		out[i] = cmplx.Rect(amplitude[i], phase[i])
	}
	return out, nil
}

// CartesianToPolar splits IQ samples into amplitude and phase arrays.
func CartesianToPolar(iq []complex128) (amplitude, phase []float64) {
	amplitude = make([]float64, len(iq))
	phase = make([]float64, len(iq))
	for i, z := range iq {
		amplitude[i] = cmplx.Abs(z)
		phase[i] = cmplx.Phase(z)
	}
	return amplitude, phase
}

// Modulator remixes an IQ signal sampled every tSampling seconds from a
// carrier at fInitial to one at fFinal, rotating sample n by
// 2*pi*(fInitial-fFinal)*tSampling*n.
func Modulator(signal []complex128, fInitial, fFinal, tSampling float64) ([]complex128, error) {
	if len(signal) < 2 {
		return nil, ErrShortSignal
	}
	step := 2 * math.Pi * (fInitial - fFinal) * tSampling
	out := make([]complex128, len(signal))
	for n, z := range signal {
		out[n] = z * cmplx.Rect(1, step*float64(n))
	}
	return out, nil
}

// CombFilter applies one turn of the feedback comb
// y[n] = a*prev[n] + (1-a)*x[n], where prev is the filter output of the
// previous turn.
func CombFilter(prev, x []complex128, a float64) ([]complex128, error) {
	if len(prev) != len(x) {
		return nil, ErrLengthMismatch
	}
	ca := complex(a, 0)
	cb := complex(1-a, 0)
	out := make([]complex128, len(x))
	for i := range x {
		out[i] = ca*prev[i] + cb*x[i]
	}
	return out, nil
}

// BeamProfile is a binned longitudinal charge profile on uniform bins.
// Counts holds macro-counts per bin and ChargePerCount the charge each
// count carries, in coulomb.
type BeamProfile struct {
	BinCenters     []float64
	Counts         []float64
	ChargePerCount float64
}

// beamCurrentCutoff is the analog low-pass cutoff applied to the
// demodulated beam current, in Hz.
const beamCurrentCutoff = 20e6

// RFBeamCurrent demodulates a binned profile at the carrier omegaC and
// returns the IQ beam current per bin, in ampere. With lowPass the I and Q
// components are smoothed by a 20 MHz [LowPassFilter] before returning.
func RFBeamCurrent(p BeamProfile, omegaC float64, lowPass bool) ([]complex128, error) {
	if len(p.BinCenters) != len(p.Counts) {
		return nil, ErrLengthMismatch
	}
	if len(p.BinCenters) < 2 {
		return nil, ErrBadBins
	}
	binSize := p.BinCenters[1] - p.BinCenters[0]
	if binSize <= 0 {
		return nil, ErrBadBins
	}

	in := make([]float64, len(p.Counts))
	qn := make([]float64, len(p.Counts))
	for i, c := range p.Counts {
		current := p.ChargePerCount * c / binSize
		s, cs := math.Sincos(omegaC * p.BinCenters[i])
		in[i] = 2 * current * cs
		qn[i] = -2 * current * s
	}

	if lowPass {
		cutoff := beamCurrentCutoff / (0.5 / binSize)
		var err error
		if in, err = LowPassFilter(in, cutoff); err != nil {
			return nil, err
		}
		if qn, err = LowPassFilter(qn, cutoff); err != nil {
			return nil, err
		}
	}

	out := make([]complex128, len(in))
	for i := range in {
		out[i] = complex(in[i], qn[i])
	}
	return out, nil
}
