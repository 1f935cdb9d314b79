package tracking

import (
	"math"

	"github.com/san-kum/synchro/internal/machine"
	"github.com/san-kum/synchro/internal/numeric"
)

// PotentialWell integrates the net turn kick into a potential, in eV,
// normalized to minimum zero. With a nil timeArray the window spans one
// period of the main system selected by sel, widened by marginPercent of
// that period split between the two sides, sampled at nPoints; a non-nil
// timeArray is used as given. The returned time slice is the window that
// was used.
//
// The sign convention follows the slip regime, so the well always opens
// upward around the stable phase.
func (fr *FullRing) PotentialWell(turn, nPoints int, timeArray []float64, marginPercent float64, sel machine.HarmonicSelect) ([]float64, []float64, error) {
	mainOmega, err := fr.RF.MainOmega(sel, turn)
	if err != nil {
		return nil, nil, err
	}

	if timeArray == nil {
		if nPoints < 2 {
			return nil, nil, ErrBadResolution
		}
		period := 2 * math.Pi / mainOmega
		margin := marginPercent * period
		timeArray = numeric.Linspace(-margin/2, period+margin/2, nPoints)
	} else if len(timeArray) < 2 {
		return nil, nil, ErrBadResolution
	}

	vtot := fr.TotalWaveform(timeArray, turn)
	q := fr.Ring.Particle.Charge
	gain := fr.Ring.EnergyGainAt(turn)
	for i := range vtot {
		vtot[i] = q*vtot[i] - gain
	}

	well := numeric.CumTrapzXY(timeArray, vtot)
	scale := -etaSign(fr.Ring.Eta0At(turn)) / fr.Ring.TRevAt(turn)
	min := math.Inf(1)
	for i := range well {
		well[i] *= scale
		if well[i] < min {
			min = well[i]
		}
	}
	for i := range well {
		well[i] -= min
	}
	return timeArray, well, nil
}

func etaSign(eta float64) float64 {
	switch {
	case eta > 0:
		return 1
	case eta < 0:
		return -1
	}
	return 0
}
