// Package tracking advances beams around the ring turn by turn and
// generates the RF potential wells the analysis layer consumes.
package tracking

import (
	"math"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/machine"
)

// FullRing couples a ring, one RF station and a beam into a one-turn map:
// an energy kick from every RF system followed by a slip-factor drift of
// the arrival times. The station counter tracks the current turn.
type FullRing struct {
	Ring *machine.Ring
	RF   *machine.RFStation
	Beam *beam.Beam
}

// New wires a full ring around b.
func New(ring *machine.Ring, rf *machine.RFStation, b *beam.Beam) *FullRing {
	return &FullRing{Ring: ring, RF: rf, Beam: b}
}

// Track applies one turn. Tracking past the momentum program fails with
// [ErrProgramExhausted].
func (fr *FullRing) Track() error {
	counter := fr.RF.Counter
	if counter >= fr.Ring.NTurns {
		return ErrProgramExhausted
	}

	q := fr.Ring.Particle.Charge
	gain := fr.Ring.EnergyGain[counter]
	b := fr.Beam

	for i, dt := range b.Dt {
		var kick float64
		for s := 0; s < fr.RF.NRF; s++ {
			kick += q * fr.RF.Voltage[s][counter] * math.Sin(fr.RF.OmegaRF[s][counter]*dt+fr.RF.PhiRF[s][counter])
		}
		b.DE[i] += kick - gain
	}

	next := counter + 1
	betaSq := fr.Ring.Beta[next] * fr.Ring.Beta[next]
	coef := fr.Ring.TRev[next] * fr.Ring.Eta0[next] / (betaSq * fr.Ring.Energy[next])
	for i := range b.Dt {
		b.Dt[i] += coef * b.DE[i]
	}

	fr.RF.Counter = next
	return nil
}

// TotalWaveform samples the summed RF voltage of all systems at the given
// times, in volt, using the programs of the given turn.
func (fr *FullRing) TotalWaveform(t []float64, turn int) []float64 {
	out := make([]float64, len(t))
	for s := 0; s < fr.RF.NRF; s++ {
		v := fr.RF.VoltageAt(s, turn)
		w := fr.RF.OmegaAt(s, turn)
		phi := fr.RF.PhiAt(s, turn)
		for i, tt := range t {
			out[i] += v * math.Sin(w*tt+phi)
		}
	}
	return out
}
