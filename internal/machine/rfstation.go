package machine

import "math"

// HarmonicMode selects which RF system anchors a multi-harmonic waveform.
type HarmonicMode int

const (
	// LowestFrequency anchors on the system with the smallest RF frequency.
	LowestFrequency HarmonicMode = iota
	// HighestVoltage anchors on the highest-voltage system, breaking ties
	// toward the lower frequency.
	HighestVoltage
	// ExactFrequency anchors on the system whose angular frequency equals
	// Omega exactly.
	ExactFrequency
)

// HarmonicSelect names the main RF system for waveform windows.
type HarmonicSelect struct {
	Mode  HarmonicMode
	Omega float64 // rad/s, used by ExactFrequency only
}

// RFStation attaches RF programs to a ring. Programs are system-major with
// one value per turn plus the initial one. The fundamental is system 0.
type RFStation struct {
	Ring *Ring
	NRF  int

	Harmonic [][]float64
	Voltage  [][]float64 // V
	PhiRF    [][]float64 // rad
	OmegaRF  [][]float64 // rad/s, derived
	PhiS     []float64   // synchronous phase per turn, rad

	// Counter is the current turn, advanced by the tracker.
	Counter int
}

// NewRFStation derives RF frequencies and the synchronous phase from the
// given programs. All programs must have one row per system and NTurns+1
// columns.
func NewRFStation(ring *Ring, harmonic, voltage, phiRF [][]float64) (*RFStation, error) {
	nRF := len(harmonic)
	if nRF == 0 {
		return nil, ErrNoRFSystems
	}
	if len(voltage) != nRF || len(phiRF) != nRF {
		return nil, ErrProgramShape
	}
	n := ring.NTurns + 1
	for s := 0; s < nRF; s++ {
		if len(harmonic[s]) != n || len(voltage[s]) != n || len(phiRF[s]) != n {
			return nil, ErrProgramLength
		}
	}

	rf := &RFStation{
		Ring:     ring,
		NRF:      nRF,
		Harmonic: harmonic,
		Voltage:  voltage,
		PhiRF:    phiRF,
		OmegaRF:  make([][]float64, nRF),
	}
	for s := 0; s < nRF; s++ {
		rf.OmegaRF[s] = make([]float64, n)
		for i := 0; i < n; i++ {
			rf.OmegaRF[s][i] = 2 * math.Pi * harmonic[s][i] / ring.TRev[i]
		}
	}

	phis, err := synchronousPhase(ring, rf)
	if err != nil {
		return nil, err
	}
	rf.PhiS = phis
	return rf, nil
}

// synchronousPhase computes the per-turn synchronous phase from the
// fundamental system, treating all acceleration as provided by it. Above
// transition the stable phase moves to the falling slope of the wave.
func synchronousPhase(ring *Ring, rf *RFStation) ([]float64, error) {
	n := ring.NTurns + 1
	phis := make([]float64, n)
	q := ring.Particle.Charge

	for i := 0; i < n; i++ {
		ratio := 0.0
		if v := q * rf.Voltage[0][i]; v != 0 {
			ratio = ring.EnergyGainAt(i) / v
		}
		if ratio < -1 || ratio > 1 {
			return nil, ErrVoltageTooLow
		}
		phis[i] = math.Asin(ratio)

		// slip factor at the turn midpoint decides the regime
		etaMid := ring.Eta0[i]
		if i < ring.NTurns {
			etaMid = 0.5 * (ring.Eta0[i] + ring.Eta0[i+1])
		}
		if etaMid > 0 {
			phis[i] = math.Pi - phis[i]
		}
	}
	return phis, nil
}

// VoltageAt returns the voltage of system s at turn, saturating at the
// program end.
func (rf *RFStation) VoltageAt(s, turn int) float64 {
	return rf.Voltage[s][clampIndex(turn, len(rf.Voltage[s]))]
}

// OmegaAt returns the angular RF frequency of system s at turn, saturating
// at the program end.
func (rf *RFStation) OmegaAt(s, turn int) float64 {
	return rf.OmegaRF[s][clampIndex(turn, len(rf.OmegaRF[s]))]
}

// PhiAt returns the RF phase offset of system s at turn, saturating at the
// program end.
func (rf *RFStation) PhiAt(s, turn int) float64 {
	return rf.PhiRF[s][clampIndex(turn, len(rf.PhiRF[s]))]
}

// HarmonicAt returns the harmonic number of system s at turn, saturating at
// the program end.
func (rf *RFStation) HarmonicAt(s, turn int) float64 {
	return rf.Harmonic[s][clampIndex(turn, len(rf.Harmonic[s]))]
}

// PhiSAt returns the synchronous phase at turn, saturating at the program end.
func (rf *RFStation) PhiSAt(turn int) float64 {
	return rf.PhiS[clampIndex(turn, len(rf.PhiS))]
}

// OmegaS0 returns the small-amplitude synchrotron angular frequency at
// turn, in rad/s, from the fundamental system alone.
func (rf *RFStation) OmegaS0(turn int) float64 {
	ring := rf.Ring
	h := rf.HarmonicAt(0, turn)
	qv := ring.Particle.Charge * rf.VoltageAt(0, turn)
	beta := ring.BetaAt(turn)
	tune := math.Sqrt(h * qv * math.Abs(ring.Eta0At(turn)*math.Cos(rf.PhiSAt(turn))) /
		(2 * math.Pi * beta * beta * ring.EnergyAt(turn)))
	return 2 * math.Pi / ring.TRevAt(turn) * tune
}

// MainOmega resolves the main-system angular frequency at turn according to
// sel. ExactFrequency selections that match no system return
// [ErrHarmonicNotFound].
func (rf *RFStation) MainOmega(sel HarmonicSelect, turn int) (float64, error) {
	switch sel.Mode {
	case LowestFrequency:
		min := rf.OmegaAt(0, turn)
		for s := 1; s < rf.NRF; s++ {
			if w := rf.OmegaAt(s, turn); w < min {
				min = w
			}
		}
		return min, nil

	case HighestVoltage:
		vmax := rf.VoltageAt(0, turn)
		for s := 1; s < rf.NRF; s++ {
			if v := rf.VoltageAt(s, turn); v > vmax {
				vmax = v
			}
		}
		min := math.Inf(1)
		for s := 0; s < rf.NRF; s++ {
			if rf.VoltageAt(s, turn) == vmax {
				if w := rf.OmegaAt(s, turn); w < min {
					min = w
				}
			}
		}
		return min, nil

	case ExactFrequency:
		min := math.Inf(1)
		found := false
		for s := 0; s < rf.NRF; s++ {
			if w := rf.OmegaAt(s, turn); w == sel.Omega {
				found = true
				if w < min {
					min = w
				}
			}
		}
		if !found {
			return 0, ErrHarmonicNotFound
		}
		return min, nil
	}
	return 0, ErrHarmonicNotFound
}
