package machine

import "math"

// Ring holds the lattice scalars and the per-turn kinematics derived from a
// momentum program. All per-turn slices have length NTurns+1 except
// EnergyGain, which has one entry per turn.
type Ring struct {
	Circumference float64
	Radius        float64
	Alpha0        float64 // linear momentum compaction factor
	GammaT        float64 // transition gamma, from Alpha0
	Particle      Particle
	NTurns        int

	Momentum   []float64 // eV/c
	Energy     []float64 // total energy, eV
	KinEnergy  []float64 // eV
	Beta       []float64
	Gamma      []float64
	TRev       []float64 // revolution period, s
	CycleTime  []float64 // elapsed time at the start of each turn, s
	Eta0       []float64 // zeroth-order slip factor
	EnergyGain []float64 // E[i+1]-E[i], eV
}

// NewRing derives the full per-turn kinematics from a momentum program.
// The program carries NTurns+1 values; a single value describes a ring
// used for stationary analysis only.
func NewRing(circumference, alpha0 float64, momentum []float64, p Particle) (*Ring, error) {
	if circumference <= 0 {
		return nil, ErrBadCircumference
	}
	if len(momentum) == 0 {
		return nil, ErrEmptyProgram
	}
	if p.Mass <= 0 || p.Charge == 0 {
		return nil, ErrBadParticle
	}

	n := len(momentum)
	r := &Ring{
		Circumference: circumference,
		Radius:        circumference / (2 * math.Pi),
		Alpha0:        alpha0,
		Particle:      p,
		NTurns:        n - 1,
		Momentum:      append([]float64(nil), momentum...),
		Energy:        make([]float64, n),
		KinEnergy:     make([]float64, n),
		Beta:          make([]float64, n),
		Gamma:         make([]float64, n),
		TRev:          make([]float64, n),
		CycleTime:     make([]float64, n),
		Eta0:          make([]float64, n),
		EnergyGain:    make([]float64, n-1),
	}
	if alpha0 > 0 {
		r.GammaT = 1 / math.Sqrt(alpha0)
	}

	for i, mom := range momentum {
		if mom <= 0 {
			return nil, ErrBadMomentum
		}
		e := math.Sqrt(mom*mom + p.Mass*p.Mass)
		r.Energy[i] = e
		r.KinEnergy[i] = e - p.Mass
		r.Beta[i] = mom / e
		r.Gamma[i] = e / p.Mass
		r.TRev[i] = circumference / (r.Beta[i] * SpeedOfLight)
		r.Eta0[i] = alpha0 - 1/(r.Gamma[i]*r.Gamma[i])
	}
	for i := 1; i < n; i++ {
		r.CycleTime[i] = r.CycleTime[i-1] + r.TRev[i-1]
		r.EnergyGain[i-1] = r.Energy[i] - r.Energy[i-1]
	}
	return r, nil
}

// ConstProgram returns a flat per-turn program of nTurns+1 copies of value.
func ConstProgram(value float64, nTurns int) []float64 {
	out := make([]float64, nTurns+1)
	for i := range out {
		out[i] = value
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// TRevAt returns the revolution period at turn, saturating at the program end.
func (r *Ring) TRevAt(turn int) float64 { return r.TRev[clampIndex(turn, len(r.TRev))] }

// BetaAt returns the relativistic beta at turn, saturating at the program end.
func (r *Ring) BetaAt(turn int) float64 { return r.Beta[clampIndex(turn, len(r.Beta))] }

// EnergyAt returns the total energy at turn, saturating at the program end.
func (r *Ring) EnergyAt(turn int) float64 { return r.Energy[clampIndex(turn, len(r.Energy))] }

// Eta0At returns the slip factor at turn, saturating at the program end.
func (r *Ring) Eta0At(turn int) float64 { return r.Eta0[clampIndex(turn, len(r.Eta0))] }

// EnergyGainAt returns the synchronous energy gain for turn, saturating at
// the final programmed value. Rings without acceleration return 0.
func (r *Ring) EnergyGainAt(turn int) float64 {
	if len(r.EnergyGain) == 0 {
		return 0
	}
	return r.EnergyGain[clampIndex(turn, len(r.EnergyGain))]
}
