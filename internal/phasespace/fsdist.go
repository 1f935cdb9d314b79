package phasespace

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/machine"
	"github.com/san-kum/synchro/internal/numeric"
)

// WellGenerator regenerates an RF potential well on demand at a given
// turn. With a nil timeArray the generator chooses its own window of
// nPoints samples, one period of the selected main system widened by
// marginPercent of that period split between the two sides. A non-nil
// timeArray overrides the window entirely. The returned well is
// normalized to minimum zero. [tracking.FullRing] satisfies this.
type WellGenerator interface {
	PotentialWell(turn, nPoints int, timeArray []float64, marginPercent float64, sel machine.HarmonicSelect) (time, well []float64, err error)
}

// FsOptions steers [FrequencyDistribution]. The zero value of NPoints,
// NBunches and BunchSpacing means "default"; MarginPercent is used as
// given.
type FsOptions struct {
	Turn          int
	NPoints       int     // well resolution, default 10000
	MarginPercent float64 // window widening per side
	Main          machine.HarmonicSelect

	// Optional induced-voltage table on its own ascending time base.
	InducedTime    []float64
	InducedVoltage []float64

	// SmoothWindow >= 2 applies a boxcar of that width to both branches.
	SmoothWindow int

	NBunches     int // bunches sharing the frequency table, default 1
	BunchSpacing int // spacing between bunches in buckets, default 1
}

// DefaultFsOptions returns the reference settings.
func DefaultFsOptions() FsOptions {
	return FsOptions{NPoints: 10000, MarginPercent: 0.05, NBunches: 1, BunchSpacing: 1}
}

// FsDistribution maps Hamiltonian amplitude to synchrotron frequency.
// Branch arrays run outward from the synchronous point; the merged (H,
// Freq) table is sorted by H ascending for interpolation.
type FsDistribution struct {
	TimeCoord []float64 // cut well frame
	Well      []float64 // cut well, re-zeroed

	SynchronousTime float64

	HLeft, HRight                 []float64
	FreqLeft, FreqRight           []float64
	EmittanceLeft, EmittanceRight []float64
	DeltaTimeLeft, DeltaTimeRight []float64

	H, Freq []float64

	// Per macro-particle mapping, present when an ensemble was given.
	ParticleFrequency []float64
	ParticleBunch     []int
}

// FrequencyDistribution derives the synchrotron-frequency distribution of
// the bucket at opts.Turn: the well is generated and cut, the action
// integral is evaluated for every Hamiltonian level by resampling the
// accessible range at full resolution, and the frequency follows as
// dH/dJ/2pi along both flanks. When b is non-nil every macro-particle is
// assigned its frequency through the merged table.
func FrequencyDistribution(rf *machine.RFStation, b *beam.Beam, gen WellGenerator, opts FsOptions, diag *Diag) (*FsDistribution, error) {
	if opts.NPoints <= 0 {
		opts.NPoints = 10000
	}
	if opts.NBunches <= 0 {
		opts.NBunches = 1
	}
	if opts.BunchSpacing <= 0 {
		opts.BunchSpacing = 1
	}

	ring := rf.Ring
	turn := opts.Turn
	eta0 := ring.Eta0At(turn)
	beta := ring.BetaAt(turn)
	energy := ring.EnergyAt(turn)
	q := ring.Particle.Charge

	eomDE := math.Abs(eta0) / (2 * beta * beta * energy)
	eomPot := float64(sign(eta0)) * q / ring.TRevAt(turn)

	timeCoord, well, err := gen.PotentialWell(turn, opts.NPoints, nil, opts.MarginPercent, opts.Main)
	if err != nil {
		return nil, err
	}

	// induced potential, interpolated onto the well frame
	var indTime, indPot []float64
	if opts.InducedTime != nil || opts.InducedVoltage != nil {
		if len(opts.InducedTime) != len(opts.InducedVoltage) || len(opts.InducedTime) < 2 {
			return nil, ErrLengthMismatch
		}
		indTime = opts.InducedTime
		cum := numeric.CumTrapz(opts.InducedVoltage, indTime[1]-indTime[0])
		indPot = make([]float64, len(cum))
		for i, v := range cum {
			indPot[i] = -eomPot * v
		}
		for i, t := range timeCoord {
			well[i] += numeric.Interp(t, indTime, indPot)
		}
	}

	cut, err := PotentialWellCut(timeCoord, well, diag)
	if err != nil {
		return nil, err
	}

	timeSep := cut.Time
	wellSep := append([]float64(nil), cut.Well...)
	minVal := wellSep[0]
	for _, v := range wellSep[1:] {
		if v < minVal {
			minVal = v
		}
	}
	for i := range wellSep {
		wellSep[i] -= minVal
	}

	var syncIdx []int
	for i, v := range wellSep {
		if v == 0 {
			syncIdx = append(syncIdx, i)
		}
	}
	var syncTime float64
	for _, i := range syncIdx {
		syncTime += timeSep[i]
	}
	syncTime /= float64(len(syncIdx))

	// action integral per Hamiltonian level
	action := make([]float64, len(wellSep))
	traj := make([]float64, opts.NPoints)
	for i, h := range wellSep {
		lo, hi := -1, 0
		for k, v := range wellSep {
			if v <= h {
				if lo < 0 {
					lo = k
				}
				hi = k
			}
		}
		hrTime := numeric.Linspace(timeSep[lo], timeSep[hi], opts.NPoints)
		_, hrWell, err := gen.PotentialWell(turn, opts.NPoints, hrTime, opts.MarginPercent, opts.Main)
		if err != nil {
			return nil, err
		}
		if indPot != nil {
			m := math.Inf(1)
			for k, t := range hrTime {
				hrWell[k] += numeric.InterpOutside(t, indTime, indPot, 0, 0)
				if hrWell[k] < m {
					m = hrWell[k]
				}
			}
			for k := range hrWell {
				hrWell[k] -= m
			}
		}
		for k, v := range hrWell {
			if d := (h - v) / eomDE; d > 0 {
				traj[k] = math.Sqrt(d)
			} else {
				traj[k] = 0
			}
		}
		action[i] = integrate.Trapezoidal(hrTime, traj) / math.Pi
	}

	s0 := syncIdx[0]
	s1 := syncIdx[len(syncIdx)-1]

	hLeft := append([]float64(nil), wellSep[:s0+1]...)
	jLeft := append([]float64(nil), action[:s0+1]...)
	hRight := append([]float64(nil), wellSep[s1:]...)
	jRight := append([]float64(nil), action[s1:]...)

	dtLeft := make([]float64, s0+1)
	for i := range dtLeft {
		dtLeft[i] = timeSep[s0] - timeSep[i]
	}
	dtRight := make([]float64, len(hRight))
	for i := range dtRight {
		dtRight[i] = timeSep[s1+i] - timeSep[s1]
	}

	if w := opts.SmoothWindow; w >= 2 {
		if w > len(hLeft) || w > len(hRight) {
			return nil, ErrTooShort
		}
		kern := numeric.Boxcar(w)
		hLeft = numeric.ConvolveValid(hLeft, kern)
		jLeft = numeric.ConvolveValid(jLeft, kern)
		hRight = numeric.ConvolveValid(hRight, kern)
		jRight = numeric.ConvolveValid(jRight, kern)
		dtLeft = smoothShift(dtLeft, w)
		dtRight = smoothShift(dtRight, w)
	}

	fsLeft := branchFrequencies(hLeft, jLeft)
	fsRight := branchFrequencies(hRight, jRight)

	// left branch flipped so both run outward from the synchronous point
	numeric.Reverse(fsLeft)
	numeric.Reverse(hLeft)
	numeric.Reverse(jLeft)
	numeric.Reverse(dtLeft)

	emLeft := make([]float64, len(jLeft))
	for i, v := range jLeft {
		emLeft[i] = 2 * math.Pi * v
	}
	emRight := make([]float64, len(jRight))
	for i, v := range jRight {
		emRight[i] = 2 * math.Pi * v
	}

	hAll := append(append([]float64(nil), hLeft...), hRight...)
	fsAll := append(append([]float64(nil), fsLeft...), fsRight...)
	order := make([]int, len(hAll))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool { return hAll[order[a]] < hAll[order[c]] })
	hSorted := make([]float64, len(hAll))
	fsSorted := make([]float64, len(fsAll))
	for k, i := range order {
		hSorted[k] = hAll[i]
		fsSorted[k] = fsAll[i]
	}

	out := &FsDistribution{
		TimeCoord:       timeSep,
		Well:            wellSep,
		SynchronousTime: syncTime,
		HLeft:           hLeft,
		HRight:          hRight,
		FreqLeft:        fsLeft,
		FreqRight:       fsRight,
		EmittanceLeft:   emLeft,
		EmittanceRight:  emRight,
		DeltaTimeLeft:   dtLeft,
		DeltaTimeRight:  dtRight,
		H:               hSorted,
		Freq:            fsSorted,
	}

	if b != nil {
		out.ParticleFrequency = make([]float64, b.N())
		out.ParticleBunch = make([]int, b.N())
		period := float64(opts.BunchSpacing) * 2 * math.Pi / rf.OmegaAt(0, turn)
		for i, t := range b.Dt {
			fold := t
			if opts.NBunches > 1 {
				k := int(math.Floor(t / period))
				out.ParticleBunch[i] = k
				fold = t - float64(k)*period
			}
			hp := eomDE*b.DE[i]*b.DE[i] + numeric.Interp(fold, timeSep, wellSep)
			out.ParticleFrequency[i] = numeric.Interp(hp, hSorted, fsSorted)
		}
	}
	return out, nil
}

func branchFrequencies(h, j []float64) []float64 {
	out := make([]float64, len(h))
	if len(h) < 2 {
		return out
	}
	gh := numeric.Gradient(h)
	gj := numeric.Gradient(j)
	for i := range out {
		out[i] = gh[i] / gj[i] / (2 * math.Pi)
	}
	return out
}

// smoothShift applies the boxcar delay compensation to a coordinate axis
// and truncates it to the valid-convolution length.
func smoothShift(a []float64, w int) []float64 {
	shift := float64(w-1) * (a[1] - a[0]) / 2
	out := make([]float64, len(a)-w+1)
	for i := range out {
		out[i] = a[i] + shift
	}
	return out
}
