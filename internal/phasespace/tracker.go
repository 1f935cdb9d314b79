package phasespace

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/numeric"
)

// TurnAdvancer advances a ring map by one turn. The implementation must
// already be wired to the probe ensemble handed to the tracker.
type TurnAdvancer interface {
	Track() error
}

// GhostKicker applies induced-voltage kicks to a probe ensemble without
// letting the probes contribute to the wake.
type GhostKicker interface {
	TrackGhosts(b *beam.Beam) error
}

// FrequencyTracker measures synchrotron frequencies the empirical way: a
// fan of probe particles is tracked turn by turn and each probe's
// oscillation frequency is read off the peak of its coordinate spectrum.
// It cross-checks [FrequencyDistribution] without sharing any of its
// machinery.
type FrequencyTracker struct {
	Beam     *beam.Beam
	TimeStep float64 // revolution period used as sampling step, s

	// Raw per-turn history, [turn][particle].
	ThetaSave [][]float64
	DESave    [][]float64

	ring    TurnAdvancer
	ghosts  GhostKicker
	counter int
}

// NewFrequencyTracker places the probes and records turn zero. theta is
// either a 2-value range spread evenly over the ensemble or one azimuthal
// position per probe. nTurns fixes the history size; tracking beyond it
// fails with [ErrHistoryFull].
func NewFrequencyTracker(adv TurnAdvancer, b *beam.Beam, nTurns int, theta []float64, ghosts GhostKicker) (*FrequencyTracker, error) {
	n := b.N()
	switch {
	case len(theta) == 2:
		theta = numeric.Linspace(theta[0], theta[1], n)
	case len(theta) == n:
		theta = append([]float64(nil), theta...)
	default:
		return nil, ErrBadThetaRange
	}
	b.SetTheta(theta, 0)
	for i := range b.DE {
		b.DE[i] = 0
	}

	ft := &FrequencyTracker{
		Beam:      b,
		TimeStep:  b.Ring.TRev[0],
		ThetaSave: make([][]float64, nTurns+1),
		DESave:    make([][]float64, nTurns+1),
		ring:      adv,
		ghosts:    ghosts,
	}
	for i := range ft.ThetaSave {
		ft.ThetaSave[i] = make([]float64, n)
		ft.DESave[i] = make([]float64, n)
	}
	ft.record()
	return ft, nil
}

func (ft *FrequencyTracker) record() {
	copy(ft.ThetaSave[ft.counter], ft.Beam.Theta(ft.counter))
	copy(ft.DESave[ft.counter], ft.Beam.DE)
}

// Turn is the number of tracked turns so far.
func (ft *FrequencyTracker) Turn() int { return ft.counter }

// Track advances the probes one turn and records their coordinates.
func (ft *FrequencyTracker) Track() error {
	if ft.counter+1 >= len(ft.ThetaSave) {
		return ErrHistoryFull
	}
	if err := ft.ring.Track(); err != nil {
		return err
	}
	if ft.ghosts != nil {
		if err := ft.ghosts.TrackGhosts(ft.Beam); err != nil {
			return err
		}
	}
	ft.counter++
	ft.record()
	return nil
}

// TrackedFrequencies is the spectral analysis of a tracking run.
type TrackedFrequencies struct {
	FrequencyAxis []float64 // rfft bin frequencies, Hz

	// Peak frequency per probe from each coordinate; zero for lost probes.
	FrequencyTheta []float64
	FrequencyDE    []float64

	MaxTheta, MinTheta []float64
	MaxDE, MinDE       []float64
}

// FrequencyCalculation analyses the recorded turns [startTurn, endTurn).
// endTurn <= 0 means the full history, nSampling <= 0 the default zero
// padding of 100000 samples; shorter paddings are raised to the window
// length. A probe whose excursion leaves the initial ensemble extent
// counts as lost and keeps zero frequencies.
func (ft *FrequencyTracker) FrequencyCalculation(nSampling, startTurn, endTurn int) (*TrackedFrequencies, error) {
	if nSampling <= 0 {
		nSampling = 100000
	}
	if endTurn <= 0 {
		endTurn = ft.counter + 1
	}
	if startTurn < 0 || startTurn >= endTurn || endTurn > ft.counter+1 {
		return nil, ErrTurnRange
	}
	if w := endTurn - startTurn; nSampling < w {
		nSampling = w
	}

	n := ft.Beam.N()
	nBins := nSampling/2 + 1
	axis := make([]float64, nBins)
	for i := range axis {
		axis[i] = float64(i) / (float64(nSampling) * ft.TimeStep)
	}

	res := &TrackedFrequencies{
		FrequencyAxis:  axis,
		FrequencyTheta: make([]float64, n),
		FrequencyDE:    make([]float64, n),
		MaxTheta:       make([]float64, n),
		MinTheta:       make([]float64, n),
		MaxDE:          make([]float64, n),
		MinDE:          make([]float64, n),
	}

	lowEdge := ft.ThetaSave[0][0]
	highEdge := ft.ThetaSave[0][n-1]

	series := make([]float64, endTurn-startTurn)
	padded := make([]float64, nSampling)

	for p := 0; p < n; p++ {
		for t := startTurn; t < endTurn; t++ {
			series[t-startTurn] = ft.ThetaSave[t][p]
		}
		res.MaxTheta[p], res.MinTheta[p] = maxMin(series)
		lost := !(res.MaxTheta[p] < highEdge && res.MinTheta[p] > lowEdge)
		if !lost {
			res.FrequencyTheta[p] = peakFrequency(series, padded, axis)
		}

		for t := startTurn; t < endTurn; t++ {
			series[t-startTurn] = ft.DESave[t][p]
		}
		res.MaxDE[p], res.MinDE[p] = maxMin(series)
		if !lost {
			res.FrequencyDE[p] = peakFrequency(series, padded, axis)
		}
	}
	return res, nil
}

func maxMin(s []float64) (float64, float64) {
	max, min := math.Inf(-1), math.Inf(1)
	for _, v := range s {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return max, min
}

// peakFrequency zero-pads the mean-subtracted series and returns the
// frequency of the strongest spectral bin.
func peakFrequency(series, padded, axis []float64) float64 {
	mean := stat.Mean(series, nil)
	for i, v := range series {
		padded[i] = v - mean
	}
	for i := len(series); i < len(padded); i++ {
		padded[i] = 0
	}

	spec := fft.FFTReal(padded)
	best := 0
	bestMag := 0.0
	for i := range axis {
		if m := cmplx.Abs(spec[i]); m > bestMag {
			bestMag = m
			best = i
		}
	}
	return axis[best]
}
