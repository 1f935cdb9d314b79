package phasespace

import (
	"github.com/san-kum/synchro/internal/numeric"
)

// MinMax lists the interior extrema of a sampled curve, positions ascending.
type MinMax struct {
	MinPositions []float64
	MaxPositions []float64
	MinValues    []float64
	MaxValues    []float64
}

// MinMaxLocation finds the interior extrema of f sampled on x. The
// derivative is formed on midpoints and resampled onto x; a zero or a sign
// change between neighbours marks an extremum, classified by the sign of
// the second derivative. Positions are midpoints of the bracketing pair,
// values linear interpolations of f there.
//
// Exact-zero plateaus can contribute one candidate per flat sample.
// Extrema at the very last sample cannot be bracketed and are not reported.
func MinMaxLocation(x, f []float64) (*MinMax, error) {
	if len(x) != len(f) {
		return nil, ErrLengthMismatch
	}
	n := len(x)
	if n < 3 {
		return nil, ErrTooShort
	}

	xd := make([]float64, n-1)
	fd := make([]float64, n-1)
	half := (x[1] - x[0]) / 2
	for i := 0; i < n-1; i++ {
		xd[i] = x[i] + half
		fd[i] = (f[i+1] - f[i]) / (x[i+1] - x[i])
	}
	d1 := numeric.InterpSlice(x, xd, fd)

	for i := 0; i < n-1; i++ {
		fd[i] = (d1[i+1] - d1[i]) / (x[i+1] - x[i])
	}
	d2 := numeric.InterpSlice(x, xd, fd)

	mm := &MinMax{}
	for i := 0; i < n-1; i++ {
		signChange := (d1[i] > 0 && d1[i+1] < 0) || (d1[i] < 0 && d1[i+1] > 0)
		if d1[i] != 0 && !signChange {
			continue
		}
		pos := 0.5 * (x[i] + x[i+1])
		switch {
		case d2[i] > 0:
			mm.MinPositions = append(mm.MinPositions, pos)
		case d2[i] < 0:
			mm.MaxPositions = append(mm.MaxPositions, pos)
		}
	}
	mm.MinValues = numeric.InterpSlice(mm.MinPositions, x, f)
	mm.MaxValues = numeric.InterpSlice(mm.MaxPositions, x, f)
	return mm, nil
}

// WellCase names the geometry the extractor met.
type WellCase int

const (
	// CutFullRange means no wall was found and the full input survived.
	CutFullRange WellCase = iota
	// CutSingleMaximum means one wall bounded the bucket on one side.
	CutSingleMaximum
	// CutTwoMaxima means two walls bounded the bucket.
	CutTwoMaxima
	// CutOuterMaxima means inner structure was ignored and the outermost
	// walls were used.
	CutOuterMaxima
)

// WellCut is one isolated bucket of a potential well.
type WellCut struct {
	Time    []float64
	Well    []float64
	Case    WellCase
	Extrema *MinMax // extrema of the uncut well
}

// PotentialWellCut isolates the bucket around the well minimum, dispatching
// on the number of interior maxima. Wells without a minimum, with more
// minima than their single wall can close, or whose boundary falls away
// from the wall, are structural errors. A well with no maxima at all is a
// recoverable degeneracy: it is reported to diag and the full range is
// returned.
func PotentialWellCut(timeCoord, well []float64, diag *Diag) (*WellCut, error) {
	mm, err := MinMaxLocation(timeCoord, well)
	if err != nil {
		return nil, err
	}
	nMin, nMax := len(mm.MinPositions), len(mm.MaxPositions)
	if nMin == 0 {
		return nil, ErrNoMinimum
	}
	if nMin > nMax && nMax == 1 {
		return nil, ErrIllShapedWell
	}

	keep := func(pred func(i int) bool, c WellCase) (*WellCut, error) {
		cut := &WellCut{Case: c, Extrema: mm}
		for i := range timeCoord {
			if pred(i) {
				cut.Time = append(cut.Time, timeCoord[i])
				cut.Well = append(cut.Well, well[i])
			}
		}
		if len(cut.Time) == 0 {
			return nil, ErrNoMinimum
		}
		return cut, nil
	}

	switch {
	case nMax == 0:
		diag.Warningf("potential_well_cut",
			"no maximum found; the main harmonic or margin may need revisiting, taking the full well range")
		return keep(func(int) bool { return true }, CutFullRange)

	case nMax == 1:
		maxT, maxV := mm.MaxPositions[0], mm.MaxValues[0]
		if mm.MinPositions[0] > maxT {
			// wall on the left: the right edge must stay above the left one
			if well[len(well)-1] < well[0] {
				return nil, ErrOpenWell
			}
			return keep(func(i int) bool {
				return timeCoord[i] > maxT && well[i] < maxV
			}, CutSingleMaximum)
		}
		if well[len(well)-1] > well[0] {
			return nil, ErrOpenWell
		}
		return keep(func(i int) bool {
			return timeCoord[i] < maxT && well[i] < maxV
		}, CutSingleMaximum)

	case nMax == 2:
		lowerV, higherV := mm.MaxValues[0], mm.MaxValues[1]
		if lowerV > higherV {
			lowerV, higherV = higherV, lowerV
		}
		var lowerT, higherT []float64
		for i, v := range mm.MaxValues {
			if v == lowerV {
				lowerT = append(lowerT, mm.MaxPositions[i])
			}
			if v == higherV {
				higherT = append(higherT, mm.MaxPositions[i])
			}
		}
		if len(lowerT) == 2 {
			// exact tie: the bucket sits between equal walls
			return keep(func(i int) bool {
				return timeCoord[i] > lowerT[0] && timeCoord[i] < lowerT[1] && well[i] < lowerV
			}, CutTwoMaxima)
		}
		if mm.MinPositions[0] > lowerT[0] {
			return keep(func(i int) bool {
				return timeCoord[i] > lowerT[0] && timeCoord[i] < higherT[0] && well[i] < lowerV
			}, CutTwoMaxima)
		}
		return keep(func(i int) bool {
			return timeCoord[i] < lowerT[0] && timeCoord[i] > higherT[0] && well[i] < lowerV
		}, CutTwoMaxima)

	default:
		leftT := mm.MaxPositions[0]
		rightT := mm.MaxPositions[nMax-1]
		cutoff := mm.MaxValues[0]
		if mm.MaxValues[nMax-1] < cutoff {
			cutoff = mm.MaxValues[nMax-1]
		}
		return keep(func(i int) bool {
			return timeCoord[i] > leftT && timeCoord[i] < rightT && well[i] < cutoff
		}, CutOuterMaxima)
	}
}
