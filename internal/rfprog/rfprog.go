// Package rfprog turns sparse RF programs, voltage or phase anchors given
// at a handful of cycle times, into the dense per-turn arrays the machine
// description consumes. It also stitches independent voltage segments into
// one continuous program, bridging the gaps with linear, isoadiabatic or
// constant-tune ramps.
package rfprog

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/synchro/internal/machine"
)

// Interpolation selects how anchor points are joined.
type Interpolation int

const (
	// InterpLinear joins anchors with straight lines.
	InterpLinear Interpolation = iota
	// InterpCubic joins anchors with a natural cubic spline.
	InterpCubic
)

// ProgramPoints holds one RF system's anchors. Time and Value carry matching
// samples in seconds and program units. A constant program is written as an
// empty Time with a single Value.
type ProgramPoints struct {
	Time  []float64
	Value []float64
}

// Constant builds a flat program at the given value.
func Constant(value float64) ProgramPoints {
	return ProgramPoints{Value: []float64{value}}
}

// PreprocessOptions tunes [Preprocess].
type PreprocessOptions struct {
	// Interpolation selects the anchor join. Defaults to [InterpLinear].
	Interpolation Interpolation
}

// Preprocess resamples one program per RF system onto the ring's per-turn
// cycle time. Anchors must strictly ascend in time; outside the anchored
// range the program extends flat at the nearest end value. The result has
// one row per system, each of length NTurns+1.
func Preprocess(ring *machine.Ring, systems []ProgramPoints, opts PreprocessOptions) ([][]float64, error) {
	if len(systems) == 0 {
		return nil, ErrNoSystems
	}
	out := make([][]float64, len(systems))
	for i, p := range systems {
		row, err := resample(ring, p, opts.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("system %d: %w", i, err)
		}
		out[i] = row
	}
	return out, nil
}

func resample(ring *machine.Ring, p ProgramPoints, mode Interpolation) ([]float64, error) {
	n := ring.NTurns + 1
	if len(p.Time) == 0 && len(p.Value) == 1 {
		row := make([]float64, n)
		for i := range row {
			row[i] = p.Value[0]
		}
		return row, nil
	}
	if len(p.Time) != len(p.Value) || len(p.Time) < 2 {
		return nil, ErrBadProgramPoints
	}
	if !strictlyAscending(p.Time) {
		return nil, ErrNonMonotonic
	}

	var pred interp.FittablePredictor
	switch mode {
	case InterpLinear:
		pred = &interp.PiecewiseLinear{}
	case InterpCubic:
		pred = &interp.NaturalCubic{}
	default:
		return nil, ErrUnknownInterpolation
	}
	if err := pred.Fit(p.Time, p.Value); err != nil {
		return nil, fmt.Errorf("rfprog: fit: %w", err)
	}

	lo, hi := p.Time[0], p.Time[len(p.Time)-1]
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		t := ring.CycleTime[i]
		if t <= lo {
			row[i] = p.Value[0]
		} else if t >= hi {
			row[i] = p.Value[len(p.Value)-1]
		} else {
			row[i] = pred.Predict(t)
		}
	}
	return row, nil
}

func strictlyAscending(t []float64) bool {
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return false
		}
	}
	return true
}
