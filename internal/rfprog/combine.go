package rfprog

import (
	"fmt"
	"math"

	"github.com/san-kum/synchro/internal/machine"
	"github.com/san-kum/synchro/internal/numeric"
)

// MergeMode selects how the gap between two voltage segments is bridged.
type MergeMode int

const (
	// MergeLinear ramps the voltage linearly across the gap.
	MergeLinear MergeMode = iota
	// MergeIsoadiabatic ramps so the bucket area growth rate stays
	// constant, V(t) = Vi/(1-k·(t-t0))² with k = (1-sqrt(Vi/Vf))/Δt.
	MergeIsoadiabatic
	// MergeLinearTune ramps the small-amplitude synchrotron tune linearly
	// between the two anchor voltages and derives the voltage from it.
	MergeLinearTune
)

// Segment is one piece of a voltage program over its own time range.
type Segment struct {
	Time  []float64
	Value []float64
}

// ConstSegment builds a flat segment between start and stop.
func ConstSegment(start, stop, value float64) Segment {
	return Segment{Time: []float64{start, stop}, Value: []float64{value, value}}
}

// Program is a stitched voltage program on a strictly ascending time base.
type Program struct {
	Time  []float64
	Value []float64
}

// CombineOptions tunes [Combine].
type CombineOptions struct {
	// Mode selects the bridge between segments. Defaults to [MergeLinear].
	Mode MergeMode

	// Resolution is the sample spacing inside merge windows, in seconds.
	// Defaults to 1 ms.
	Resolution float64

	// Ring and Harmonic supply the machine parameters for
	// [MergeLinearTune]. Ignored by the other modes.
	Ring     *machine.Ring
	Harmonic float64
}

// Combine stitches voltage segments into one continuous program. Segments
// must each ascend in time and follow one another without overlap; the gaps
// between them are filled according to opts.Mode so the program stays
// continuous at every boundary.
func Combine(segments []Segment, opts CombineOptions) (Program, error) {
	if len(segments) == 0 {
		return Program{}, ErrNoSegments
	}
	for i, s := range segments {
		if len(s.Time) != len(s.Value) || len(s.Time) < 2 {
			return Program{}, fmt.Errorf("segment %d: %w", i, ErrBadProgramPoints)
		}
		if !strictlyAscending(s.Time) {
			return Program{}, fmt.Errorf("segment %d: %w", i, ErrNonMonotonic)
		}
		if i > 0 && s.Time[0] <= segments[i-1].Time[len(segments[i-1].Time)-1] {
			return Program{}, fmt.Errorf("segments %d and %d: %w", i-1, i, ErrSegmentOverlap)
		}
	}
	switch opts.Mode {
	case MergeLinear, MergeIsoadiabatic:
	case MergeLinearTune:
		if opts.Ring == nil || opts.Harmonic <= 0 {
			return Program{}, ErrRingRequired
		}
	default:
		return Program{}, ErrUnknownMerge
	}
	res := opts.Resolution
	if res <= 0 {
		res = 1e-3
	}

	out := Program{
		Time:  append([]float64(nil), segments[0].Time...),
		Value: append([]float64(nil), segments[0].Value...),
	}
	for _, s := range segments[1:] {
		tStart := out.Time[len(out.Time)-1]
		tEnd := s.Time[0]
		vInit := out.Value[len(out.Value)-1]
		vFin := s.Value[0]

		ts, vs, err := bridge(tStart, tEnd, vInit, vFin, res, opts)
		if err != nil {
			return Program{}, err
		}
		// The bridge endpoints duplicate the segment boundaries.
		out.Time = append(out.Time, ts[1:len(ts)-1]...)
		out.Value = append(out.Value, vs[1:len(vs)-1]...)
		out.Time = append(out.Time, s.Time...)
		out.Value = append(out.Value, s.Value...)
	}
	return out, nil
}

func bridge(tStart, tEnd, vInit, vFin, res float64, opts CombineOptions) ([]float64, []float64, error) {
	n := int((tEnd-tStart)/res) + 1
	if n < 3 {
		n = 3
	}
	ts := numeric.Linspace(tStart, tEnd, n)
	vs := make([]float64, n)

	switch opts.Mode {
	case MergeLinear:
		for i, t := range ts {
			vs[i] = vInit + (vFin-vInit)*(t-tStart)/(tEnd-tStart)
		}

	case MergeIsoadiabatic:
		if vInit <= 0 || vFin <= 0 {
			return nil, nil, ErrBadSegmentValue
		}
		k := (1 - math.Sqrt(vInit/vFin)) / (tEnd - tStart)
		for i, t := range ts {
			d := 1 - k*(t-tStart)
			vs[i] = vInit / (d * d)
		}

	case MergeLinearTune:
		if vInit <= 0 || vFin <= 0 {
			return nil, nil, ErrBadSegmentValue
		}
		ring := opts.Ring
		q := math.Abs(ring.Particle.Charge)
		tune := func(t, v float64) float64 {
			b := numeric.Interp(t, ring.CycleTime, ring.Beta)
			e := numeric.Interp(t, ring.CycleTime, ring.Energy)
			slip := math.Abs(numeric.Interp(t, ring.CycleTime, ring.Eta0))
			return math.Sqrt(opts.Harmonic * q * v * slip / (2 * math.Pi * b * b * e))
		}
		qInit := tune(tStart, vInit)
		qFin := tune(tEnd, vFin)
		for i, t := range ts {
			qs := qInit + (qFin-qInit)*(t-tStart)/(tEnd-tStart)
			b := numeric.Interp(t, ring.CycleTime, ring.Beta)
			e := numeric.Interp(t, ring.CycleTime, ring.Energy)
			slip := math.Abs(numeric.Interp(t, ring.CycleTime, ring.Eta0))
			vs[i] = qs * qs * 2 * math.Pi * b * b * e / (opts.Harmonic * q * slip)
		}
	}
	return ts, vs, nil
}
