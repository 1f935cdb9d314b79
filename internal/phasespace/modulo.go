package phasespace

import "math"

// PhaseModuloBelow folds phases into [-pi, pi), the bucket frame below
// transition. Returns a fresh slice.
func PhaseModuloBelow(phi []float64) []float64 {
	out := make([]float64, len(phi))
	for i, p := range phi {
		out[i] = p - 2*math.Pi*math.Floor(p/(2*math.Pi)+0.5)
	}
	return out
}

// PhaseModuloAbove folds phases into [0, 2pi), the bucket frame above
// transition. Returns a fresh slice.
func PhaseModuloAbove(phi []float64) []float64 {
	out := make([]float64, len(phi))
	for i, p := range phi {
		out[i] = p - 2*math.Pi*math.Floor(p/(2*math.Pi))
	}
	return out
}

// TimeModulo folds arrival times into one period of length period anchored
// by offset: the result lies in [-offset, period-offset). Returns a fresh
// slice.
func TimeModulo(dt []float64, offset, period float64) []float64 {
	out := make([]float64, len(dt))
	for i, t := range dt {
		out[i] = t - period*math.Floor((t+offset)/period)
	}
	return out
}
