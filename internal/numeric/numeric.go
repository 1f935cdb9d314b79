// Package numeric provides the small set of array helpers shared by the
// analysis packages: grid construction, clamped linear interpolation,
// cumulative integration and finite differences.
package numeric

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Linspace returns n equally spaced points covering [start, stop], both
// endpoints included.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, stop)
}

// Interp evaluates the piecewise-linear function through (xs, ys) at x.
// xs must be ascending; ties are tolerated. Queries outside the range clamp
// to the edge values.
func Interp(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	t := (x - xs[i-1]) / (xs[i] - xs[i-1])
	return ys[i-1] + t*(ys[i]-ys[i-1])
}

// InterpOutside is Interp with explicit left and right values outside the
// fitted range instead of clamping.
func InterpOutside(x float64, xs, ys []float64, left, right float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	if x < xs[0] {
		return left
	}
	if x > xs[n-1] {
		return right
	}
	return Interp(x, xs, ys)
}

// InterpSlice evaluates Interp at every point of xq.
func InterpSlice(xq, xs, ys []float64) []float64 {
	out := make([]float64, len(xq))
	for i, x := range xq {
		out[i] = Interp(x, xs, ys)
	}
	return out
}

// CumTrapz integrates y on a uniform grid with spacing dx by the trapezoid
// rule. The result has the same length as y with a leading zero, so that
// out[i] is the integral from y[0] to y[i].
func CumTrapz(y []float64, dx float64) []float64 {
	out := make([]float64, len(y))
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + 0.5*dx*(y[i]+y[i-1])
	}
	return out
}

// CumTrapzXY is CumTrapz on a possibly non-uniform grid x.
func CumTrapzXY(x, y []float64) []float64 {
	out := make([]float64, len(y))
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + 0.5*(x[i]-x[i-1])*(y[i]+y[i-1])
	}
	return out
}

// Gradient returns finite differences of f on a unit grid: central in the
// interior, one-sided at the edges. Same length as f.
func Gradient(f []float64) []float64 {
	n := len(f)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	out[0] = f[1] - f[0]
	out[n-1] = f[n-1] - f[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = 0.5 * (f[i+1] - f[i-1])
	}
	return out
}

// ConvolveValid returns the valid-mode discrete convolution of a with
// kernel v: only positions where the kernel fully overlaps a, length
// len(a)-len(v)+1. len(v) must not exceed len(a).
func ConvolveValid(a, v []float64) []float64 {
	n, m := len(a), len(v)
	if m == 0 || m > n {
		return nil
	}
	out := make([]float64, n-m+1)
	for k := range out {
		var s float64
		for j := 0; j < m; j++ {
			s += a[k+j] * v[m-1-j]
		}
		out[k] = s
	}
	return out
}

// Boxcar returns a normalized averaging kernel of width n.
func Boxcar(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1 / float64(n)
	}
	return v
}

// Reverse reverses x in place and returns it.
func Reverse(x []float64) []float64 {
	floats.Reverse(x)
	return x
}
