package llrf

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// butterworthOrder is the fixed design order of [LowPassFilter].
const butterworthOrder = 5

// LowPassFilter smooths a real signal with a 5th-order Butterworth low-pass
// run forward and backward, so the result is zero-phase. cutoff is the -3 dB
// frequency as a fraction of Nyquist, strictly inside (0, 1). The signal
// must be longer than the reflected edge padding (18 samples).
func LowPassFilter(signal []float64, cutoff float64) ([]float64, error) {
	if cutoff <= 0 || cutoff >= 1 {
		return nil, ErrBadCutoff
	}
	b, a := butterworth(butterworthOrder, cutoff)
	return filtFilt(b, a, signal)
}

// butterworth designs a digital low-pass of the given order by the bilinear
// transform of the analog Butterworth prototype, with the cutoff pre-warped.
// Coefficients come back with a[0] = 1.
func butterworth(order int, cutoff float64) (b, a []float64) {
	warped := 4 * math.Tan(math.Pi*cutoff/2)

	poles := make([]complex128, order)
	for i := 0; i < order; i++ {
		theta := math.Pi * float64(2*i+1-order) / float64(2*order)
		poles[i] = complex(warped, 0) * -cmplx.Exp(complex(0, theta))
	}
	gain := math.Pow(warped, float64(order))

	// map poles into z, all zeros land on z = -1
	const fs2 = 4.0
	zPoles := make([]complex128, order)
	den := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
		den *= complex(fs2, 0) - p
	}
	gainZ := real(complex(gain, 0) / den)

	minusOnes := make([]complex128, order)
	for i := range minusOnes {
		minusOnes[i] = -1
	}
	b = realPoly(minusOnes)
	for i := range b {
		b[i] *= gainZ
	}
	a = realPoly(zPoles)
	return b, a
}

// realPoly expands prod(z - r) over the given roots and drops the imaginary
// rounding residue. Roots must come in conjugate pairs or be real.
func realPoly(roots []complex128) []float64 {
	coeff := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coeff)+1)
		for i, c := range coeff {
			next[i] += c
			next[i+1] -= c * r
		}
		coeff = next
	}
	out := make([]float64, len(coeff))
	for i, c := range coeff {
		out[i] = real(c)
	}
	return out
}

// stepInitialState solves for the direct-form-II-transposed state that makes
// the filter already settled on a unit step, so transients vanish at the
// edges when scaled by the first sample.
func stepInitialState(b, a []float64) ([]float64, error) {
	m := len(a) - 1
	sys := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		sys.Set(i, 0, a[i+1])
		if i+1 < m {
			sys.Set(i, i+1, -1)
		}
	}
	sys.Set(0, 0, 1+a[1])
	for i := 1; i < m; i++ {
		sys.Set(i, i, 1)
	}
	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}
	var zi mat.VecDense
	if err := zi.SolveVec(sys, rhs); err != nil {
		return nil, err
	}
	out := make([]float64, m)
	for i := range out {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

// lfilter runs the filter once over x with the given initial state, in
// direct form II transposed.
func lfilter(b, a, x, zi []float64) []float64 {
	m := len(zi)
	z := append([]float64(nil), zi...)
	y := make([]float64, len(x))
	for n, xn := range x {
		yn := b[0]*xn + z[0]
		for i := 0; i < m-1; i++ {
			z[i] = b[i+1]*xn + z[i+1] - a[i+1]*yn
		}
		z[m-1] = b[m]*xn - a[m]*yn
		y[n] = yn
	}
	return y
}

// filtFilt applies the filter forward and backward over x extended by odd
// reflection at both ends, with settled initial conditions at each pass.
func filtFilt(b, a, x []float64) ([]float64, error) {
	edge := 3 * len(a)
	if len(x) <= edge {
		return nil, ErrTooShort
	}
	ext := make([]float64, 0, len(x)+2*edge)
	for i := edge; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	last := len(x) - 1
	for i := 1; i <= edge; i++ {
		ext = append(ext, 2*x[last]-x[last-i])
	}

	zi, err := stepInitialState(b, a)
	if err != nil {
		return nil, err
	}
	scaled := func(s float64) []float64 {
		out := make([]float64, len(zi))
		for i, z := range zi {
			out[i] = z * s
		}
		return out
	}

	y := lfilter(b, a, ext, scaled(ext[0]))
	floats.Reverse(y)
	y = lfilter(b, a, y, scaled(y[0]))
	floats.Reverse(y)
	return y[edge : edge+len(x)], nil
}

// MovingAverage is the cumulative-sum boxcar mean over the given window.
// With prev, the window-1 trailing samples of the previous block are carried
// in front so the result keeps the length of x across block boundaries.
// Without prev it returns the len(x)-window+1 fully covered positions.
func MovingAverage(x []float64, window int, prev []float64) ([]float64, error) {
	if window < 1 {
		return nil, ErrBadWindow
	}
	if prev != nil && len(prev) != window-1 {
		return nil, ErrLengthMismatch
	}
	full := x
	if prev != nil {
		full = make([]float64, 0, len(prev)+len(x))
		full = append(full, prev...)
		full = append(full, x...)
	}
	if len(full) < window {
		return nil, ErrTooShort
	}
	cum := make([]float64, len(full))
	floats.CumSum(cum, full)
	out := make([]float64, len(full)-window+1)
	out[0] = cum[window-1] / float64(window)
	for i := 1; i < len(out); i++ {
		out[i] = (cum[i+window-1] - cum[i-1]) / float64(window)
	}
	return out, nil
}
