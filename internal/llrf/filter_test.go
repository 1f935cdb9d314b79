package llrf

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

func TestLowPassFilterKeepsDC(t *testing.T) {
	signal := make([]float64, 100)
	for i := range signal {
		signal[i] = 3.5
	}
	out, err := LowPassFilter(signal, 0.3)
	if err != nil {
		t.Fatalf("LowPassFilter: %v", err)
	}
	for i, v := range out {
		if math.Abs(v-3.5) > 1e-9 {
			t.Fatalf("sample %d: constant input should pass unchanged, got %g", i, v)
		}
	}
}

func TestLowPassFilterSelectivity(t *testing.T) {
	const (
		n       = 1024
		lowBin  = 51
		highBin = 461
	)
	signal := make([]float64, n)
	for i := range signal {
		x := float64(i)
		signal[i] = math.Sin(2*math.Pi*lowBin*x/n) + math.Sin(2*math.Pi*highBin*x/n)
	}
	out, err := LowPassFilter(signal, 0.5)
	if err != nil {
		t.Fatalf("LowPassFilter: %v", err)
	}
	if len(out) != n {
		t.Fatalf("expected %d samples, got %d", n, len(out))
	}
	spectrum := fft.FFTReal(out)
	if mag := cmplx.Abs(spectrum[lowBin]); mag < 0.9*n/2 {
		t.Errorf("expected the low tone to pass, magnitude %f of %d", mag, n/2)
	}
	if mag := cmplx.Abs(spectrum[highBin]); mag > 5 {
		t.Errorf("expected the high tone suppressed, magnitude %f", mag)
	}
}

func TestLowPassFilterValidation(t *testing.T) {
	short := make([]float64, 18)
	if _, err := LowPassFilter(short, 0.5); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort at the padding length, got %v", err)
	}
	ok := make([]float64, 30)
	for _, cutoff := range []float64{0, 1, -0.5, 1.5} {
		if _, err := LowPassFilter(ok, cutoff); !errors.Is(err, ErrBadCutoff) {
			t.Errorf("cutoff %g: expected ErrBadCutoff, got %v", cutoff, err)
		}
	}
}

func TestButterworthDCGain(t *testing.T) {
	b, a := butterworth(butterworthOrder, 0.2)
	if len(b) != butterworthOrder+1 || len(a) != butterworthOrder+1 {
		t.Fatalf("expected %d coefficients, got %d and %d", butterworthOrder+1, len(b), len(a))
	}
	if a[0] != 1 {
		t.Fatalf("expected a normalized to a[0]=1, got %g", a[0])
	}
	var sumB, sumA float64
	for i := range b {
		sumB += b[i]
		sumA += a[i]
	}
	if math.Abs(sumB/sumA-1) > 1e-9 {
		t.Errorf("expected unit DC gain, got %g", sumB/sumA)
	}
}

func TestMovingAverage(t *testing.T) {
	out, err := MovingAverage([]float64{1, 2, 3, 4, 5}, 3, nil)
	if err != nil {
		t.Fatalf("MovingAverage: %v", err)
	}
	want := []float64{2, 3, 4}
	if len(out) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: expected %g, got %g", i, want[i], out[i])
		}
	}

	ident, err := MovingAverage([]float64{1.5, 2.5}, 1, nil)
	if err != nil {
		t.Fatalf("MovingAverage window 1: %v", err)
	}
	if ident[0] != 1.5 || ident[1] != 2.5 {
		t.Errorf("window 1 should return the signal, got %v", ident)
	}
}

func TestMovingAverageCarry(t *testing.T) {
	out, err := MovingAverage([]float64{3, 4, 5}, 3, []float64{1, 2})
	if err != nil {
		t.Fatalf("MovingAverage: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("carried average should keep the block length, got %d", len(out))
	}
	want := []float64{2, 3, 4}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("sample %d: expected %g, got %g", i, want[i], out[i])
		}
	}
}

func TestMovingAverageValidation(t *testing.T) {
	if _, err := MovingAverage([]float64{1, 2}, 0, nil); !errors.Is(err, ErrBadWindow) {
		t.Errorf("expected ErrBadWindow, got %v", err)
	}
	if _, err := MovingAverage([]float64{1, 2}, 3, []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := MovingAverage([]float64{1, 2}, 3, nil); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}
