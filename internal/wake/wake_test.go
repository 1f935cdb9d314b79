package wake

import (
	"math"
	"testing"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/machine"
)

func TestNewValidation(t *testing.T) {
	if _, err := New([]float64{0, 1}, []float64{0}); err != ErrTableShape {
		t.Errorf("expected ErrTableShape, got %v", err)
	}
	if _, err := New([]float64{0}, []float64{0}); err != ErrTableShape {
		t.Errorf("expected ErrTableShape, got %v", err)
	}
	if _, err := New([]float64{0, 2, 1}, []float64{0, 0, 0}); err != ErrUnsorted {
		t.Errorf("expected ErrUnsorted, got %v", err)
	}
	if _, err := New([]float64{0, 1, 2}, []float64{1, 2, 3}); err != nil {
		t.Errorf("expected valid table, got %v", err)
	}
}

func TestAtInsideAndOutside(t *testing.T) {
	iv, err := New([]float64{0, 1, 2}, []float64{0, 10, 0})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if v := iv.At(0.5); math.Abs(v-5) > 1e-12 {
		t.Errorf("expected 5, got %f", v)
	}
	if v := iv.At(-1); v != 0 {
		t.Errorf("expected zero outside the window, got %f", v)
	}
	if v := iv.At(3); v != 0 {
		t.Errorf("expected zero outside the window, got %f", v)
	}
}

func TestPotentialIntegratesTable(t *testing.T) {
	iv, err := New([]float64{0, 1, 2}, []float64{1, 1, 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tm, pot := iv.Potential(-2)
	if len(tm) != 3 || len(pot) != 3 {
		t.Fatalf("expected 3 samples, got %d and %d", len(tm), len(pot))
	}
	// Constant 1 V integrated over [0, 2] with factor +2.
	if math.Abs(pot[2]-4) > 1e-12 {
		t.Errorf("expected 4, got %f", pot[2])
	}
	if pot[0] != 0 {
		t.Errorf("expected zero at the origin, got %f", pot[0])
	}
}

func TestTrackGhostsKicksProbes(t *testing.T) {
	ring, err := machine.NewRing(6911.5, 1.0/18.0, machine.ConstProgram(25.92e9, 2), machine.Proton())
	if err != nil {
		t.Fatalf("NewRing failed: %v", err)
	}
	iv, err := New([]float64{0, 1e-9, 2e-9}, []float64{0, 1e6, 0})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := beam.New(ring, 2, 0)
	if err != nil {
		t.Fatalf("beam failed: %v", err)
	}
	b.Dt[0] = 1e-9
	b.Dt[1] = 5e-9
	if err := iv.TrackGhosts(b); err != nil {
		t.Fatalf("TrackGhosts failed: %v", err)
	}
	if math.Abs(b.DE[0]-1e6) > 1e-3 {
		t.Errorf("expected 1e6 eV kick, got %f", b.DE[0])
	}
	if b.DE[1] != 0 {
		t.Errorf("expected no kick outside the window, got %f", b.DE[1])
	}
}
