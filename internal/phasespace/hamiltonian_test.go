package phasespace

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/synchro/internal/machine"
)

func TestHamiltonianZeroAtSynchronousPoint(t *testing.T) {
	rf := testStation(t, 1, 0.9e6, 0)
	// above transition the stable phase is pi, half an RF period in
	dts := math.Pi / rf.OmegaRF[0][0]

	h, err := Hamiltonian(rf, []float64{dts}, []float64{0}, nil, nil)
	if err != nil {
		t.Fatalf("Hamiltonian: %v", err)
	}
	if math.Abs(h[0]) > 1e-3 {
		t.Errorf("expected zero at the synchronous point, got %e", h[0])
	}
}

func TestHamiltonianQuadraticInEnergy(t *testing.T) {
	rf := testStation(t, 1, 0.9e6, 0)
	dts := math.Pi / rf.OmegaRF[0][0]

	h, err := Hamiltonian(rf, []float64{dts, dts}, []float64{1e6, 2e6}, nil, nil)
	if err != nil {
		t.Fatalf("Hamiltonian: %v", err)
	}
	if math.Abs(h[1]/h[0]-4) > 1e-6 {
		t.Errorf("expected quadratic scaling, got ratio %f", h[1]/h[0])
	}
}

func TestHamiltonianVoltageOverride(t *testing.T) {
	rf := testStation(t, 1, 0.9e6, 0)
	dt := []float64{1e-10}
	de := []float64{0}

	base, err := Hamiltonian(rf, dt, de, nil, nil)
	if err != nil {
		t.Fatalf("Hamiltonian: %v", err)
	}
	doubled, err := Hamiltonian(rf, dt, de, []float64{1.8e6, 1.8e6}, nil)
	if err != nil {
		t.Fatalf("Hamiltonian: %v", err)
	}
	if math.Abs(doubled[0]/base[0]-2) > 1e-9 {
		t.Errorf("expected the override to double the potential term, got ratio %f", doubled[0]/base[0])
	}
}

func TestHamiltonianMultiSystemWarns(t *testing.T) {
	nTurns := 1
	ring, err := machine.NewRing(6911.56, 1.0/(18.0*18.0), machine.ConstProgram(25.92e9, nTurns), machine.Proton())
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	rf, err := machine.NewRFStation(ring,
		[][]float64{machine.ConstProgram(4620, nTurns), machine.ConstProgram(9240, nTurns)},
		[][]float64{machine.ConstProgram(0.9e6, nTurns), machine.ConstProgram(0.2e6, nTurns)},
		[][]float64{machine.ConstProgram(0, nTurns), machine.ConstProgram(math.Pi, nTurns)})
	if err != nil {
		t.Fatalf("NewRFStation: %v", err)
	}

	var diag Diag
	if _, err := Hamiltonian(rf, []float64{0}, []float64{0}, nil, &diag); err != nil {
		t.Fatalf("Hamiltonian: %v", err)
	}
	if !diag.HasWarnings() {
		t.Error("expected a warning for the multi-system approximation")
	}
}

func TestHamiltonianLengthMismatch(t *testing.T) {
	rf := testStation(t, 1, 0.9e6, 0)
	if _, err := Hamiltonian(rf, []float64{0, 1}, []float64{0}, nil, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := IsInSeparatrix(rf, []float64{0, 1}, []float64{0}, nil, nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestIsInSeparatrix(t *testing.T) {
	rf := testStation(t, 1, 0.9e6, 0)
	dts := math.Pi / rf.OmegaRF[0][0]

	// half height of the stationary bucket
	ring := rf.Ring
	q := ring.Particle.Charge
	betaSq := ring.Beta[0] * ring.Beta[0]
	halfHeight := math.Sqrt(2 * betaSq * ring.Energy[0] * q * 0.9e6 / (math.Pi * ring.Eta0[0] * 4620))

	dt := []float64{dts, dts, dts}
	de := []float64{0, 0.5 * halfHeight, 2 * halfHeight}
	in, err := IsInSeparatrix(rf, dt, de, nil, nil)
	if err != nil {
		t.Fatalf("IsInSeparatrix: %v", err)
	}
	if !in[0] {
		t.Error("expected the synchronous particle inside the bucket")
	}
	if !in[1] {
		t.Error("expected the half-height particle inside the bucket")
	}
	if in[2] {
		t.Error("expected the double-height particle outside the bucket")
	}
}
