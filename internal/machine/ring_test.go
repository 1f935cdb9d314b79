package machine

import (
	"errors"
	"math"
	"testing"
)

func TestNewRingKinematics(t *testing.T) {
	c := 2 * math.Pi * 100.0
	p := 25.92e9
	ring, err := NewRing(c, 0.027, []float64{p}, Proton())
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}

	m := Proton().Mass
	wantE := math.Sqrt(p*p + m*m)
	if math.Abs(ring.Energy[0]-wantE)/wantE > 1e-12 {
		t.Errorf("expected energy %e, got %e", wantE, ring.Energy[0])
	}
	if math.Abs(ring.Beta[0]-p/wantE) > 1e-12 {
		t.Errorf("expected beta %f, got %f", p/wantE, ring.Beta[0])
	}
	wantTRev := c / (ring.Beta[0] * SpeedOfLight)
	if math.Abs(ring.TRev[0]-wantTRev)/wantTRev > 1e-12 {
		t.Errorf("expected t_rev %e, got %e", wantTRev, ring.TRev[0])
	}
	if ring.Eta0[0] <= 0 {
		t.Errorf("expected positive slip factor above transition, got %e", ring.Eta0[0])
	}
	if math.Abs(ring.Radius-100.0) > 1e-9 {
		t.Errorf("expected radius 100, got %f", ring.Radius)
	}
}

func TestNewRingBelowTransition(t *testing.T) {
	ring, err := NewRing(2*math.Pi*25, 0.027, []float64{1.0e9}, Proton())
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	if ring.Eta0[0] >= 0 {
		t.Errorf("expected negative slip factor below transition, got %e", ring.Eta0[0])
	}
}

func TestNewRingAccelerationProgram(t *testing.T) {
	mom := []float64{25.92e9, 25.93e9, 25.94e9}
	ring, err := NewRing(2*math.Pi*100, 0.027, mom, Proton())
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}

	if ring.NTurns != 2 {
		t.Fatalf("expected 2 turns, got %d", ring.NTurns)
	}
	wantGain := ring.Energy[1] - ring.Energy[0]
	if math.Abs(ring.EnergyGain[0]-wantGain) > 1e-6 {
		t.Errorf("expected gain %e, got %e", wantGain, ring.EnergyGain[0])
	}
	if ring.CycleTime[0] != 0 {
		t.Errorf("expected cycle time 0 at first turn, got %e", ring.CycleTime[0])
	}
	if math.Abs(ring.CycleTime[1]-ring.TRev[0]) > 1e-18 {
		t.Errorf("expected cycle time %e, got %e", ring.TRev[0], ring.CycleTime[1])
	}
	// saturating accessors read the last programmed value
	if ring.EnergyGainAt(99) != ring.EnergyGain[1] {
		t.Error("expected energy gain lookup to saturate at the program end")
	}
}

func TestNewRingValidation(t *testing.T) {
	if _, err := NewRing(0, 0.027, []float64{1e9}, Proton()); !errors.Is(err, ErrBadCircumference) {
		t.Errorf("expected ErrBadCircumference, got %v", err)
	}
	if _, err := NewRing(100, 0.027, nil, Proton()); !errors.Is(err, ErrEmptyProgram) {
		t.Errorf("expected ErrEmptyProgram, got %v", err)
	}
	if _, err := NewRing(100, 0.027, []float64{-1}, Proton()); !errors.Is(err, ErrBadMomentum) {
		t.Errorf("expected ErrBadMomentum, got %v", err)
	}
	if _, err := NewRing(100, 0.027, []float64{1e9}, Particle{}); !errors.Is(err, ErrBadParticle) {
		t.Errorf("expected ErrBadParticle, got %v", err)
	}
}

func TestConstProgram(t *testing.T) {
	p := ConstProgram(6e6, 10)
	if len(p) != 11 {
		t.Fatalf("expected 11 values, got %d", len(p))
	}
	for _, v := range p {
		if v != 6e6 {
			t.Fatalf("expected flat 6e6, got %f", v)
		}
	}
}
