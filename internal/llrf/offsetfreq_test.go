package llrf

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/synchro/internal/machine"
)

func offsetStation(t *testing.T, nTurns int) *machine.RFStation {
	t.Helper()
	ring, err := machine.NewRing(6911.56, 1.0/(18.0*18.0), machine.ConstProgram(25.92e9, nTurns), machine.Proton())
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	rf, err := machine.NewRFStation(ring,
		[][]float64{machine.ConstProgram(4620, nTurns)},
		[][]float64{machine.ConstProgram(0.9e6, nTurns)},
		[][]float64{machine.ConstProgram(0, nTurns)})
	if err != nil {
		t.Fatalf("NewRFStation: %v", err)
	}
	return rf
}

func TestFixedFrequencyProgram(t *testing.T) {
	rf := offsetStation(t, 100)
	ct := rf.Ring.CycleTime
	design := rf.OmegaRF[0][0]
	fixedFreq := 0.9999 * design / (2 * math.Pi)
	porch := 0.5 * (ct[20] + ct[21])
	trans := 30 * (ct[1] - ct[0])

	f, err := NewFixedFrequency(rf, fixedFreq, porch, trans, quietLogger())
	if err != nil {
		t.Fatalf("NewFixedFrequency: %v", err)
	}
	if f.EndFixed <= 0 || f.EndFixed > f.EndTransition || f.EndTransition >= len(ct) {
		t.Fatalf("unexpected window turns %d and %d", f.EndFixed, f.EndTransition)
	}

	omegaFixed := 2 * math.Pi * fixedFreq
	for i := 0; i < f.EndFixed; i++ {
		if f.OmegaProg[i] != omegaFixed {
			t.Fatalf("turn %d: expected the pinned frequency %g, got %g", i, omegaFixed, f.OmegaProg[i])
		}
	}
	for i := f.EndTransition; i < len(ct); i++ {
		if f.OmegaProg[i] != rf.OmegaRF[0][i] {
			t.Fatalf("turn %d: expected the design frequency, got %g", i, f.OmegaProg[i])
		}
	}
	for i := f.EndFixed; i < f.EndTransition; i++ {
		if f.OmegaProg[i+1] < f.OmegaProg[i] {
			t.Fatalf("turn %d: blend toward a higher design frequency should not decrease", i)
		}
	}
}

func TestFixedFrequencyPhaseSlip(t *testing.T) {
	rf := offsetStation(t, 100)
	ct := rf.Ring.CycleTime
	design := rf.OmegaRF[0][0]
	fixedFreq := 0.9999 * design / (2 * math.Pi)
	porch := 0.5 * (ct[20] + ct[21])
	trans := 30 * (ct[1] - ct[0])

	f, err := NewFixedFrequency(rf, fixedFreq, porch, trans, quietLogger())
	if err != nil {
		t.Fatalf("NewFixedFrequency: %v", err)
	}

	// below the design frequency the wave slips forward each porch turn
	omegaFixed := 2 * math.Pi * fixedFreq
	perTurn := -2 * math.Pi * 4620 * (omegaFixed - design) / design
	if perTurn <= 0 {
		t.Fatal("expected a positive per-turn slip for a pinned-low frequency")
	}
	want := 11 * perTurn
	if math.Abs(f.PhiShift[10]-want) > 1e-9*want {
		t.Errorf("turn 10: expected accumulated slip %g, got %g", want, f.PhiShift[10])
	}
	for i := f.EndTransition; i < len(ct); i++ {
		if f.PhiShift[i] != f.PhiShift[f.EndTransition] {
			t.Fatalf("turn %d: slip should freeze once on the design program", i)
		}
	}
}

func TestFixedFrequencyApply(t *testing.T) {
	rf := offsetStation(t, 100)
	design := rf.OmegaRF[0][0]
	fixedFreq := 0.9999 * design / (2 * math.Pi)

	f, err := NewFixedFrequency(rf, fixedFreq, 5e-4, 5e-4, quietLogger())
	if err != nil {
		t.Fatalf("NewFixedFrequency: %v", err)
	}
	if err := f.Apply(rf); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rf.OmegaRF[0][0] != 2*math.Pi*fixedFreq {
		t.Errorf("expected the pinned frequency applied at turn 0, got %g", rf.OmegaRF[0][0])
	}
	if rf.PhiRF[0][10] != f.PhiShift[10] {
		t.Errorf("expected the slip folded into the phase program, got %g", rf.PhiRF[0][10])
	}

	other := offsetStation(t, 10)
	if err := f.Apply(other); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestFixedFrequencyValidation(t *testing.T) {
	rf := offsetStation(t, 20)
	ct := rf.Ring.CycleTime
	if _, err := NewFixedFrequency(rf, 0, 1e-4, 1e-4, quietLogger()); !errors.Is(err, ErrBadFrequency) {
		t.Errorf("expected ErrBadFrequency, got %v", err)
	}
	if _, err := NewFixedFrequency(rf, 2e8, -1e-4, 1e-4, quietLogger()); !errors.Is(err, ErrBadDuration) {
		t.Errorf("expected ErrBadDuration, got %v", err)
	}
	if _, err := NewFixedFrequency(rf, 2e8, ct[len(ct)-1]+1, 0, quietLogger()); !errors.Is(err, ErrCycleTooShort) {
		t.Errorf("expected ErrCycleTooShort, got %v", err)
	}
}
