package phasespace

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/machine"
	"github.com/san-kum/synchro/internal/numeric"
	"github.com/san-kum/synchro/internal/tracking"
)

type noopAdvancer struct{ turns int }

func (a *noopAdvancer) Track() error {
	a.turns++
	return nil
}

type countingGhosts struct{ calls int }

func (g *countingGhosts) TrackGhosts(*beam.Beam) error {
	g.calls++
	return nil
}

func trackerBeam(t *testing.T, nTurns, n int) *beam.Beam {
	t.Helper()
	ring, err := machine.NewRing(6911.56, 1.0/(18.0*18.0), machine.ConstProgram(25.92e9, nTurns), machine.Proton())
	if err != nil {
		t.Fatalf("NewRing: %v", err)
	}
	b, err := beam.New(ring, n, 0)
	if err != nil {
		t.Fatalf("beam: %v", err)
	}
	return b
}

func TestNewFrequencyTrackerPlacement(t *testing.T) {
	b := trackerBeam(t, 10, 5)
	b.DE[2] = 123 // must be reset

	ft, err := NewFrequencyTracker(&noopAdvancer{}, b, 10, []float64{1e-4, 2e-4}, nil)
	if err != nil {
		t.Fatalf("NewFrequencyTracker: %v", err)
	}
	if ft.TimeStep != b.Ring.TRev[0] {
		t.Errorf("expected the revolution period as time step, got %e", ft.TimeStep)
	}
	if len(ft.ThetaSave) != 11 || len(ft.DESave) != 11 {
		t.Fatalf("expected 11 history rows, got %d and %d", len(ft.ThetaSave), len(ft.DESave))
	}

	want := numeric.Linspace(1e-4, 2e-4, 5)
	for i, v := range ft.ThetaSave[0] {
		if math.Abs(v-want[i])/want[i] > 1e-12 {
			t.Errorf("probe %d: expected theta %e, got %e", i, want[i], v)
		}
	}
	for i, v := range ft.DESave[0] {
		if v != 0 {
			t.Errorf("probe %d: expected zero energy offset, got %e", i, v)
		}
	}
}

func TestNewFrequencyTrackerPerProbePlacement(t *testing.T) {
	b := trackerBeam(t, 4, 3)
	theta := []float64{3e-4, 1e-4, 2e-4}
	ft, err := NewFrequencyTracker(&noopAdvancer{}, b, 4, theta, nil)
	if err != nil {
		t.Fatalf("NewFrequencyTracker: %v", err)
	}
	for i := range theta {
		if math.Abs(ft.ThetaSave[0][i]-theta[i])/theta[i] > 1e-12 {
			t.Errorf("probe %d: expected theta %e, got %e", i, theta[i], ft.ThetaSave[0][i])
		}
	}

	if _, err := NewFrequencyTracker(&noopAdvancer{}, b, 4, []float64{1, 2, 3, 4}, nil); !errors.Is(err, ErrBadThetaRange) {
		t.Errorf("expected ErrBadThetaRange, got %v", err)
	}
}

func TestFrequencyTrackerHistoryFull(t *testing.T) {
	b := trackerBeam(t, 2, 2)
	adv := &noopAdvancer{}
	ft, err := NewFrequencyTracker(adv, b, 2, []float64{1e-4, 2e-4}, nil)
	if err != nil {
		t.Fatalf("NewFrequencyTracker: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := ft.Track(); err != nil {
			t.Fatalf("Track %d: %v", i, err)
		}
	}
	if err := ft.Track(); !errors.Is(err, ErrHistoryFull) {
		t.Errorf("expected ErrHistoryFull, got %v", err)
	}
	if adv.turns != 2 {
		t.Errorf("expected 2 advanced turns, got %d", adv.turns)
	}
	if ft.Turn() != 2 {
		t.Errorf("expected turn counter 2, got %d", ft.Turn())
	}
}

func TestFrequencyTrackerGhostKicks(t *testing.T) {
	b := trackerBeam(t, 5, 2)
	ghosts := &countingGhosts{}
	ft, err := NewFrequencyTracker(&noopAdvancer{}, b, 5, []float64{1e-4, 2e-4}, ghosts)
	if err != nil {
		t.Fatalf("NewFrequencyTracker: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := ft.Track(); err != nil {
			t.Fatalf("Track %d: %v", i, err)
		}
	}
	if ghosts.calls != 3 {
		t.Errorf("expected 3 ghost kicks, got %d", ghosts.calls)
	}
}

func TestFrequencyCalculationTurnRange(t *testing.T) {
	b := trackerBeam(t, 4, 2)
	ft, err := NewFrequencyTracker(&noopAdvancer{}, b, 4, []float64{1e-4, 2e-4}, nil)
	if err != nil {
		t.Fatalf("NewFrequencyTracker: %v", err)
	}
	if _, err := ft.FrequencyCalculation(0, 3, 2); !errors.Is(err, ErrTurnRange) {
		t.Errorf("expected ErrTurnRange, got %v", err)
	}
	if _, err := ft.FrequencyCalculation(0, -1, 0); !errors.Is(err, ErrTurnRange) {
		t.Errorf("expected ErrTurnRange, got %v", err)
	}
	if _, err := ft.FrequencyCalculation(0, 0, 99); !errors.Is(err, ErrTurnRange) {
		t.Errorf("expected ErrTurnRange, got %v", err)
	}
}

func TestFrequencyCalculationMeasuresSynchrotronTone(t *testing.T) {
	nTurns := 2000
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
	b, err := beam.New(ring, 5, 0)
	if err != nil {
		t.Fatalf("beam: %v", err)
	}
	fr := tracking.New(ring, rf, b)

	// probe fan around the bucket center at theta = pi/h
	thetaC := math.Pi / 4620
	ft, err := NewFrequencyTracker(fr, b, nTurns, []float64{0.9 * thetaC, 1.1 * thetaC}, nil)
	if err != nil {
		t.Fatalf("NewFrequencyTracker: %v", err)
	}
	for i := 0; i < nTurns; i++ {
		if err := ft.Track(); err != nil {
			t.Fatalf("Track %d: %v", i, err)
		}
	}

	res, err := ft.FrequencyCalculation(131072, 0, 0)
	if err != nil {
		t.Fatalf("FrequencyCalculation: %v", err)
	}

	binWidth := 1 / (131072 * ft.TimeStep)
	if math.Abs(res.FrequencyAxis[1]-binWidth) > 1e-9*binWidth {
		t.Errorf("expected bin width %e, got %e", binWidth, res.FrequencyAxis[1])
	}

	fs0 := smallAmplitudeFrequency(rf)
	for _, p := range []int{1, 3} {
		if math.Abs(res.FrequencyTheta[p]-fs0)/fs0 > 0.02 {
			t.Errorf("probe %d: expected tone near %f from theta, got %f", p, fs0, res.FrequencyTheta[p])
		}
		if math.Abs(res.FrequencyDE[p]-fs0)/fs0 > 0.02 {
			t.Errorf("probe %d: expected tone near %f from energy, got %f", p, fs0, res.FrequencyDE[p])
		}
	}

	// the outermost probes touch the initial extent and count as lost
	for _, p := range []int{0, 4} {
		if res.FrequencyTheta[p] != 0 || res.FrequencyDE[p] != 0 {
			t.Errorf("probe %d: expected zero frequencies for a lost probe", p)
		}
	}

	// excursions stay inside the fan for the measured probes
	if !(res.MaxTheta[1] < 1.1*thetaC && res.MinTheta[1] > 0.9*thetaC) {
		t.Errorf("probe 1 left the fan: [%e, %e]", res.MinTheta[1], res.MaxTheta[1])
	}
}
