package llrf

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/synchro/internal/machine"
)

// FixedFrequency is an offset program for the fundamental RF system: the
// frequency is pinned at the injection value over a front porch, then blends
// into the design program over a transition window. PhiShift carries the
// accumulated RF phase slippage against the design frequency, so a bucket
// tracked on the offset program stays aligned with the wave.
type FixedFrequency struct {
	// OmegaProg is the per-turn fundamental angular frequency, rad/s.
	OmegaProg []float64
	// PhiShift is the per-turn accumulated phase slippage, rad.
	PhiShift []float64

	// EndFixed and EndTransition are the first turns past the porch and
	// past the blend window.
	EndFixed      int
	EndTransition int
}

// NewFixedFrequency computes the offset program for rf's fundamental system.
// fixedFreq is the pinned RF frequency in Hz, fixedDuration the porch length
// and transitionDuration the blend length, both in seconds of cycle time.
// A nil logger falls back to [slog.Default].
func NewFixedFrequency(rf *machine.RFStation, fixedFreq, fixedDuration, transitionDuration float64, logger *slog.Logger) (*FixedFrequency, error) {
	if fixedFreq <= 0 {
		return nil, ErrBadFrequency
	}
	if fixedDuration < 0 || transitionDuration < 0 {
		return nil, ErrBadDuration
	}
	if logger == nil {
		logger = slog.Default()
	}

	ct := rf.Ring.CycleTime
	n := len(ct)
	endFixed := firstAtOrPast(ct, fixedDuration)
	endTransition := firstAtOrPast(ct, fixedDuration+transitionDuration)
	if endFixed < 0 || endTransition < 0 {
		return nil, ErrCycleTooShort
	}

	design := rf.OmegaRF[0]
	omegaFixed := 2 * math.Pi * fixedFreq
	prog := make([]float64, n)
	for i := 0; i < endFixed; i++ {
		prog[i] = omegaFixed
	}
	span := ct[endTransition] - ct[endFixed]
	for i := endFixed; i < endTransition; i++ {
		frac := (ct[i] - ct[endFixed]) / span
		prog[i] = omegaFixed + frac*(design[i]-omegaFixed)
	}
	for i := endTransition; i < n; i++ {
		prog[i] = design[i]
	}

	// per-turn slippage against the design wave
	delta := make([]float64, n)
	for i := 0; i < n; i++ {
		delta[i] = -2 * math.Pi * rf.Harmonic[0][i] * (prog[i] - design[i]) / design[i]
	}
	shift := make([]float64, n)
	floats.CumSum(shift, delta)

	logger.Info("fixed-frequency program",
		slog.Int("end_fixed_turn", endFixed),
		slog.Int("end_transition_turn", endTransition),
		slog.Float64("fixed_frequency_hz", fixedFreq))

	return &FixedFrequency{
		OmegaProg:     prog,
		PhiShift:      shift,
		EndFixed:      endFixed,
		EndTransition: endTransition,
	}, nil
}

// firstAtOrPast returns the first index whose cycle time reaches t, or -1.
func firstAtOrPast(ct []float64, t float64) int {
	for i, c := range ct {
		if c >= t {
			return i
		}
	}
	return -1
}

// Apply overwrites rf's fundamental frequency program with the offset one
// and folds the phase slippage into its phase program. Apply once per
// station.
func (f *FixedFrequency) Apply(rf *machine.RFStation) error {
	if len(f.OmegaProg) != len(rf.OmegaRF[0]) {
		return ErrLengthMismatch
	}
	for i := range f.OmegaProg {
		rf.OmegaRF[0][i] = f.OmegaProg[i]
		rf.PhiRF[0][i] += f.PhiShift[i]
	}
	return nil
}
