package llrf

import "log/slog"

// PhaseLoop is a proportional beam-phase feedback. Each turn it takes the
// measured beam-RF phase error, smooths it over the last window turns with
// [MovingAverage] and produces an RF frequency correction opposing the
// error.
type PhaseLoop struct {
	gain   float64
	window int
	log    *slog.Logger

	hist       []float64
	deltaOmega float64
}

// NewPhaseLoop builds a loop with the given proportional gain in rad/s per
// radian of error. A nil logger falls back to [slog.Default].
func NewPhaseLoop(gain float64, window int, logger *slog.Logger) (*PhaseLoop, error) {
	if gain <= 0 {
		return nil, ErrBadGain
	}
	if window < 1 {
		return nil, ErrBadWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PhaseLoop{
		gain:   gain,
		window: window,
		log:    logger,
		hist:   make([]float64, 0, window),
	}, nil
}

// Update feeds one turn of phase error, in radians, and returns the new
// frequency correction in rad/s. Until the window fills, the smoothing runs
// over the turns seen so far.
func (pl *PhaseLoop) Update(phaseError float64) float64 {
	if len(pl.hist) == pl.window {
		copy(pl.hist, pl.hist[1:])
		pl.hist[len(pl.hist)-1] = phaseError
	} else {
		pl.hist = append(pl.hist, phaseError)
	}
	avg, _ := MovingAverage(pl.hist, len(pl.hist), nil)
	filtered := avg[0]
	pl.deltaOmega = -pl.gain * filtered
	pl.log.Debug("phase loop update",
		slog.Float64("error", phaseError),
		slog.Float64("filtered", filtered),
		slog.Float64("delta_omega", pl.deltaOmega))
	return pl.deltaOmega
}

// DeltaOmega returns the correction from the latest [PhaseLoop.Update].
func (pl *PhaseLoop) DeltaOmega() float64 {
	return pl.deltaOmega
}
