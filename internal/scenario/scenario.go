// Package scenario assembles runnable machines from configs and resolves
// the named setups shipped as presets.
package scenario

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/synchro/internal/config"
	"github.com/san-kum/synchro/internal/machine"
	"github.com/san-kum/synchro/internal/numeric"
	"github.com/san-kum/synchro/internal/rfprog"
	"github.com/san-kum/synchro/internal/tracking"
)

// ErrUnknownScenario indicates a setup name the registry does not know.
var ErrUnknownScenario = errors.New("scenario: unknown setup")

// Build assembles the ring and RF station described by cfg. A nil cfg
// builds the defaults. The returned machine carries no beam; attach one
// before tracking.
func Build(cfg *config.Config) (*tracking.FullRing, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	particle, err := cfg.Machine.ParticleSpec()
	if err != nil {
		return nil, err
	}
	ring, err := machine.NewRing(cfg.Machine.Circumference, cfg.Machine.Alpha0(), momentumProgram(&cfg.Machine), particle)
	if err != nil {
		return nil, fmt.Errorf("scenario: ring: %w", err)
	}

	n := cfg.Machine.NTurns
	harmonic := make([][]float64, len(cfg.RF))
	voltage := make([][]float64, len(cfg.RF))
	phase := make([][]float64, len(cfg.RF))
	for i, s := range cfg.RF {
		harmonic[i] = machine.ConstProgram(s.Harmonic, n)
		phase[i] = machine.ConstProgram(s.Phase, n)
		if s.VoltageAnchors == nil {
			voltage[i] = machine.ConstProgram(s.Voltage, n)
			continue
		}
		mode := rfprog.InterpLinear
		if s.VoltageAnchors.Cubic {
			mode = rfprog.InterpCubic
		}
		rows, err := rfprog.Preprocess(ring,
			[]rfprog.ProgramPoints{{Time: s.VoltageAnchors.Time, Value: s.VoltageAnchors.Value}},
			rfprog.PreprocessOptions{Interpolation: mode})
		if err != nil {
			return nil, fmt.Errorf("scenario: rf system %d: %w", i, err)
		}
		voltage[i] = rows[0]
	}

	rf, err := machine.NewRFStation(ring, harmonic, voltage, phase)
	if err != nil {
		return nil, fmt.Errorf("scenario: rf station: %w", err)
	}
	slog.Default().Debug("scenario built",
		slog.Int("rf_systems", rf.NRF),
		slog.Int("turns", ring.NTurns))
	return tracking.New(ring, rf, nil), nil
}

// momentumProgram resolves the per-turn momentum from the machine section.
func momentumProgram(m *config.MachineConfig) []float64 {
	if len(m.MomentumProgram) > 0 {
		return append([]float64(nil), m.MomentumProgram...)
	}
	if m.MomentumFinal > 0 && m.MomentumFinal != m.Momentum {
		return numeric.Linspace(m.Momentum, m.MomentumFinal, m.NTurns+1)
	}
	return machine.ConstProgram(m.Momentum, m.NTurns)
}
