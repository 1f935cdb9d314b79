// Package config defines the YAML run description: machine, RF systems,
// analysis settings, tracking settings and view options, plus a set of
// ready-made presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/synchro/internal/machine"
)

const (
	DefaultCircumference = 6911.56
	DefaultGammaT        = 18.0
	DefaultMomentum      = 25.92e9
	DefaultNTurns        = 2000
	DefaultHarmonic      = 4620.0
	DefaultVoltage       = 0.9e6
	DefaultNPoints       = 1000
	DefaultMargin        = 0.05
	DefaultNParticles    = 5
	DefaultNSampling     = 100000
)

type Config struct {
	Machine  MachineConfig    `yaml:"machine"`
	RF       []RFSystemConfig `yaml:"rf"`
	Analysis AnalysisConfig   `yaml:"analysis"`
	Track    TrackConfig      `yaml:"track"`
	Viz      VizConfig        `yaml:"viz"`
}

// MachineConfig describes the ring. Focusing comes from either GammaT or
// Alpha; the momentum program is, in order of precedence, the explicit
// per-turn MomentumProgram, a linear ramp from Momentum to MomentumFinal, or
// flat Momentum.
type MachineConfig struct {
	Circumference   float64   `yaml:"circumference"`
	GammaT          float64   `yaml:"gamma_t,omitempty"`
	Alpha           float64   `yaml:"alpha,omitempty"`
	Particle        string    `yaml:"particle"`
	Momentum        float64   `yaml:"momentum"`
	MomentumFinal   float64   `yaml:"momentum_final,omitempty"`
	MomentumProgram []float64 `yaml:"momentum_program,omitempty"`
	NTurns          int       `yaml:"n_turns"`
}

// RFSystemConfig describes one RF system. The flat Voltage applies unless
// VoltageAnchors carries a sparse program to resample over the cycle.
type RFSystemConfig struct {
	Harmonic       float64  `yaml:"harmonic"`
	Voltage        float64  `yaml:"voltage"`
	Phase          float64  `yaml:"phase"`
	VoltageAnchors *Anchors `yaml:"voltage_anchors,omitempty"`
}

// Anchors is a sparse time/value program, interpolated linearly or with a
// natural cubic over the ring cycle.
type Anchors struct {
	Time  []float64 `yaml:"time"`
	Value []float64 `yaml:"value"`
	Cubic bool      `yaml:"cubic,omitempty"`
}

type AnalysisConfig struct {
	NPoints      int     `yaml:"n_points"`
	Margin       float64 `yaml:"margin"`
	SmoothWindow int     `yaml:"smooth_window,omitempty"`
	Harmonic     string  `yaml:"harmonic"`
}

// TrackConfig describes the probe tracking run. A zero theta range asks the
// builder to spread probes around the first bucket center.
type TrackConfig struct {
	NParticles int     `yaml:"n_particles"`
	NTurns     int     `yaml:"n_turns"`
	ThetaMin   float64 `yaml:"theta_min,omitempty"`
	ThetaMax   float64 `yaml:"theta_max,omitempty"`
	NSampling  int     `yaml:"n_sampling"`
}

type VizConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Every  int `yaml:"every,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Machine: MachineConfig{
			Circumference: DefaultCircumference,
			GammaT:        DefaultGammaT,
			Particle:      "proton",
			Momentum:      DefaultMomentum,
			NTurns:        DefaultNTurns,
		},
		RF: []RFSystemConfig{
			{Harmonic: DefaultHarmonic, Voltage: DefaultVoltage},
		},
		Analysis: AnalysisConfig{
			NPoints:  DefaultNPoints,
			Margin:   DefaultMargin,
			Harmonic: "lowest_frequency",
		},
		Track: TrackConfig{
			NParticles: DefaultNParticles,
			NTurns:     DefaultNTurns,
			NSampling:  DefaultNSampling,
		},
		Viz: VizConfig{Width: 80, Height: 24, Every: 10},
	}
}

// Load reads a YAML file over the defaults, so partial files only override
// what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so callers can override fields without touching
// shared presets.
func (c *Config) Clone() *Config {
	out := *c
	out.Machine.MomentumProgram = append([]float64(nil), c.Machine.MomentumProgram...)
	out.RF = make([]RFSystemConfig, len(c.RF))
	for i, s := range c.RF {
		out.RF[i] = s
		if s.VoltageAnchors != nil {
			a := Anchors{
				Time:  append([]float64(nil), s.VoltageAnchors.Time...),
				Value: append([]float64(nil), s.VoltageAnchors.Value...),
				Cubic: s.VoltageAnchors.Cubic,
			}
			out.RF[i].VoltageAnchors = &a
		}
	}
	return &out
}

// Alpha0 resolves the linear momentum compaction from either Alpha or
// GammaT.
func (c *MachineConfig) Alpha0() float64 {
	if c.Alpha != 0 {
		return c.Alpha
	}
	if c.GammaT > 0 {
		return 1 / (c.GammaT * c.GammaT)
	}
	return 0
}

// ParticleSpec maps the particle name onto a species.
func (c *MachineConfig) ParticleSpec() (machine.Particle, error) {
	switch c.Particle {
	case "", "proton":
		return machine.Proton(), nil
	case "electron":
		return machine.Electron(), nil
	}
	return machine.Particle{}, fmt.Errorf("%w: %q", ErrBadParticle, c.Particle)
}

// Validate checks the whole config for buildability.
func (c *Config) Validate() error {
	m := &c.Machine
	if m.Circumference <= 0 {
		return fmt.Errorf("%w: circumference must be positive", ErrBadMachine)
	}
	if m.NTurns < 1 {
		return fmt.Errorf("%w: n_turns must be positive", ErrBadMachine)
	}
	if m.Alpha0() == 0 {
		return fmt.Errorf("%w: either gamma_t or alpha required", ErrBadMachine)
	}
	if len(m.MomentumProgram) == 0 && m.Momentum <= 0 {
		return fmt.Errorf("%w: momentum must be positive", ErrBadMachine)
	}
	if len(m.MomentumProgram) > 0 && len(m.MomentumProgram) != m.NTurns+1 {
		return fmt.Errorf("%w: momentum_program needs n_turns+1 samples", ErrBadMachine)
	}
	if _, err := m.ParticleSpec(); err != nil {
		return err
	}

	if len(c.RF) == 0 {
		return ErrNoRF
	}
	for i, s := range c.RF {
		if s.Harmonic <= 0 {
			return fmt.Errorf("%w %d: harmonic must be positive", ErrBadRF, i)
		}
		if s.Voltage < 0 {
			return fmt.Errorf("%w %d: voltage must not be negative", ErrBadRF, i)
		}
		if a := s.VoltageAnchors; a != nil && (len(a.Time) != len(a.Value) || len(a.Time) < 2) {
			return fmt.Errorf("%w %d: voltage_anchors need matching time/value pairs", ErrBadRF, i)
		}
	}

	a := &c.Analysis
	if a.NPoints < 16 {
		return fmt.Errorf("%w: n_points must be at least 16", ErrBadAnalysis)
	}
	if a.Margin < 0 {
		return fmt.Errorf("%w: margin must not be negative", ErrBadAnalysis)
	}
	if a.SmoothWindow < 0 {
		return fmt.Errorf("%w: smooth_window must not be negative", ErrBadAnalysis)
	}
	switch a.Harmonic {
	case "", "lowest_frequency", "highest_voltage":
	default:
		return fmt.Errorf("%w: unknown harmonic selection %q", ErrBadAnalysis, a.Harmonic)
	}

	tr := &c.Track
	if tr.NParticles < 1 {
		return fmt.Errorf("%w: n_particles must be positive", ErrBadTrack)
	}
	if tr.NTurns < 1 {
		return fmt.Errorf("%w: n_turns must be positive", ErrBadTrack)
	}
	if tr.NSampling < 16 {
		return fmt.Errorf("%w: n_sampling must be at least 16", ErrBadTrack)
	}
	if (tr.ThetaMin != 0 || tr.ThetaMax != 0) && tr.ThetaMin >= tr.ThetaMax {
		return fmt.Errorf("%w: theta range must ascend", ErrBadTrack)
	}
	return nil
}

// HarmonicSelect maps the analysis harmonic name onto the waveform anchor
// mode.
func (c *AnalysisConfig) HarmonicSelect() machine.HarmonicSelect {
	if c.Harmonic == "highest_voltage" {
		return machine.HarmonicSelect{Mode: machine.HighestVoltage}
	}
	return machine.HarmonicSelect{Mode: machine.LowestFrequency}
}
