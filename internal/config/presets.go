package config

import (
	"math"
	"sort"
)

// Presets are ready-made machine setups keyed by name. Use [GetPreset] to
// obtain a private copy.
var Presets = map[string]*Config{
	"single_rf":        presetSingleRF(),
	"double_rf_bs":     presetDoubleRFShortening(),
	"double_rf_bl":     presetDoubleRFLengthening(),
	"accelerating":     presetAccelerating(),
	"below_transition": presetBelowTransition(),
}

// presetSingleRF is the flat-momentum single-harmonic reference setup.
func presetSingleRF() *Config {
	return DefaultConfig()
}

// presetDoubleRFShortening adds a half-voltage second harmonic in counter
// phase, deepening the well around the bunch.
func presetDoubleRFShortening() *Config {
	cfg := DefaultConfig()
	cfg.RF = append(cfg.RF, RFSystemConfig{
		Harmonic: 2 * DefaultHarmonic,
		Voltage:  DefaultVoltage / 2,
		Phase:    math.Pi,
	})
	return cfg
}

// presetDoubleRFLengthening adds the second harmonic in phase, flattening
// the well bottom.
func presetDoubleRFLengthening() *Config {
	cfg := DefaultConfig()
	cfg.RF = append(cfg.RF, RFSystemConfig{
		Harmonic: 2 * DefaultHarmonic,
		Voltage:  DefaultVoltage / 2,
		Phase:    0,
	})
	return cfg
}

// presetAccelerating ramps the momentum linearly over the cycle.
func presetAccelerating() *Config {
	cfg := DefaultConfig()
	cfg.Machine.MomentumFinal = cfg.Machine.Momentum + 0.45e9
	return cfg
}

// presetBelowTransition is a small low-energy ring where the slip factor
// turns negative and the bucket sits on the rising slope.
func presetBelowTransition() *Config {
	cfg := DefaultConfig()
	cfg.Machine.Circumference = 2 * math.Pi * 25
	cfg.Machine.Momentum = 1e9
	cfg.RF = []RFSystemConfig{{Harmonic: 8, Voltage: 20e3}}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil when unknown.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns all preset names in ascending order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
