package scenario

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/synchro/internal/config"
	"github.com/san-kum/synchro/internal/tracking"
)

// Registry resolves setup names to configs and built machines. "default"
// maps to the default config; every preset registers under its own name.
type Registry struct {
	configs map[string]func() *config.Config
	log     *slog.Logger
}

// NewRegistry builds the registry over the shipped presets. A nil logger
// falls back to [slog.Default].
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		configs: make(map[string]func() *config.Config),
		log:     logger,
	}
	r.configs["default"] = config.DefaultConfig
	for _, name := range config.ListPresets() {
		preset := name
		r.configs[preset] = func() *config.Config { return config.GetPreset(preset) }
	}
	return r
}

// Config returns a fresh config for the named setup.
func (r *Registry) Config(name string) (*config.Config, error) {
	fn, ok := r.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return fn(), nil
}

// Build resolves the name and assembles its machine.
func (r *Registry) Build(name string) (*tracking.FullRing, error) {
	cfg, err := r.Config(name)
	if err != nil {
		return nil, err
	}
	r.log.Info("building scenario", slog.String("name", name))
	return Build(cfg)
}

// List returns all setup names in ascending order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
