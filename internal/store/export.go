package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/synchro/internal/phasespace"
)

// ExportData is the JSON document produced by [ExportJSON]. Theta and DE
// are indexed [turn][probe]; the spectral and distribution fields are
// present when the matching analysis was run.
type ExportData struct {
	Scenario string             `json:"scenario"`
	Turns    int                `json:"turns"`
	Probes   int                `json:"probes"`
	TimeStep float64            `json:"time_step"`
	Theta    [][]float64        `json:"theta"`
	DE       [][]float64        `json:"de"`
	Metrics  map[string]float64 `json:"metrics"`

	FrequencyTheta []float64 `json:"frequency_theta,omitempty"`
	FrequencyDE    []float64 `json:"frequency_de,omitempty"`

	Hamiltonian []float64 `json:"hamiltonian,omitempty"`
	Frequency   []float64 `json:"frequency,omitempty"`
}

// ExportJSON writes a run as one indented JSON document. freqs and dist
// may be nil; their fields are then omitted.
func ExportJSON(path, scenario string, ft *phasespace.FrequencyTracker, freqs *phasespace.TrackedFrequencies, dist *phasespace.FsDistribution, metrics map[string]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return encodeExport(file, scenario, ft, freqs, dist, metrics)
}

// ExportJSONStdout writes the same document to standard output.
func ExportJSONStdout(scenario string, ft *phasespace.FrequencyTracker, freqs *phasespace.TrackedFrequencies, dist *phasespace.FsDistribution, metrics map[string]float64) error {
	return encodeExport(os.Stdout, scenario, ft, freqs, dist, metrics)
}

func encodeExport(w io.Writer, scenario string, ft *phasespace.FrequencyTracker, freqs *phasespace.TrackedFrequencies, dist *phasespace.FsDistribution, metrics map[string]float64) error {
	data := ExportData{
		Scenario: scenario,
		Metrics:  metrics,
	}
	if ft != nil {
		data.Turns = ft.Turn()
		data.Probes = ft.Beam.N()
		data.TimeStep = ft.TimeStep
		data.Theta = ft.ThetaSave[:ft.Turn()+1]
		data.DE = ft.DESave[:ft.Turn()+1]
	}
	if freqs != nil {
		data.FrequencyTheta = freqs.FrequencyTheta
		data.FrequencyDE = freqs.FrequencyDE
	}
	if dist != nil {
		data.Hamiltonian = dist.H
		data.Frequency = dist.Freq
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
