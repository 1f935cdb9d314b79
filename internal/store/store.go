// Package store persists tracking runs on disk. Every run gets its own
// directory under the base path: metadata.json describes the run, the
// per-turn probe coordinates go to trajectories.csv and the synchrotron
// frequency table to distribution.csv. Floats are written in shortest
// round-trip form so loading reproduces the saved values exactly.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/synchro/internal/phasespace"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata is the content of a run's metadata.json.
type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Turns     int                `json:"turns"`
	Probes    int                `json:"probes"`
	TimeStep  float64            `json:"time_step"`
	Metrics   map[string]float64 `json:"metrics"`
}

// SaveRun writes one run directory and returns its ID. Either the tracker
// or the distribution may be nil; the matching CSV is then skipped. With
// both nil there is nothing to persist and SaveRun fails with [ErrNoData].
func (s *Store) SaveRun(scenario string, ft *phasespace.FrequencyTracker, dist *phasespace.FsDistribution, metrics map[string]float64) (string, error) {
	if ft == nil && dist == nil {
		return "", ErrNoData
	}

	runID := fmt.Sprintf("%s_%d", scenario, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
	if ft != nil {
		meta.Turns = ft.Turn()
		meta.Probes = ft.Beam.N()
		meta.TimeStep = ft.TimeStep
	}

	if err := writeMeta(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if ft != nil {
		if err := writeTrajectories(filepath.Join(runDir, "trajectories.csv"), ft); err != nil {
			return "", err
		}
	}
	if dist != nil {
		if err := writeDistribution(filepath.Join(runDir, "distribution.csv"), dist); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeMeta(path string, meta RunMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeTrajectories(path string, ft *phasespace.FrequencyTracker) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)

	n := ft.Beam.N()
	header := make([]string, 0, 1+2*n)
	header = append(header, "turn")
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("theta%d", i))
	}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("de%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for turn := 0; turn <= ft.Turn(); turn++ {
		row := make([]string, 0, 1+2*n)
		row = append(row, strconv.Itoa(turn))
		for _, v := range ft.ThetaSave[turn] {
			row = append(row, formatFloat(v))
		}
		for _, v := range ft.DESave[turn] {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeDistribution(path string, dist *phasespace.FsDistribution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write([]string{"branch", "hamiltonian", "frequency", "emittance", "delta_time"}); err != nil {
		return err
	}
	branch := func(name string, h, freq, emit, dt []float64) error {
		for i := range h {
			row := []string{name, formatFloat(h[i]), formatFloat(freq[i]), formatFloat(emit[i]), formatFloat(dt[i])}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := branch("left", dist.HLeft, dist.FreqLeft, dist.EmittanceLeft, dist.DeltaTimeLeft); err != nil {
		return err
	}
	if err := branch("right", dist.HRight, dist.FreqRight, dist.EmittanceRight, dist.DeltaTimeRight); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List reads the metadata of every run directory under the base path.
// Directories without a readable metadata.json are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectories reads a run's per-turn probe coordinates back as
// [turn][probe] arrays. Malformed rows are skipped.
func (s *Store) LoadTrajectories(runID string) (theta, de [][]float64, err error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectories.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	theta = make([][]float64, 0, len(records))
	de = make([][]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 3 || (len(record)-1)%2 != 0 {
			continue
		}
		n := (len(record) - 1) / 2

		vals, ok := parseFloats(record[1:])
		if !ok {
			continue
		}
		theta = append(theta, vals[:n])
		de = append(de, vals[n:])
	}

	return theta, de, nil
}

// DistPoint is one row of a run's distribution.csv.
type DistPoint struct {
	Branch    string
	H         float64
	Frequency float64
	Emittance float64
	DeltaTime float64
}

// LoadDistribution reads a run's synchrotron frequency table back, left
// branch rows first. Malformed rows are skipped.
func (s *Store) LoadDistribution(runID string) ([]DistPoint, error) {
	csvPath := filepath.Join(s.baseDir, runID, "distribution.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	points := make([]DistPoint, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != 5 {
			continue
		}
		vals, ok := parseFloats(record[1:])
		if !ok {
			continue
		}
		points = append(points, DistPoint{
			Branch:    record[0],
			H:         vals[0],
			Frequency: vals[1],
			Emittance: vals[2],
			DeltaTime: vals[3],
		})
	}

	return points, nil
}

func parseFloats(fields []string) ([]float64, bool) {
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}
