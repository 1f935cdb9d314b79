// Package monitor records per-turn ensemble summaries during tracking, for
// live views and end-of-run reports.
package monitor

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/synchro/internal/beam"
)

var (
	// ErrBadTurns indicates a monitor without recording capacity.
	ErrBadTurns = errors.New("monitor: turn capacity must be positive")

	// ErrBadWindow indicates a loss window whose minimum does not lie
	// below its maximum.
	ErrBadWindow = errors.New("monitor: loss window needs min below max")

	// ErrMonitorFull indicates a record past the reserved turn count.
	ErrMonitorFull = errors.New("monitor: all recording turns used")
)

// BunchMonitor accumulates one row per recorded turn: mean and spread of
// both longitudinal coordinates over the particles still inside the loss
// window, and the count of those particles. Rows beyond [BunchMonitor.Turns]
// keep their zero values.
type BunchMonitor struct {
	MeanDt  []float64
	SigmaDt []float64
	MeanDE  []float64
	SigmaDE []float64
	Alive   []int

	dtMin, dtMax float64
	turn         int

	scratchDt []float64
	scratchDE []float64
}

// New reserves nTurns rows. Particles with dt outside [dtMin, dtMax] count
// as lost; pass infinities to keep every particle.
func New(nTurns int, dtMin, dtMax float64) (*BunchMonitor, error) {
	if nTurns < 1 {
		return nil, ErrBadTurns
	}
	if !(dtMin < dtMax) {
		return nil, ErrBadWindow
	}
	return &BunchMonitor{
		MeanDt:  make([]float64, nTurns),
		SigmaDt: make([]float64, nTurns),
		MeanDE:  make([]float64, nTurns),
		SigmaDE: make([]float64, nTurns),
		Alive:   make([]int, nTurns),
		dtMin:   dtMin,
		dtMax:   dtMax,
	}, nil
}

// Unbounded reserves nTurns rows with no loss window.
func Unbounded(nTurns int) (*BunchMonitor, error) {
	return New(nTurns, math.Inf(-1), math.Inf(1))
}

// Record appends one row from the ensemble's current coordinates. With every
// particle lost the row's statistics are NaN.
func (m *BunchMonitor) Record(b *beam.Beam) error {
	if m.turn >= len(m.MeanDt) {
		return ErrMonitorFull
	}
	if cap(m.scratchDt) < b.N() {
		m.scratchDt = make([]float64, 0, b.N())
		m.scratchDE = make([]float64, 0, b.N())
	}
	dts := m.scratchDt[:0]
	des := m.scratchDE[:0]
	for i, dt := range b.Dt {
		if dt < m.dtMin || dt > m.dtMax {
			continue
		}
		dts = append(dts, dt)
		des = append(des, b.DE[i])
	}

	i := m.turn
	m.Alive[i] = len(dts)
	switch {
	case len(dts) == 0:
		m.MeanDt[i], m.MeanDE[i] = math.NaN(), math.NaN()
		m.SigmaDt[i], m.SigmaDE[i] = math.NaN(), math.NaN()
	default:
		m.MeanDt[i] = stat.Mean(dts, nil)
		m.MeanDE[i] = stat.Mean(des, nil)
		if len(dts) > 1 {
			m.SigmaDt[i] = stat.StdDev(dts, nil)
			m.SigmaDE[i] = stat.StdDev(des, nil)
		}
	}
	m.turn++
	return nil
}

// Turns is the number of rows recorded so far.
func (m *BunchMonitor) Turns() int { return m.turn }

// Reset discards the recorded rows, keeping capacity and loss window.
// Subsequent records overwrite from row zero.
func (m *BunchMonitor) Reset() { m.turn = 0 }
