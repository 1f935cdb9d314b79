package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/synchro/internal/beam"
	"github.com/san-kum/synchro/internal/monitor"
	"github.com/san-kum/synchro/internal/tracking"
)

const (
	planeWidth   = 80
	planeHeight  = 24
	chartSamples = 600
	monitorTurns = 1 << 16

	maxTurnsPerTick = 1024
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model is the live phase-space view. Every tick advances the full ring by
// the current speed, records ensemble statistics and scatters the
// particles over the separatrix on a braille plane.
type Model struct {
	scenario string

	ring *tracking.FullRing
	beam *beam.Beam
	mon  *monitor.BunchMonitor

	sepDt, sepUpper, sepLower []float64

	plane        *Plane
	turnsPerTick int
	running      bool
	err          error

	initDt, initDE []float64
}

// NewModel wires a live view around fr. sepDt and sepDE describe the
// positive separatrix branch, used for the overlay, the view window and
// the loss accounting; with empty branches the window derives from the
// initial ensemble instead.
func NewModel(scenario string, fr *tracking.FullRing, sepDt, sepDE []float64) (Model, error) {
	if len(sepDt) != len(sepDE) {
		return Model{}, ErrLengthMismatch
	}
	b := fr.Beam

	xMin, xMax, yMax, err := viewExtent(sepDt, sepDE, b)
	if err != nil {
		return Model{}, err
	}
	plane, err := NewPlane(planeWidth, planeHeight, xMin, xMax, -yMax, yMax)
	if err != nil {
		return Model{}, err
	}

	var mon *monitor.BunchMonitor
	if len(sepDt) > 1 {
		mon, err = monitor.New(monitorTurns, sepDt[0], sepDt[len(sepDt)-1])
	} else {
		mon, err = monitor.Unbounded(monitorTurns)
	}
	if err != nil {
		return Model{}, err
	}

	lower := make([]float64, len(sepDE))
	for i, v := range sepDE {
		lower[i] = -v
	}

	m := Model{
		scenario:     scenario,
		ring:         fr,
		beam:         b,
		mon:          mon,
		sepDt:        sepDt,
		sepUpper:     sepDE,
		sepLower:     lower,
		plane:        plane,
		turnsPerTick: 1,
		running:      true,
		initDt:       append([]float64(nil), b.Dt...),
		initDE:       append([]float64(nil), b.DE...),
	}
	m.mon.Record(b)
	m.draw()
	return m, nil
}

// viewExtent picks the world window: the separatrix extent padded by 5% in
// time and 20% in energy, or three times the ensemble spread without one.
func viewExtent(sepDt, sepDE []float64, b *beam.Beam) (xMin, xMax, yMax float64, err error) {
	if len(sepDt) > 1 {
		xMin, xMax = sepDt[0], sepDt[len(sepDt)-1]
		for _, v := range sepDE {
			if v > yMax {
				yMax = v
			}
		}
		pad := 0.05 * (xMax - xMin)
		xMin -= pad
		xMax += pad
		yMax *= 1.2
	} else {
		lo, hi := b.Dt[0], b.Dt[0]
		for _, dt := range b.Dt {
			if dt < lo {
				lo = dt
			}
			if dt > hi {
				hi = dt
			}
		}
		for _, de := range b.DE {
			if de > yMax {
				yMax = de
			}
			if -de > yMax {
				yMax = -de
			}
		}
		mid, half := 0.5*(lo+hi), 0.5*(hi-lo)
		xMin, xMax = mid-3*half, mid+3*half
		yMax *= 3
	}
	if !(xMin < xMax) || !(yMax > 0) {
		return 0, 0, 0, ErrBadExtent
	}
	return xMin, xMax, yMax, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key input and advances the tracking on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			if m.turnsPerTick < maxTurnsPerTick {
				m.turnsPerTick *= 2
			}
		case "-", "_":
			if m.turnsPerTick > 1 {
				m.turnsPerTick /= 2
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < m.turnsPerTick; i++ {
		if err := m.ring.Track(); err != nil {
			m.err = err
			m.running = false
			return
		}
		if m.mon.Turns() < monitorTurns {
			m.mon.Record(m.beam)
		}
	}
}

// reset restores the initial ensemble and rewinds the RF program.
func (m *Model) reset() {
	copy(m.beam.Dt, m.initDt)
	copy(m.beam.DE, m.initDE)
	m.ring.RF.Counter = 0
	m.mon.Reset()
	m.mon.Record(m.beam)
	m.err = nil
	m.running = true
}

func (m *Model) draw() {
	m.plane.Clear()
	m.plane.Axes()
	if len(m.sepDt) > 1 {
		m.plane.Polyline(m.sepDt, m.sepUpper)
		m.plane.Polyline(m.sepDt, m.sepLower)
	}
	m.plane.Scatter(m.beam.Dt, m.beam.DE)
}

// View renders the plane beside the statistics panel.
func (m Model) View() string {
	status := "RUNNING"
	switch {
	case m.err != nil:
		status = fmt.Sprintf("ENDED (%v)", m.err)
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")
	s.WriteString(status + "\n\n")

	turns := m.mon.Turns()
	if turns > 1 {
		lo := 0
		if turns > chartSamples {
			lo = turns - chartSamples
		}
		hist := make([]float64, turns-lo)
		for i := range hist {
			v := m.mon.SigmaDt[lo+i] * 1e9
			if !finite(v) {
				v = 0
			}
			hist[i] = v
		}
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("sigma dt [ns]"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	alive := m.beam.N()
	var meanDt, sigDt, meanDE, sigDE float64
	if turns > 0 {
		i := turns - 1
		meanDt, sigDt = m.mon.MeanDt[i], m.mon.SigmaDt[i]
		meanDE, sigDE = m.mon.MeanDE[i], m.mon.SigmaDE[i]
		alive = m.mon.Alive[i]
	}
	s.WriteString(labelStyle.Render("Turn") + valueStyle.Render(fmt.Sprintf("%d", m.ring.RF.Counter)) + "\n")
	s.WriteString(labelStyle.Render("Alive") + valueStyle.Render(fmt.Sprintf("%d / %d", alive, m.beam.N())) + "\n")
	s.WriteString(labelStyle.Render("Mean dt") + valueStyle.Render(fmt.Sprintf("%.3f ns", meanDt*1e9)) + "\n")
	s.WriteString(labelStyle.Render("Sigma dt") + valueStyle.Render(fmt.Sprintf("%.3f ns", sigDt*1e9)) + "\n")
	s.WriteString(labelStyle.Render("Mean dE") + valueStyle.Render(fmt.Sprintf("%.3f MeV", meanDE/1e6)) + "\n")
	s.WriteString(labelStyle.Render("Sigma dE") + valueStyle.Render(fmt.Sprintf("%.3f MeV", sigDE/1e6)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d turns/tick", m.turnsPerTick)) + "\n")

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Speed"))

	canvasView := canvasStyle.Render(m.plane.String())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
