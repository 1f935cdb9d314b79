// Package viz renders phase-space views in the terminal: a braille plane
// addressed in world coordinates, asciigraph wrappers for quick CLI plots
// and a Bubble Tea model for live tracking.
package viz

import (
	"math"
	"strings"
)

// Braille cells pack 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800.
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Segments whose projection leaves the plane by more than this many dots
// are dropped rather than rasterized.
const dotLimit = 1 << 16

// Plane is a braille canvas addressed in world coordinates. A cell grid of
// Width x Height provides (Width*2) x (Height*4) dots; the world window
// [xMin, xMax] x [yMin, yMax] maps onto the dot grid with y growing
// upward. Points outside the window are clipped.
type Plane struct {
	Width, Height int
	Grid          [][]rune

	xMin, xMax float64
	yMin, yMax float64
}

// NewPlane returns an empty plane of width x height cells over the given
// world window.
func NewPlane(width, height int, xMin, xMax, yMin, yMax float64) (*Plane, error) {
	if width < 1 || height < 1 {
		return nil, ErrBadSize
	}
	if !(xMin < xMax) || !(yMin < yMax) {
		return nil, ErrBadExtent
	}
	p := &Plane{
		Width:  width,
		Height: height,
		Grid:   make([][]rune, height),
		xMin:   xMin,
		xMax:   xMax,
		yMin:   yMin,
		yMax:   yMax,
	}
	for i := range p.Grid {
		p.Grid[i] = make([]rune, width)
		for j := range p.Grid[i] {
			p.Grid[i][j] = 0x2800
		}
	}
	return p, nil
}

func (p *Plane) project(x, y float64) (int, int) {
	px := int(math.Round((x - p.xMin) / (p.xMax - p.xMin) * float64(p.Width*2-1)))
	py := int(math.Round((p.yMax - y) / (p.yMax - p.yMin) * float64(p.Height*4-1)))
	return px, py
}

func (p *Plane) setDot(px, py int) {
	if px < 0 || py < 0 {
		return
	}
	col := px / 2
	row := py / 4
	if col >= p.Width || row >= p.Height {
		return
	}
	p.Grid[row][col] |= pixelMap[py%4][px%2]
}

// Mark sets the dot nearest to the world point (x, y).
func (p *Plane) Mark(x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	px, py := p.project(x, y)
	p.setDot(px, py)
}

// Scatter marks one dot per point, up to the shorter of the two arrays.
func (p *Plane) Scatter(xs, ys []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 0; i < n; i++ {
		p.Mark(xs[i], ys[i])
	}
}

// Line rasterizes a world-coordinate segment with Bresenham's algorithm.
// Segments with non-finite endpoints or endpoints far outside the window
// are dropped.
func (p *Plane) Line(x0, y0, x1, y1 float64) {
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return
	}
	px0, py0 := p.project(x0, y0)
	px1, py1 := p.project(x1, y1)
	if outOfRange(px0) || outOfRange(py0) || outOfRange(px1) || outOfRange(py1) {
		return
	}

	dx := absInt(px1 - px0)
	dy := absInt(py1 - py0)
	sx := -1
	if px0 < px1 {
		sx = 1
	}
	sy := -1
	if py0 < py1 {
		sy = 1
	}
	e := dx - dy

	for {
		p.setDot(px0, py0)
		if px0 == px1 && py0 == py1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			px0 += sx
		}
		if e2 < dx {
			e += dx
			py0 += sy
		}
	}
}

// Polyline draws consecutive segments through the points.
func (p *Plane) Polyline(xs, ys []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 1; i < n; i++ {
		p.Line(xs[i-1], ys[i-1], xs[i], ys[i])
	}
}

// Axes draws the world x and y zero lines where they cross the window.
func (p *Plane) Axes() {
	if p.yMin < 0 && 0 < p.yMax {
		_, py := p.project(0, 0)
		for px := 0; px < p.Width*2; px++ {
			p.setDot(px, py)
		}
	}
	if p.xMin < 0 && 0 < p.xMax {
		px, _ := p.project(0, 0)
		for py := 0; py < p.Height*4; py++ {
			p.setDot(px, py)
		}
	}
}

// Clear resets every cell to the empty braille character.
func (p *Plane) Clear() {
	for i := range p.Grid {
		for j := range p.Grid[i] {
			p.Grid[i][j] = 0x2800
		}
	}
}

func (p *Plane) String() string {
	var b strings.Builder
	for _, row := range p.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func outOfRange(v int) bool {
	return v < -dotLimit || v > dotLimit
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
