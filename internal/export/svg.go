// Package export renders analysis products as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/synchro/internal/viz"
)

// Curve is one polyline in a shared world frame. Stroke may be empty to
// pick the next palette color.
type Curve struct {
	X, Y   []float64
	Stroke string
}

var palette = []string{"#00ff00", "#00ccff", "#ff00ff", "#ffcc00"}

// CurvesToSVG renders the curves into one SVG document. All curves share
// one world frame, padded by 10% per side; non-finite samples split a
// curve into separate path segments. Without a single finite point the
// result is empty.
func CurvesToSVG(curves []Curve, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, c := range curves {
		n := len(c.X)
		if len(c.Y) < n {
			n = len(c.Y)
		}
		for i := 0; i < n; i++ {
			if !finite(c.X[i]) || !finite(c.Y[i]) {
				continue
			}
			if c.X[i] < minX {
				minX = c.X[i]
			}
			if c.X[i] > maxX {
				maxX = c.X[i]
			}
			if c.Y[i] < minY {
				minY = c.Y[i]
			}
			if c.Y[i] > maxY {
				maxY = c.Y[i]
			}
		}
	}
	if minX > maxX {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for ci, c := range curves {
		stroke := c.Stroke
		if stroke == "" {
			stroke = palette[ci%len(palette)]
		}

		n := len(c.X)
		if len(c.Y) < n {
			n = len(c.Y)
		}
		var d strings.Builder
		pen := false
		for i := 0; i < n; i++ {
			if !finite(c.X[i]) || !finite(c.Y[i]) {
				pen = false
				continue
			}
			x := (c.X[i] - minX) / rangeX * float64(width)
			y := float64(height) - (c.Y[i]-minY)/rangeY*float64(height)
			if pen {
				d.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			} else {
				if d.Len() > 0 {
					d.WriteString(" ")
				}
				d.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				pen = true
			}
		}
		if d.Len() == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, stroke, d.String()))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Braille dot-to-bit mapping, columns left to right.
var pixelMap = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// PlaneToSVG converts a braille plane to an SVG dot raster. scale is the
// edge length of one dot in output units.
func PlaneToSVG(p *viz.Plane, scale float64) string {
	if p == nil {
		return ""
	}

	width := float64(p.Width) * scale * 2
	height := float64(p.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < p.Height; row++ {
		for col := 0; col < p.Width; col++ {
			r := p.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
