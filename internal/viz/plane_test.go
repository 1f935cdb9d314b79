package viz

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewPlaneValidation(t *testing.T) {
	if _, err := NewPlane(0, 10, 0, 1, 0, 1); !errors.Is(err, ErrBadSize) {
		t.Errorf("expected ErrBadSize, got %v", err)
	}
	if _, err := NewPlane(10, 10, 1, 1, 0, 1); !errors.Is(err, ErrBadExtent) {
		t.Errorf("expected ErrBadExtent, got %v", err)
	}
	if _, err := NewPlane(10, 10, 0, 1, 2, 1); !errors.Is(err, ErrBadExtent) {
		t.Errorf("expected ErrBadExtent, got %v", err)
	}
}

func TestPlaneMarkCorners(t *testing.T) {
	p, err := NewPlane(3, 2, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}

	// bottom-left lands on the lowest dot row of the last cell row
	p.Mark(0, 0)
	if p.Grid[1][0] != 0x2800|0x40 {
		t.Errorf("expected bottom-left dot, got %#x", p.Grid[1][0])
	}

	// top-right lands on the highest dot row of the last cell column
	p.Mark(1, 1)
	if p.Grid[0][2] != 0x2800|0x8 {
		t.Errorf("expected top-right dot, got %#x", p.Grid[0][2])
	}
}

func TestPlaneLineHorizontal(t *testing.T) {
	p, err := NewPlane(3, 2, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}

	// y = 0.5 projects to dot row 4, the top dot row of cell row 1
	p.Line(0, 0.5, 1, 0.5)
	for col := 0; col < 3; col++ {
		if p.Grid[1][col] != 0x2800|0x1|0x8 {
			t.Errorf("cell %d: expected a full dot row, got %#x", col, p.Grid[1][col])
		}
	}
	for col := 0; col < 3; col++ {
		if p.Grid[0][col] != 0x2800 {
			t.Errorf("cell row 0 col %d: expected empty, got %#x", col, p.Grid[0][col])
		}
	}
}

func TestPlaneClipsOutsideAndNonFinite(t *testing.T) {
	p, err := NewPlane(2, 2, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}

	p.Mark(2, 0.5)
	p.Mark(-1, 0.5)
	p.Mark(math.NaN(), 0.5)
	p.Mark(0.5, math.Inf(1))
	p.Line(math.NaN(), 0, 1, 1)
	p.Line(1e12, 0, 2e12, 1)

	for row := range p.Grid {
		for col := range p.Grid[row] {
			if p.Grid[row][col] != 0x2800 {
				t.Fatalf("cell (%d,%d): expected empty plane, got %#x", row, col, p.Grid[row][col])
			}
		}
	}
}

func TestPlaneAxes(t *testing.T) {
	p, err := NewPlane(4, 4, -1, 1, -1, 1)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	p.Axes()

	marked := 0
	for row := range p.Grid {
		for col := range p.Grid[row] {
			if p.Grid[row][col] != 0x2800 {
				marked++
			}
		}
	}
	// one full dot row and one full dot column: 4 cells each, sharing one
	if marked != 7 {
		t.Errorf("expected 7 marked cells for crossing axes, got %d", marked)
	}

	off, err := NewPlane(4, 4, 1, 2, 1, 2)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	off.Axes()
	for row := range off.Grid {
		for col := range off.Grid[row] {
			if off.Grid[row][col] != 0x2800 {
				t.Fatalf("expected no axes outside the window, got %#x at (%d,%d)", off.Grid[row][col], row, col)
			}
		}
	}
}

func TestPlaneScatterAndClear(t *testing.T) {
	p, err := NewPlane(4, 4, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}

	p.Scatter([]float64{0.1, 0.5, 0.9}, []float64{0.1, 0.5, 0.9})
	marked := 0
	for row := range p.Grid {
		for col := range p.Grid[row] {
			if p.Grid[row][col] != 0x2800 {
				marked++
			}
		}
	}
	if marked != 3 {
		t.Errorf("expected 3 marked cells, got %d", marked)
	}

	p.Clear()
	for row := range p.Grid {
		for col := range p.Grid[row] {
			if p.Grid[row][col] != 0x2800 {
				t.Fatalf("expected empty plane after clear, got %#x", p.Grid[row][col])
			}
		}
	}
}

func TestPlaneString(t *testing.T) {
	p, err := NewPlane(5, 3, 0, 1, 0, 1)
	if err != nil {
		t.Fatalf("NewPlane: %v", err)
	}
	out := p.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != 5 {
			t.Errorf("line %d: expected 5 runes, got %d", i, len([]rune(line)))
		}
		for _, r := range line {
			if r != 0x2800 {
				t.Errorf("line %d: expected empty braille cells, got %#x", i, r)
			}
		}
	}
}
