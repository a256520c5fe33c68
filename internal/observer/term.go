package observer

import (
	"io"
	"strings"

	"EvoScope/internal/geometry"
	"EvoScope/internal/protocol"
)

var kindGlyphs = map[protocol.Kind]byte{
	protocol.KindTerrain:  '#',
	protocol.KindWater:    '~',
	protocol.KindPlant:    '*',
	protocol.KindOrganism: '@',
}

// TerminalSurface rasterizes the mirror into a character grid and repaints
// the terminal in place on every flush. It exists so the native observe
// command has a surface without pulling in a graphics stack; the browser
// page plays the same role for canvas rendering.
type TerminalSurface struct {
	out         io.Writer
	cols, rows  int
	worldW      float64
	worldH      float64
	grid        []byte
	paintedOnce bool
}

func NewTerminalSurface(out io.Writer, cols, rows int, worldW, worldH float64) *TerminalSurface {
	s := &TerminalSurface{
		out:    out,
		cols:   cols,
		rows:   rows,
		worldW: worldW,
		worldH: worldH,
		grid:   make([]byte, cols*rows),
	}
	s.Clear()
	return s
}

func (s *TerminalSurface) Clear() {
	for i := range s.grid {
		s.grid[i] = ' '
	}
}

func (s *TerminalSurface) FillPolygon(vertices []geometry.Point, kind protocol.Kind, name string) {
	if len(vertices) == 0 {
		return
	}
	glyph, ok := kindGlyphs[kind]
	if !ok {
		glyph = '?'
	}
	poly := geometry.Polygon{Vertices: vertices}
	min, max := poly.Bounds()

	c0, r0 := s.cell(min.X, min.Y)
	c1, r1 := s.cell(max.X, max.Y)
	marked := false
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			if poly.Contains(s.center(c, r)) {
				s.set(c, r, glyph)
				marked = true
			}
		}
	}
	if !marked {
		// Sub-cell shapes still get one glyph at their centroid.
		cx, cy := 0.0, 0.0
		for _, v := range vertices {
			cx += v.X
			cy += v.Y
		}
		n := float64(len(vertices))
		c, r := s.cell(cx/n, cy/n)
		s.set(c, r, glyph)
	}
}

func (s *TerminalSurface) Flush() {
	var b strings.Builder
	if !s.paintedOnce {
		b.WriteString("\x1b[2J")
		s.paintedOnce = true
	}
	b.WriteString("\x1b[H")
	for r := 0; r < s.rows; r++ {
		b.Write(s.grid[r*s.cols : (r+1)*s.cols])
		b.WriteByte('\n')
	}
	io.WriteString(s.out, b.String())
}

func (s *TerminalSurface) cell(x, y float64) (int, int) {
	c := int(x / s.worldW * float64(s.cols))
	r := int(y / s.worldH * float64(s.rows))
	return clampInt(c, 0, s.cols-1), clampInt(r, 0, s.rows-1)
}

func (s *TerminalSurface) center(c, r int) geometry.Point {
	return geometry.Point{
		X: (float64(c) + 0.5) / float64(s.cols) * s.worldW,
		Y: (float64(r) + 0.5) / float64(s.rows) * s.worldH,
	}
}

func (s *TerminalSurface) set(c, r int, glyph byte) {
	s.grid[r*s.cols+c] = glyph
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
