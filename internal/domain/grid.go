package domain

import "strings"

// Grid is a rectangular array of cells, row-major.
type Grid struct {
	Width  int
	Height int
	Cells  []CellKind
}

func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]CellKind, width*height),
	}
}

func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

func (g *Grid) Index(p Position) int {
	return p.Y*g.Width + p.X
}

// At returns the cell kind at p. Out-of-bounds reads as Border.
func (g *Grid) At(p Position) CellKind {
	if !g.InBounds(p) {
		return CellBorder
	}
	return g.Cells[g.Index(p)]
}

func (g *Grid) Set(p Position, kind CellKind) {
	if g.InBounds(p) {
		g.Cells[g.Index(p)] = kind
	}
}

// CellToWorld maps a grid coordinate to the world position of its centre.
// The grid is centred on the world origin with unit-sized cells.
func (g *Grid) CellToWorld(p Position) Vec {
	return Vec{
		X: -float64(g.Width)/2 + 0.5 + float64(p.X),
		Y: -float64(g.Height)/2 + 0.5 + float64(p.Y),
	}
}

// WorldToCell is the inverse of CellToWorld, rounding to the nearest cell.
func (g *Grid) WorldToCell(v Vec) Position {
	fx := v.X + float64(g.Width)/2 - 0.5
	fy := v.Y + float64(g.Height)/2 - 0.5
	return Position{X: roundHalfUp(fx), Y: roundHalfUp(fy)}
}

// Positions returns every position holding kind, in row-major order.
func (g *Grid) Positions(kind CellKind) []Position {
	var out []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Cells[y*g.Width+x] == kind {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid back into map-text form.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.Width; x++ {
			sb.WriteRune(g.Cells[y*g.Width+x].Symbol())
		}
	}
	return sb.String()
}

func roundHalfUp(f float64) int {
	if f < 0 {
		return -int(-f + 0.5)
	}
	return int(f + 0.5)
}
