package domain

import "math"

// Position is an integer grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec is a continuous world-space point on the ground plane.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cardinal directions in the order blasts are resolved: +x, -x, +y, -y.
var Directions = [4]Position{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

// DistanceTo returns the euclidean distance to other.
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(float64(p.X-other.X), float64(p.Y-other.Y))
}

// DistanceSquaredTo avoids the square root when only comparing.
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// ChebyshevTo is the king-move distance, used for reach checks.
func (p Position) ChebyshevTo(other Position) int {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// IsAdjacent reports whether other is one of the eight neighbours.
func (p Position) IsAdjacent(other Position) bool {
	return p.ChebyshevTo(other) == 1
}

// Shift returns p moved by (dx, dy).
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns p moved n times along dir.
func (p Position) Step(dir Position, n int) Position {
	return Position{X: p.X + dir.X*n, Y: p.Y + dir.Y*n}
}

// DistanceTo returns the euclidean distance between two world points.
func (v Vec) DistanceTo(other Vec) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
