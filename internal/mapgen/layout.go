package mapgen

import (
	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/shuffle"
)

// Layout is the outcome of one generation run. Two runs with the same text,
// seed and crate count produce equal layouts.
type Layout struct {
	Grid       *domain.Grid
	Seed       int32
	CrateCount int32

	// Crates are the randomly placed crates, in placement order.
	Crates []domain.Position
	// FixedCrates come from 'C' cells.
	FixedCrates  []domain.Position
	ItemSpawns   []domain.Position
	PlayerStarts []domain.Position
	// Remaining are the Empty cells that did not receive a crate.
	Remaining []domain.Position
}

// Plan parses text and computes the crate placement without touching any
// world. Negative counts are treated as zero; counts beyond the number of
// Empty cells are silently bounded.
func Plan(text string, seed, crateCount int32) (*Layout, error) {
	grid, err := Parse(text)
	if err != nil {
		return nil, err
	}

	layout := &Layout{
		Grid:         grid,
		Seed:         seed,
		CrateCount:   crateCount,
		FixedCrates:  grid.Positions(domain.CellCrate),
		ItemSpawns:   grid.Positions(domain.CellItem),
		PlayerStarts: grid.Positions(domain.CellPlayerStart),
	}

	empty := grid.Positions(domain.CellEmpty)
	shuffle.InPlace(empty, seed)

	n := int(crateCount)
	if n < 0 {
		n = 0
	}
	if n > len(empty) {
		n = len(empty)
	}
	layout.Crates = empty[:n:n]
	layout.Remaining = empty[n:]
	return layout, nil
}

// AllCrates returns fixed crates followed by random ones.
func (l *Layout) AllCrates() []domain.Position {
	out := make([]domain.Position, 0, len(l.FixedCrates)+len(l.Crates))
	out = append(out, l.FixedCrates...)
	return append(out, l.Crates...)
}
