package systems

import "github.com/krakowski/BombermanVR/internal/domain"

// MovementResult is the outcome of a proposed one-cell step.
type MovementResult struct {
	Target    domain.Position
	HasMoved  bool
	BlockedBy *domain.Entity
	IsWall    bool
}

// CalculateMove checks a step of (dx, dy) for e without changing the world.
// Each component is clamped to one cell. Other players never block.
func CalculateMove(e *domain.Entity, dx, dy int, w *domain.World) MovementResult {
	target := e.Pos.Shift(clampStep(dx), clampStep(dy))
	res := MovementResult{Target: target}

	if target == e.Pos {
		return res
	}
	if !w.Grid.InBounds(target) || w.Grid.At(target).IsObstruction() {
		res.IsWall = true
		return res
	}

	for _, other := range w.GetEntitiesAt(target) {
		if other == e || !other.Active {
			continue
		}
		if other.IsBlocking() {
			res.BlockedBy = other
			return res
		}
	}

	res.HasMoved = true
	return res
}

func clampStep(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
