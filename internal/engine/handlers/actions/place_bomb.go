package actions

import (
	"fmt"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/pkg/api"
)

// HandlePlaceBomb arms a bomb on a free cell within reach of the actor.
func HandlePlaceBomb(ctx handlers.Context, p api.PositionPayload) (handlers.Result, error) {
	actor := ctx.Actor
	if actor.Player.BombCooldown > 0 {
		return handlers.EmptyResult(), fmt.Errorf("%v left: %w", actor.Player.BombCooldown, handlers.ErrOnCooldown)
	}

	cell := domain.Position{X: p.X, Y: p.Y}
	if !ctx.World.Grid.InBounds(cell) {
		return handlers.EmptyResult(), fmt.Errorf("cell %v: %w", cell, domain.ErrOutOfBounds)
	}
	if actor.Pos.ChebyshevTo(cell) > ctx.Rules.InteractionDistance {
		return handlers.EmptyResult(), fmt.Errorf("cell %v: %w", cell, handlers.ErrTooFar)
	}
	if ctx.World.IsCellBlocked(cell) {
		return handlers.EmptyResult(), fmt.Errorf("cell %v: %w", cell, handlers.ErrCellOccupied)
	}

	if _, err := ctx.Arena.SpawnBomb(actor, cell); err != nil {
		return handlers.EmptyResult(), err
	}
	actor.Player.BombCooldown = ctx.Rules.BombCooldown

	return handlers.EmptyResult(), nil
}
