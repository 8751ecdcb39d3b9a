package actions

import (
	"time"

	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/internal/systems"
	"github.com/krakowski/BombermanVR/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	actor := ctx.Actor
	if actor.Player.MoveCooldown > 0 {
		// Input arrives faster than the step rate; drop it quietly.
		return handlers.EmptyResult(), nil
	}

	res := systems.CalculateMove(actor, p.Dx, p.Dy, ctx.World)
	if !res.HasMoved {
		return handlers.EmptyResult(), nil
	}

	if err := ctx.World.UpdateEntityPos(actor, res.Target); err != nil {
		return handlers.EmptyResult(), err
	}

	cooldown := ctx.Rules.MoveCooldown
	if actor.Player.Boosted() && ctx.Rules.SpeedBoost > 1 {
		cooldown = time.Duration(float64(cooldown) / ctx.Rules.SpeedBoost)
	}
	actor.Player.MoveCooldown = cooldown

	if msg := ctx.Arena.Collect(actor); msg != "" {
		return handlers.Info(msg), nil
	}
	return handlers.EmptyResult(), nil
}
