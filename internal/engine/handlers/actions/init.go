package actions

import "github.com/krakowski/BombermanVR/internal/engine/handlers"

// HandleInit resends the full state to the actor.
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	ctx.Arena.SendState(ctx.Actor.ID)
	return handlers.EmptyResult(), nil
}
