package actions

import (
	"fmt"

	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/pkg/api"
)

// HandleReady records whether the actor wants the next round to start.
// The instance starts it once everyone is ready.
func HandleReady(ctx handlers.Context, p api.ReadyPayload) (handlers.Result, error) {
	if ctx.Arena.RoundActive() {
		return handlers.EmptyResult(), handlers.ErrRoundRunning
	}
	if ctx.Actor.Player.Ready == p.Ready {
		return handlers.EmptyResult(), nil
	}
	ctx.Actor.Player.Ready = p.Ready

	if p.Ready {
		return handlers.Result{Msg: fmt.Sprintf("%s is ready.", ctx.Actor.Name), MsgType: "ROUND"}, nil
	}
	return handlers.Result{Msg: fmt.Sprintf("%s is not ready.", ctx.Actor.Name), MsgType: "ROUND"}, nil
}
