// Package admin holds commands for operators, enabled by config.
package admin

import (
	"fmt"

	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/pkg/api"
)

// HandleRegenerate rebuilds the map with the given parameters. Every
// connected client regenerates with them.
func HandleRegenerate(ctx handlers.Context, p api.RegeneratePayload) (handlers.Result, error) {
	if !ctx.Rules.AllowAdmin {
		return handlers.EmptyResult(), handlers.ErrForbidden
	}
	ctx.Arena.Regenerate(p.Seed, p.CrateCount)
	return handlers.Result{
		Msg:     fmt.Sprintf("Map regenerated (seed %d, %d crates).", p.Seed, p.CrateCount),
		MsgType: "INFO",
	}, nil
}
