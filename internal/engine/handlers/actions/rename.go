package actions

import (
	"fmt"
	"strings"

	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/pkg/api"
)

func HandleRename(ctx handlers.Context, p api.RenamePayload) (handlers.Result, error) {
	name := strings.TrimSpace(p.Name)
	old := ctx.Actor.Name
	if name == old {
		return handlers.EmptyResult(), nil
	}
	ctx.Actor.Name = name
	return handlers.Info(fmt.Sprintf("%s is now called %s.", old, name)), nil
}
