package engine

import (
	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/api"
)

// publish sends whatever accumulated since the last call: a MAP message
// after regeneration, queued snapshots, the leaderboard and the tick's
// UPDATE. Receivers apply spawns, then unspawns, then map changes.
func (i *Instance) publish() {
	if i.mapChanged {
		i.hub.Broadcast(api.ServerResponse{
			Type:     api.MsgMap,
			Tick:     i.CurrentTick,
			Map:      i.mapView(),
			Spawns:   i.mapSpawns,
			Unspawns: i.mapUnspawns,
		})
		i.mapSpawns, i.mapUnspawns = nil, nil
		i.mapChanged = false
	}

	for _, id := range i.pendingState {
		i.hub.SendTo(id, i.BuildStateFor(id))
	}
	i.pendingState = nil

	if i.leaderboardPending {
		i.hub.Broadcast(api.ServerResponse{
			Type:        api.MsgLeaderboard,
			Tick:        i.CurrentTick,
			Leaderboard: i.leaderboard,
		})
		i.leaderboardPending = false
	}

	if i.changed || len(i.spawns) > 0 || len(i.unspawns) > 0 || len(i.Logs) > 0 {
		i.hub.Broadcast(api.ServerResponse{
			Type:     api.MsgUpdate,
			Tick:     i.CurrentTick,
			Spawns:   i.spawns,
			Unspawns: i.unspawns,
			Players:  i.playerViews(),
			Logs:     i.Logs,
		})
	}
	i.resetOutgoing()
}

func (i *Instance) resetOutgoing() {
	i.spawns = nil
	i.unspawns = nil
	i.Logs = nil
	i.changed = false
}

// BuildStateFor creates the full snapshot for one player: map parameters,
// every live networked object and all players.
func (i *Instance) BuildStateFor(id domain.EntityID) api.ServerResponse {
	var spawns []api.SpawnView
	for _, b := range i.bombs {
		spawns = append(spawns, spawnView(b.Entity, b.Elapsed().Milliseconds()))
	}
	for _, sp := range i.powerUps.Spawners() {
		if e := sp.Current(); e != nil {
			spawns = append(spawns, spawnView(e, 0))
		}
	}

	view := i.mapView()
	for _, p := range i.destroyed {
		view.Destroyed = append(view.Destroyed, api.PositionView{X: p.X, Y: p.Y})
	}

	return api.ServerResponse{
		Type:        api.MsgState,
		Tick:        i.CurrentTick,
		MyEntityID:  id.String(),
		Map:         view,
		Spawns:      spawns,
		Players:     i.playerViews(),
		Leaderboard: i.leaderboard,
	}
}

func (i *Instance) mapView() *api.MapView {
	return &api.MapView{
		Name:       i.mapName,
		Seed:       i.Seed.Get(),
		CrateCount: i.CrateCount.Get(),
		Width:      i.World.Grid.Width,
		Height:     i.World.Grid.Height,
		Round:      i.round,
	}
}

func (i *Instance) playerViews() []api.PlayerView {
	views := make([]api.PlayerView, 0, len(i.order))
	for _, e := range i.order {
		views = append(views, api.PlayerView{
			ID:        e.ID.String(),
			Name:      e.Name,
			Pos:       api.PositionView{X: e.Pos.X, Y: e.Pos.Y},
			HP:        e.Health.Current,
			MaxHP:     e.Health.Max,
			IsDead:    e.Health.IsDead(),
			Spectator: e.Player.Spectator,
			Ready:     e.Player.Ready,
			Boosted:   e.Player.Boosted(),
		})
	}
	return views
}

func spawnView(e *domain.Entity, elapsedMs int64) api.SpawnView {
	view := api.SpawnView{
		NetID:     e.NetID,
		TypeID:    e.TypeID,
		Pos:       api.PositionView{X: e.Pos.X, Y: e.Pos.Y},
		ElapsedMs: elapsedMs,
	}
	if e.Owner != 0 {
		view.Owner = e.Owner.String()
	}
	return view
}
