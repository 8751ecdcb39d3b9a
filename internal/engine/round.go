package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/mapgen"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/utils"
	"github.com/sirupsen/logrus"
)

// playerHalfExtent is the footprint of a player for blast sweeps.
const playerHalfExtent = 0.3

func (i *Instance) join(req JoinRequest) {
	name := strings.TrimSpace(req.Name)

	if e, ok := i.players[req.Token]; ok {
		if name != "" {
			e.Name = name
		}
		i.reply(req, e.ID)
		return
	}

	if name == "" || (api.RenamePayload{Name: name}).Validate() != nil {
		name = utils.PlayerName(i.Rng)
	}

	i.nextPlayer++
	e := &domain.Entity{
		ID:         domain.PackEntityID(domain.KindPlayer, domain.GroupPlayers, i.nextPlayer),
		Kind:       domain.KindPlayer,
		Tag:        domain.TagPlayer,
		Name:       name,
		HalfExtent: playerHalfExtent,
		Active:     true,
		Health:     domain.NewHealth(i.cfg.MaxHealth),
		Player:     &domain.PlayerComponent{Token: req.Token},
	}
	i.players[req.Token] = e
	i.order = append(i.order, e)

	if i.roundActive {
		e.Player.InRound = true
		e.Player.JoinedAt = i.roundClock
		i.roundSize++
		i.seat(e, len(i.order)-1, i.generator.Layout())
		i.AddLog(fmt.Sprintf("%s joined the arena.", e.Name), "INFO")
	} else {
		e.Player.Spectator = true
		i.AddLog(fmt.Sprintf("%s is watching.", e.Name), "INFO")
	}

	i.log.WithFields(logrus.Fields{
		"entity_id": e.ID,
		"name":      e.Name,
		"spectator": e.Player.Spectator,
	}).Info("Player joined")

	i.changed = true
	i.reply(req, e.ID)
}

func (i *Instance) reply(req JoinRequest, id domain.EntityID) {
	i.SendState(id)
	if req.Reply != nil {
		req.Reply <- id
	}
}

func (i *Instance) leave(token string) {
	e, ok := i.players[token]
	if !ok {
		return
	}
	delete(i.players, token)
	if idx := indexOf(i.order, e); idx >= 0 {
		i.order = append(i.order[:idx], i.order[idx+1:]...)
	}
	i.World.RemoveEntity(e)

	i.AddLog(fmt.Sprintf("%s left.", e.Name), "INFO")
	i.log.WithField("entity_id", e.ID).Info("Player left")

	i.changed = true
	i.roundCheck = true
	i.settle()
}

// eliminate turns a killed player into a spectator.
func (i *Instance) eliminate(e *domain.Entity) {
	if e.Player == nil || e.Player.Spectator {
		return
	}
	e.Player.Spectator = true
	e.Player.DiedAt = i.roundClock
	i.World.RemoveEntity(e)
	i.roundCheck = true
}

func (i *Instance) alivePlayers() []*domain.Entity {
	var alive []*domain.Entity
	for _, e := range i.order {
		if e.IsAlive() {
			alive = append(alive, e)
		}
	}
	return alive
}

func (i *Instance) allReady() bool {
	if len(i.order) == 0 {
		return false
	}
	for _, e := range i.order {
		if !e.Player.Ready {
			return false
		}
	}
	return true
}

// checkRoundEnd closes the round once at most one player of a round that
// had company is left standing.
func (i *Instance) checkRoundEnd() {
	if !i.roundActive || i.roundSize < 2 {
		return
	}
	alive := i.alivePlayers()
	if len(alive) > 1 {
		return
	}
	i.endRound(alive)
}

func (i *Instance) endRound(survivors []*domain.Entity) {
	i.roundActive = false

	var participants []*domain.Entity
	for _, e := range i.order {
		if e.Player.InRound {
			participants = append(participants, e)
		}
		e.Player.Ready = false
	}

	sort.SliceStable(participants, func(a, b int) bool {
		pa, pb := participants[a], participants[b]
		if pa.IsAlive() != pb.IsAlive() {
			return pa.IsAlive()
		}
		return pa.Player.Survived(i.roundClock) > pb.Player.Survived(i.roundClock)
	})

	i.leaderboard = make([]api.LeaderboardEntry, 0, len(participants))
	for rank, e := range participants {
		i.leaderboard = append(i.leaderboard, api.LeaderboardEntry{
			Rank:       rank + 1,
			Name:       e.Name,
			SurvivedMs: e.Player.Survived(i.roundClock).Milliseconds(),
			Winner:     len(survivors) == 1 && e == survivors[0],
		})
	}
	i.leaderboardPending = true

	if len(survivors) == 1 {
		i.AddLog(fmt.Sprintf("%s wins round %d!", survivors[0].Name, i.round), "ROUND")
	} else {
		i.AddLog(fmt.Sprintf("Round %d ends without a winner.", i.round), "ROUND")
	}
	i.log.WithFields(logrus.Fields{
		"round":        i.round,
		"participants": len(participants),
		"duration":     i.roundClock,
	}).Info("Round ended")
}

// startRound revives everyone and generates a fresh map.
func (i *Instance) startRound() {
	i.round++
	i.roundClock = 0
	i.roundActive = true
	i.roundSize = len(i.order)
	i.leaderboard = nil

	for _, e := range i.order {
		e.Player.Spectator = false
		e.Player.InRound = true
		e.Player.Ready = false
		e.Player.JoinedAt = 0
		e.Player.DiedAt = 0
		e.Player.BombCooldown = 0
		e.Player.Boost = 0
		e.Health.Reset()
	}

	seed, crates := RandomRound(i.Rng)
	i.Seed.Set(seed)
	i.CrateCount.Set(crates)
	if err := i.regenerate(); err != nil {
		i.log.WithError(err).Error("Map regeneration failed")
	}

	i.AddLog(fmt.Sprintf("Round %d begins.", i.round), "ROUND")
	i.log.WithFields(logrus.Fields{
		"round":   i.round,
		"players": i.roundSize,
		"seed":    seed,
		"crates":  crates,
	}).Info("Round started")
	i.changed = true
}

// seatPlayers puts every living player on a start cell of layout.
func (i *Instance) seatPlayers(layout *mapgen.Layout) {
	slot := 0
	for _, e := range i.order {
		if !e.IsAlive() {
			continue
		}
		i.seat(e, slot, layout)
		slot++
	}
}

// seat places e on the slot-th start cell, wrapping round-robin. Maps
// without start cells fall back to the first free cell.
func (i *Instance) seat(e *domain.Entity, slot int, layout *mapgen.Layout) {
	pos, ok := i.startCell(slot, layout)
	if !ok {
		i.log.WithField("entity_id", e.ID).Warn("No free cell to seat player")
		return
	}
	e.Player.Start = pos

	i.World.RemoveEntity(e)
	e.Pos = pos
	i.World.AddEntity(e)
}

func (i *Instance) startCell(slot int, layout *mapgen.Layout) (domain.Position, bool) {
	if layout != nil && len(layout.PlayerStarts) > 0 {
		return layout.PlayerStarts[slot%len(layout.PlayerStarts)], true
	}
	grid := i.World.Grid
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := domain.Position{X: x, Y: y}
			if !i.World.IsCellBlocked(p) {
				return p, true
			}
		}
	}
	return domain.Position{}, false
}

func indexOf(list []*domain.Entity, e *domain.Entity) int {
	for idx, other := range list {
		if other == e {
			return idx
		}
	}
	return -1
}
