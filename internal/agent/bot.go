// Package agent contains headless players.
//
// A Bot plays inside the server process: it joins through the game service,
// subscribes to the hub like a websocket client would and mirrors the arena
// in a replica, which is all it decides on. An Observer does the same over a
// real websocket connection without ever sending commands.
package agent

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/engine"
	"github.com/krakowski/BombermanVR/internal/replica"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/krakowski/BombermanVR/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// DefaultThinkInterval is how often a bot acts.
const DefaultThinkInterval = 250 * time.Millisecond

// bombChance is the share of decisions that place a bomb when possible.
const bombChance = 0.2

// Bot is a computer player.
//
// Lifecycle:
//  1. NewBot builds the local replica.
//  2. Run joins, registers with the hub and consumes updates until ctx ends.
//  3. Every think interval the bot picks a command from what its replica
//     shows and sends it through the service.
type Bot struct {
	Token    string
	Name     string
	EntityID domain.EntityID
	Service  *engine.GameService
	Replica  *replica.Replica

	think time.Duration
	rng   *rand.Rand
	log   *logrus.Entry
}

func NewBot(service *engine.GameService, cfg replica.Config, maps replica.MapSource, name string) (*Bot, error) {
	r, err := replica.New(cfg, maps)
	if err != nil {
		return nil, err
	}
	token := utils.GenerateID()
	return &Bot{
		Token:   token,
		Name:    name,
		Service: service,
		Replica: r,
		think:   DefaultThinkInterval,
		rng:     rand.New(rand.NewSource(utils.StringToSeed(token))),
		log:     logger.Component("bot").WithField("name", name),
	}, nil
}

// Run plays until ctx is cancelled or the hub drops the bot.
func (b *Bot) Run(ctx context.Context) error {
	id, err := b.Service.Join(ctx, b.Token, b.Name)
	if err != nil {
		return err
	}
	b.EntityID = id
	b.log = b.log.WithField("entity_id", id)

	inbox := b.Service.Hub.Register(id)
	defer func() {
		if b.Service.Hub.Unregister(id, inbox) {
			b.Service.Leave(b.Token)
		}
		b.log.Info("Bot shut down")
	}()
	b.send(domain.ActionInit, nil)
	b.log.Info("Bot joined")

	ticker := time.NewTicker(b.think)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-inbox:
			if !ok {
				return nil
			}
			if err := b.Replica.Apply(msg); err != nil {
				b.log.WithError(err).Warn("Failed to apply server message")
			}

		case now := <-ticker.C:
			b.Replica.Step(now.Sub(last))
			last = now
			if action, payload, ok := b.Decide(); ok {
				b.send(action, payload)
			}
		}
	}
}

// Decide picks the next command from the replica. It returns false when
// there is nothing worth doing.
func (b *Bot) Decide() (domain.ActionType, any, bool) {
	if !b.Replica.Synced() {
		return domain.ActionUnknown, nil, false
	}
	me, ok := b.Replica.Player(b.Replica.MyEntityID)
	if !ok {
		return domain.ActionUnknown, nil, false
	}

	if me.Spectator || me.IsDead {
		if !me.Ready && len(b.Replica.Leaderboard) > 0 {
			return domain.ActionReady, api.ReadyPayload{Ready: true}, true
		}
		return domain.ActionUnknown, nil, false
	}

	pos := domain.Position{X: me.Pos.X, Y: me.Pos.Y}
	danger := b.dangerZone()

	if !danger.Has(pos) && b.rng.Float64() < bombChance {
		if cell, ok := b.bombCell(pos); ok {
			return domain.ActionPlaceBomb, api.PositionPayload{X: cell.X, Y: cell.Y}, true
		}
	}

	moves := b.openNeighbours(pos)
	if len(moves) == 0 {
		return domain.ActionUnknown, nil, false
	}
	// Leave a blast line if possible, otherwise wander.
	var safe []domain.Position
	for _, m := range moves {
		if !danger.Has(pos.Shift(m.X, m.Y)) {
			safe = append(safe, m)
		}
	}
	if danger.Has(pos) && len(safe) > 0 {
		moves = safe
	} else if !danger.Has(pos) {
		if len(safe) == 0 {
			return domain.ActionUnknown, nil, false
		}
		moves = safe
	}

	dir := moves[b.rng.Intn(len(moves))]
	return domain.ActionMove, api.DirectionPayload{Dx: dir.X, Dy: dir.Y}, true
}

// bombCell picks a free neighbour cell next to a crate, if any.
func (b *Bot) bombCell(pos domain.Position) (domain.Position, bool) {
	w := b.Replica.World
	for _, dir := range domain.Directions {
		cell := pos.Step(dir, 1)
		if w.IsCellBlocked(cell) {
			continue
		}
		for _, around := range domain.Directions {
			for _, e := range w.GetEntitiesAt(cell.Step(around, 1)) {
				if e.Kind == domain.KindCrate {
					return cell, true
				}
			}
		}
	}
	return domain.Position{}, false
}

func (b *Bot) openNeighbours(pos domain.Position) []domain.Position {
	var out []domain.Position
	for _, dir := range domain.Directions {
		if !b.Replica.World.IsCellBlocked(pos.Step(dir, 1)) {
			out = append(out, dir)
		}
	}
	return out
}

// dangerZone marks the cells the burning bombs will reach.
func (b *Bot) dangerZone() mapset.Set[domain.Position] {
	zone := mapset.New[domain.Position]()
	grid := b.Replica.World.Grid
	for _, bomb := range b.Replica.Bombs() {
		origin := bomb.Entity.Pos
		zone.Put(origin)
		for _, dir := range domain.Directions {
			for n := 1; n <= bomb.Config().Radius; n++ {
				cell := origin.Step(dir, n)
				if !grid.InBounds(cell) || grid.At(cell).IsObstruction() {
					break
				}
				zone.Put(cell)
			}
		}
	}
	return zone
}

func (b *Bot) send(action domain.ActionType, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			b.log.WithError(err).Error("Failed to marshal payload")
			return
		}
		raw = data
	}
	b.Service.ProcessCommand(api.ClientCommand{
		Action:  action.String(),
		Token:   b.Token,
		Payload: raw,
	})
}
