package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/internal/mapgen"
	"github.com/krakowski/BombermanVR/internal/network"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/internal/replication"
	"github.com/krakowski/BombermanVR/internal/systems"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/krakowski/BombermanVR/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ErrNotPlaying is returned for commands from a token that has no player.
var ErrNotPlaying = errors.New("no player for token")

// JoinRequest asks the instance to seat a player. The instance answers on
// Reply with the player's entity ID.
type JoinRequest struct {
	Token string
	Name  string
	Reply chan domain.EntityID
}

// Instance is one running arena. All state is owned by the goroutine in Run;
// everything else talks to it through the channels.
type Instance struct {
	Name string

	cfg      Config
	hub      *network.Broadcaster
	handlers map[domain.ActionType]handlers.HandlerFunc
	mapName  string
	mapText  string

	World     *domain.World
	Pool      *pool.Pool
	generator *mapgen.Generator
	resolver  *systems.ExplosionResolver
	markers   *systems.MarkerTracker
	powerUps  *systems.PowerUpSystem
	bombs     []*systems.Bomb

	// Seed and CrateCount are the replicated map parameters. A dirty field
	// schedules a regeneration, which flushes both.
	Seed       *replication.Field[int32]
	CrateCount *replication.Field[int32]

	players    map[string]*domain.Entity // by session token
	order      []*domain.Entity          // join order
	nextPlayer uint64
	nextNetID  uint32

	round       int
	roundClock  time.Duration
	roundActive bool
	roundSize   int
	roundCheck  bool
	leaderboard []api.LeaderboardEntry

	destroyed []domain.Position

	// Outgoing state, flushed by publish.
	CurrentTick        int
	Logs               []api.LogEntry
	spawns             []api.SpawnView
	unspawns           []uint32
	mapSpawns          []api.SpawnView
	mapUnspawns        []uint32
	pendingState       []domain.EntityID
	changed            bool
	mapChanged         bool
	leaderboardPending bool

	Rng *rand.Rand

	CommandChan chan domain.InternalCommand
	JoinChan    chan JoinRequest
	LeaveChan   chan string
	InspectChan chan func(*Instance)

	log *logrus.Entry
}

// NewInstance builds the arena for mapText and generates the first round.
func NewInstance(cfg Config, mapName, mapText string, hub *network.Broadcaster, hs map[domain.ActionType]handlers.HandlerFunc) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.RngSeed))
	i := &Instance{
		Name:        utils.RoomName(rng),
		cfg:         cfg,
		hub:         hub,
		handlers:    hs,
		mapName:     mapName,
		mapText:     mapText,
		World:       domain.NewWorld(domain.NewGrid(0, 0)),
		Pool:        pool.New(nil),
		players:     make(map[string]*domain.Entity),
		Rng:         rng,
		CommandChan: make(chan domain.InternalCommand, 100),
		JoinChan:    make(chan JoinRequest, 10),
		LeaveChan:   make(chan string, 10),
		InspectChan: make(chan func(*Instance)),
	}
	i.log = logger.Log.WithFields(logrus.Fields{
		"component": "instance",
		"instance":  i.Name,
	})

	err := pool.RegisterArena(i.Pool, pool.Sizes{
		Bombs:      cfg.BombPoolSize,
		Explosions: cfg.ExplosionPoolSize,
		PowerUps:   cfg.PowerUpPoolSize,
	})
	if err != nil {
		return nil, err
	}

	i.generator = mapgen.NewGenerator(i.World, mapgen.Options{
		Authority:        true,
		OnCrateDestroyed: func(e *domain.Entity) { i.destroyed = append(i.destroyed, e.Pos) },
	})
	i.markers = systems.NewMarkerTracker(i.Pool, cfg.MarkerLifetime)
	i.resolver = systems.NewExplosionResolver(i.World, i.Pool, i, i.markers)
	i.powerUps = systems.NewPowerUpSystem(i.World, i.Pool, rng, cfg.PowerUpInterval)

	i.Seed = replication.NewField(cfg.Seed, i.logParam("seed"))
	i.CrateCount = replication.NewField(cfg.CrateCount, i.logParam("crate_count"))

	if err := i.regenerate(); err != nil {
		return nil, fmt.Errorf("map %q: %w", mapName, err)
	}
	i.round = 1
	i.roundActive = true

	return i, nil
}

// Run is the instance loop. It returns when ctx is cancelled.
func (i *Instance) Run(ctx context.Context) {
	i.log.WithField("tick_rate", i.cfg.TickRate).Info("Instance loop started")

	ticker := time.NewTicker(i.cfg.TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			i.log.Info("Instance loop stopped")
			return

		case req := <-i.JoinChan:
			i.join(req)

		case token := <-i.LeaveChan:
			i.leave(token)

		case cmd := <-i.CommandChan:
			i.executeCommand(cmd)

		case fn := <-i.InspectChan:
			i.drain()
			fn(i)

		case <-ticker.C:
			i.Step(i.cfg.TickRate)
			i.publish()
		}
	}
}

// drain handles everything already queued, so an inspection sees the
// effects of commands sent before it.
func (i *Instance) drain() {
	for {
		select {
		case req := <-i.JoinChan:
			i.join(req)
		case token := <-i.LeaveChan:
			i.leave(token)
		case cmd := <-i.CommandChan:
			i.executeCommand(cmd)
		default:
			return
		}
	}
}

// Step advances the simulation by dt.
func (i *Instance) Step(dt time.Duration) {
	i.CurrentTick++
	if i.roundActive {
		i.roundClock += dt
	}

	for _, p := range i.order {
		p.Player.Tick(dt)
	}

	for _, e := range i.powerUps.Tick(dt) {
		e.NetID = i.allocNetID()
		i.spawns = append(i.spawns, spawnView(e, 0))
	}

	// A ticking bomb can set off others further down the list; those are
	// already exploded when their turn comes.
	for _, b := range slices.Clone(i.bombs) {
		if !b.Exploded() {
			b.Tick(dt)
		}
	}
	for _, b := range slices.Clone(i.bombs) {
		if b.Exploded() {
			b.Remove()
		}
	}

	i.markers.Tick(dt)
	i.settle()
}

// settle applies the consequences of whatever just happened: map
// regeneration, round end and round start.
func (i *Instance) settle() {
	if i.Seed.Dirty() || i.CrateCount.Dirty() {
		if err := i.regenerate(); err != nil {
			i.Seed.Flush()
			i.CrateCount.Flush()
			i.log.WithError(err).Error("Map regeneration failed")
		}
	}
	if i.roundCheck {
		i.roundCheck = false
		i.checkRoundEnd()
	}
	if !i.roundActive && i.allReady() {
		i.startRound()
	}
}

func (i *Instance) executeCommand(cmd domain.InternalCommand) {
	cmdLog := i.log.WithFields(logrus.Fields{
		"action": cmd.Action,
		"token":  cmd.Token,
	})

	actor := i.players[cmd.Token]
	if actor == nil {
		cmdLog.WithError(ErrNotPlaying).Warn("Command dropped")
		return
	}

	handler, ok := i.handlers[cmd.Action]
	if !ok {
		cmdLog.Debug("No handler for action")
		return
	}

	ctx := handlers.Context{
		World: i.World,
		Actor: actor,
		Arena: i,
		Rules: i.cfg.Rules(),
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		cmdLog.WithError(err).WithField("actor", actor.ID).Warn("Command rejected")
		return
	}

	if result.Msg != "" {
		i.AddLog(result.Msg, result.MsgType)
	}
	i.changed = true
	i.settle()
}

// regenerate drops every transient object and rebuilds the map from the
// current replicated parameters.
func (i *Instance) regenerate() error {
	layout, err := i.generator.Generate(i.mapText, i.Seed.Get(), i.CrateCount.Get())
	if err != nil {
		return err
	}
	i.Seed.Flush()
	i.CrateCount.Flush()

	i.clearBombs()
	i.markers.Clear()
	for _, e := range i.powerUps.Reset(layout.ItemSpawns) {
		i.unspawns = append(i.unspawns, e.NetID)
	}

	i.destroyed = nil
	i.seatPlayers(layout)

	// Everything queued so far belongs to the old map and goes out with
	// the MAP message, ahead of the regeneration.
	i.mapSpawns = append(i.mapSpawns, i.spawns...)
	i.mapUnspawns = append(i.mapUnspawns, i.unspawns...)
	i.spawns, i.unspawns = nil, nil
	i.mapChanged = true
	return nil
}

func (i *Instance) clearBombs() {
	for _, b := range slices.Clone(i.bombs) {
		b.Discard()
	}
}

func (i *Instance) logParam(name string) func(prev, next int32) {
	return func(prev, next int32) {
		i.log.WithFields(logrus.Fields{
			"param": name,
			"from":  prev,
			"to":    next,
		}).Debug("Map parameter changed")
	}
}

func (i *Instance) allocNetID() uint32 {
	i.nextNetID++
	return i.nextNetID
}

// --- handlers.Arena ---

func (i *Instance) SendState(id domain.EntityID) {
	i.pendingState = append(i.pendingState, id)
}

func (i *Instance) SpawnBomb(owner *domain.Entity, cell domain.Position) (*domain.Entity, error) {
	// The ring hands out its oldest slot; a bomb still burning there goes
	// off early instead of being overwritten.
	if next := i.Pool.Peek(pool.TypeBomb); next != nil && next.Active {
		if b := i.bombFor(next); b != nil {
			b.Remove()
		}
	}

	e, err := i.Pool.Acquire(pool.TypeBomb, cell)
	if err != nil {
		return nil, err
	}
	e.NetID = i.allocNetID()

	b := systems.NewBomb(e, owner.ID, i.cfg.Bomb, i.resolver, i.removeBomb)
	i.bombs = append(i.bombs, b)
	i.World.AddEntity(e)
	i.spawns = append(i.spawns, spawnView(e, 0))

	i.log.WithFields(logrus.Fields{
		"owner":  owner.ID,
		"cell":   cell,
		"net_id": e.NetID,
	}).Debug("Bomb placed")
	return e, nil
}

func (i *Instance) Collect(actor *domain.Entity) string {
	e := i.powerUps.Collect(actor.Pos)
	if e == nil {
		return ""
	}
	i.unspawns = append(i.unspawns, e.NetID)

	switch pool.TypeID(e.TypeID) {
	case pool.TypePowerUpHealth:
		actor.Health.Heal(1)
		return fmt.Sprintf("%s found a health pack (%d/%d).", actor.Name, actor.Health.Current, actor.Health.Max)
	case pool.TypePowerUpSpeed:
		actor.Player.Boost = i.cfg.SpeedBoostDuration
		return fmt.Sprintf("%s picked up a speed boost.", actor.Name)
	}
	return ""
}

func (i *Instance) RoundActive() bool {
	return i.roundActive
}

func (i *Instance) Regenerate(seed, crateCount int32) {
	i.Seed.Set(seed)
	i.CrateCount.Set(crateCount)
}

// --- systems.DamageSink ---

func (i *Instance) ApplyBlastDamage(target, source *domain.Entity, amount int) {
	msg, killed := systems.ApplyBlastDamage(target, source, amount)
	if msg != "" {
		i.AddLog(msg, "COMBAT")
	}
	i.changed = true
	if killed {
		i.eliminate(target)
	}
}

func (i *Instance) removeBomb(b *systems.Bomb) {
	if idx := slices.Index(i.bombs, b); idx >= 0 {
		i.bombs = slices.Delete(i.bombs, idx, idx+1)
	}
	i.World.RemoveEntity(b.Entity)
	i.unspawns = append(i.unspawns, b.Entity.NetID)
	i.Pool.Release(b.Entity)
}

func (i *Instance) bombFor(e *domain.Entity) *systems.Bomb {
	for _, b := range i.bombs {
		if b.Entity == e {
			return b
		}
	}
	return nil
}
