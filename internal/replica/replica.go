// Package replica mirrors an arena on the receiving side of the wire.
//
// A Replica regenerates the map locally from the replicated seed and crate
// count, materializes networked bombs and power-ups from spawn messages and
// runs bomb fuses itself. Blasts destroy crates and leave markers but never
// deal damage; player state comes from the server.
package replica

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/mapgen"
	"github.com/krakowski/BombermanVR/internal/network"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/internal/replication"
	"github.com/krakowski/BombermanVR/internal/systems"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ErrNoMap is returned for a STATE or MAP message without map parameters.
var ErrNoMap = errors.New("message carries no map")

// MapSource loads map text by name.
type MapSource interface {
	Load(name string) (string, error)
}

// Config must match the server's bomb and pool settings for the local
// simulation to agree with it.
type Config struct {
	Bomb           systems.BombConfig
	Sizes          pool.Sizes
	MarkerLifetime time.Duration
}

func DefaultConfig() Config {
	return Config{
		Bomb:           systems.DefaultBombConfig(),
		Sizes:          pool.Sizes{Bombs: 32, Explosions: 256, PowerUps: 8},
		MarkerLifetime: systems.DefaultMarkerLifetime,
	}
}

// Replica is not safe for concurrent use.
type Replica struct {
	cfg  Config
	maps MapSource

	World     *domain.World
	Pool      *pool.Pool
	Spawns    *network.SpawnRegistry
	generator *mapgen.Generator
	resolver  *systems.ExplosionResolver
	markers   *systems.MarkerTracker

	bombs    []*systems.Bomb
	powerUps map[uint32]*domain.Entity

	// Seed and CrateCount mirror the server's map parameters.
	Seed       *replication.Field[int32]
	CrateCount *replication.Field[int32]

	synced      bool
	MyEntityID  string
	Tick        int
	Map         api.MapView
	Players     []api.PlayerView
	Leaderboard []api.LeaderboardEntry
	Destroyed   []domain.Position

	log *logrus.Entry
}

func New(cfg Config, maps MapSource) (*Replica, error) {
	r := &Replica{
		cfg:      cfg,
		maps:     maps,
		World:    domain.NewWorld(domain.NewGrid(0, 0)),
		Spawns:   network.NewSpawnRegistry(),
		powerUps: make(map[uint32]*domain.Entity),
		log:      logger.Component("replica"),
	}
	logChange := func(name string) func(prev, next int32) {
		return func(prev, next int32) {
			r.log.WithFields(logrus.Fields{"from": prev, "to": next}).Debugf("%s changed", name)
		}
	}
	r.Seed = replication.NewField[int32](0, logChange("seed"))
	r.CrateCount = replication.NewField[int32](0, logChange("crate count"))
	r.Pool = pool.New(r.Spawns)
	if err := pool.RegisterArena(r.Pool, cfg.Sizes); err != nil {
		return nil, err
	}

	r.generator = mapgen.NewGenerator(r.World, mapgen.Options{
		OnCrateDestroyed: func(e *domain.Entity) { r.Destroyed = append(r.Destroyed, e.Pos) },
	})
	r.markers = systems.NewMarkerTracker(r.Pool, cfg.MarkerLifetime)
	r.resolver = systems.NewExplosionResolver(r.World, r.Pool, nil, r.markers)
	return r, nil
}

// Synced reports whether a STATE has been applied.
func (r *Replica) Synced() bool { return r.synced }

// Apply folds one server message into the replica. Messages that arrive
// before the first STATE are ignored.
func (r *Replica) Apply(msg api.ServerResponse) error {
	if msg.Type != api.MsgState && !r.synced {
		return nil
	}
	r.Tick = msg.Tick

	switch msg.Type {
	case api.MsgState:
		return r.applyState(msg)

	case api.MsgMap:
		r.applySpawns(msg.Spawns)
		r.applyUnspawns(msg.Unspawns)
		if msg.Map == nil {
			return ErrNoMap
		}
		return r.regenerate(*msg.Map)

	case api.MsgUpdate:
		r.applySpawns(msg.Spawns)
		r.applyUnspawns(msg.Unspawns)
		if msg.Players != nil {
			r.Players = msg.Players
		}

	case api.MsgLeaderboard:
		r.Leaderboard = msg.Leaderboard

	default:
		r.log.WithField("type", msg.Type).Debug("Ignoring message")
	}
	return nil
}

func (r *Replica) applyState(msg api.ServerResponse) error {
	if msg.Map == nil {
		return ErrNoMap
	}
	if err := r.regenerate(*msg.Map); err != nil {
		return err
	}
	for _, p := range msg.Map.Destroyed {
		r.destroyCrate(domain.Position{X: p.X, Y: p.Y})
	}

	r.synced = true
	r.MyEntityID = msg.MyEntityID
	r.Players = msg.Players
	r.Leaderboard = msg.Leaderboard
	// Live objects land in ring slots 0..k-1 here, which only matches the
	// host while its live slots are contiguous.
	r.applySpawns(msg.Spawns)
	return nil
}

// regenerate drops every transient object and rebuilds the map.
func (r *Replica) regenerate(view api.MapView) error {
	text, err := r.maps.Load(view.Name)
	if err != nil {
		return fmt.Errorf("map %q: %w", view.Name, err)
	}
	if _, err := r.generator.Generate(text, view.Seed, view.CrateCount); err != nil {
		return fmt.Errorf("map %q: %w", view.Name, err)
	}
	// A new round can reuse the old parameters; the map is rebuilt anyway.
	r.Seed.Observe(view.Seed)
	r.CrateCount.Observe(view.CrateCount)

	for _, b := range slices.Clone(r.bombs) {
		b.Discard()
	}
	for netID, e := range r.powerUps {
		r.World.RemoveEntity(e)
		delete(r.powerUps, netID)
	}
	r.Spawns.Reset()
	r.markers.Clear()

	r.Map = view
	r.Map.Destroyed = nil
	r.Destroyed = nil

	r.log.WithFields(logrus.Fields{
		"map":    view.Name,
		"seed":   view.Seed,
		"crates": view.CrateCount,
		"round":  view.Round,
	}).Debug("Map rebuilt")
	return nil
}

func (r *Replica) destroyCrate(p domain.Position) {
	for _, e := range slices.Clone(r.World.GetEntitiesAt(p)) {
		if e.Kind == domain.KindCrate && e.Behavior != nil {
			e.Behavior.Explode()
		}
	}
}

func (r *Replica) applySpawns(views []api.SpawnView) {
	for _, view := range views {
		if err := r.spawn(view); err != nil {
			r.log.WithError(err).Warn("Spawn failed")
		}
	}
}

func (r *Replica) spawn(view api.SpawnView) error {
	if r.Spawns.Lookup(view.NetID) != nil {
		return nil
	}

	// The ring slot about to be handed out may still hold an object whose
	// unspawn is in this same message; retire it first.
	typeID := pool.TypeID(view.TypeID)
	if next := r.Pool.Peek(typeID); next != nil && next.Active && next.NetID != 0 {
		r.retire(next.NetID)
	}

	e, err := r.Spawns.HandleSpawn(view)
	if err != nil {
		return err
	}

	switch typeID {
	case pool.TypeBomb:
		owner, _ := domain.ParseEntityID(view.Owner)
		b := systems.NewBomb(e, owner, r.cfg.Bomb, r.resolver, r.removeBomb)
		r.bombs = append(r.bombs, b)
		r.World.AddEntity(e)
		if view.ElapsedMs > 0 {
			b.Tick(time.Duration(view.ElapsedMs) * time.Millisecond)
		}
	case pool.TypePowerUpHealth, pool.TypePowerUpSpeed:
		r.powerUps[e.NetID] = e
		r.World.AddEntity(e)
	}
	return nil
}

func (r *Replica) applyUnspawns(netIDs []uint32) {
	for _, netID := range netIDs {
		r.retire(netID)
	}
}

// retire removes a networked object. A bomb that has not gone off locally
// detonates now.
func (r *Replica) retire(netID uint32) {
	e := r.Spawns.Lookup(netID)
	if e == nil {
		return
	}
	if b := r.bombFor(e); b != nil {
		b.Remove()
		return
	}
	if _, ok := r.powerUps[netID]; ok {
		delete(r.powerUps, netID)
		r.World.RemoveEntity(e)
	}
	r.Spawns.HandleUnspawn(netID)
}

func (r *Replica) removeBomb(b *systems.Bomb) {
	if idx := slices.Index(r.bombs, b); idx >= 0 {
		r.bombs = slices.Delete(r.bombs, idx, idx+1)
	}
	r.World.RemoveEntity(b.Entity)
	r.Spawns.HandleUnspawn(b.Entity.NetID)
}

func (r *Replica) bombFor(e *domain.Entity) *systems.Bomb {
	for _, b := range r.bombs {
		if b.Entity == e {
			return b
		}
	}
	return nil
}

// Step runs local fuses and marker lifetimes.
func (r *Replica) Step(dt time.Duration) {
	for _, b := range slices.Clone(r.bombs) {
		if !b.Exploded() {
			b.Tick(dt)
		}
	}
	for _, b := range slices.Clone(r.bombs) {
		if b.Exploded() {
			b.Remove()
		}
	}
	r.markers.Tick(dt)
}

// Bombs returns the bombs still burning.
func (r *Replica) Bombs() []*systems.Bomb {
	return slices.Clone(r.bombs)
}

func (r *Replica) PowerUpCount() int {
	return len(r.powerUps)
}

func (r *Replica) MarkerCount() int {
	return r.markers.Count()
}

// LiveCrates returns the crates still standing.
func (r *Replica) LiveCrates() int {
	return r.World.CountKind(domain.KindCrate)
}

// Player returns the view of the player with id.
func (r *Replica) Player(id string) (api.PlayerView, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return api.PlayerView{}, false
}
