// Package pool keeps fixed rings of preallocated entities per entity type.
//
// Acquire never allocates once a type is registered: it hands out the least
// recently issued instance and moves on. All calls are expected to come from
// the single goroutine that owns the session, so there is no locking.
package pool

import (
	"errors"
	"fmt"
	"sort"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnregisteredType is returned by Acquire for a type that was never registered.
	ErrUnregisteredType = errors.New("unregistered entity type")
	// ErrInvalidSize is returned by RegisterPool for a non-positive size.
	ErrInvalidSize = errors.New("pool size must be positive")
)

// TypeID identifies an entity type for pooling and spawn dispatch.
type TypeID string

const (
	TypeBomb          TypeID = "bomb"
	TypeExplosion     TypeID = "explosion"
	TypePowerUpHealth TypeID = "powerup.health"
	TypePowerUpSpeed  TypeID = "powerup.speed"
)

// MaterializeFunc builds the local instance for a remote spawn.
type MaterializeFunc func(pos domain.Position, typeID TypeID) *domain.Entity

// DematerializeFunc returns a remotely despawned instance.
type DematerializeFunc func(e *domain.Entity)

// SpawnHandlerRegistry is the network layer's table of custom spawn handlers.
type SpawnHandlerRegistry interface {
	RegisterSpawnHandler(typeID TypeID, materialize MaterializeFunc, dematerialize DematerializeFunc)
}

// Prefab describes the instances of one type.
type Prefab struct {
	TypeID     TypeID
	Kind       domain.EntityKind
	Tag        domain.Tag
	HalfExtent float64
	MaxHealth  int
}

type group struct {
	prefab   Prefab
	id       uint16
	ring     []*domain.Entity
	issued   []uint64
	head     int
	acquired uint64
}

// Pool is the per-session entity pool.
type Pool struct {
	registry  SpawnHandlerRegistry
	groups    map[TypeID]*group
	nextGroup uint16
	log       *logrus.Entry
}

// New creates an empty pool. registry may be nil when nothing is replicated.
func New(registry SpawnHandlerRegistry) *Pool {
	return &Pool{
		registry:  registry,
		groups:    make(map[TypeID]*group),
		nextGroup: domain.GroupPoolBase,
		log:       logger.Component("entity_pool"),
	}
}

// RegisterPool preallocates size inactive instances of prefab the first time
// its type is seen. Every call registers the spawn handler pair.
func (p *Pool) RegisterPool(prefab Prefab, size int) error {
	if _, ok := p.groups[prefab.TypeID]; !ok {
		if size <= 0 {
			return fmt.Errorf("register %q: %w", prefab.TypeID, ErrInvalidSize)
		}

		g := &group{
			prefab: prefab,
			id:     p.nextGroup,
			ring:   make([]*domain.Entity, size),
			issued: make([]uint64, size),
		}
		p.nextGroup++

		for i := range g.ring {
			g.ring[i] = &domain.Entity{
				ID:         domain.PackEntityID(prefab.Kind, g.id, uint64(i)),
				TypeID:     string(prefab.TypeID),
				Kind:       prefab.Kind,
				Tag:        prefab.Tag,
				HalfExtent: prefab.HalfExtent,
			}
		}
		p.groups[prefab.TypeID] = g

		p.log.WithFields(logrus.Fields{
			"type_id": prefab.TypeID,
			"size":    size,
			"group":   g.id,
		}).Debug("Pool registered")
	}

	if p.registry != nil {
		p.registry.RegisterSpawnHandler(prefab.TypeID, p.Materialize, p.Dematerialize)
	}
	return nil
}

// Acquire activates the next instance of typeID at pos.
func (p *Pool) Acquire(typeID TypeID, pos domain.Position) (*domain.Entity, error) {
	g, ok := p.groups[typeID]
	if !ok {
		return nil, fmt.Errorf("acquire %q: %w", typeID, ErrUnregisteredType)
	}

	slot := g.head
	e := g.ring[slot]
	g.head = (g.head + 1) % len(g.ring)

	if e.Active {
		p.log.WithFields(logrus.Fields{
			"type_id": typeID,
			"entity":  e.ID,
		}).Debug("Recycling an instance that is still active")
	}

	e.Active = true
	e.Pos = pos
	e.Scale = 0
	e.Owner = 0
	e.NetID = 0
	e.Name = ""
	e.Behavior = nil
	if g.prefab.MaxHealth > 0 {
		e.Health = domain.NewHealth(g.prefab.MaxHealth)
	}

	g.issued[slot]++
	g.acquired++
	return e, nil
}

// Peek returns the instance the next Acquire of typeID will hand out,
// without changing anything.
func (p *Pool) Peek(typeID TypeID) *domain.Entity {
	g, ok := p.groups[typeID]
	if !ok {
		return nil
	}
	return g.ring[g.head]
}

// Release deactivates e. Inactive or foreign entities are ignored.
func (p *Pool) Release(e *domain.Entity) {
	if e == nil || !p.Owns(e) || !e.Active {
		return
	}
	e.Active = false
	e.Behavior = nil
}

// Materialize is the spawn handler handed to the network layer.
func (p *Pool) Materialize(pos domain.Position, typeID TypeID) *domain.Entity {
	e, err := p.Acquire(typeID, pos)
	if err != nil {
		p.log.WithError(err).Warn("Remote spawn for unknown type")
		return nil
	}
	return e
}

// Dematerialize is the unspawn handler handed to the network layer.
func (p *Pool) Dematerialize(e *domain.Entity) {
	p.Release(e)
}

// Owns reports whether e was allocated by this pool.
func (p *Pool) Owns(e *domain.Entity) bool {
	g, ok := p.groups[TypeID(e.TypeID)]
	if !ok || e.ID.Group() != g.id {
		return false
	}
	idx := e.ID.Index()
	return idx < uint64(len(g.ring)) && g.ring[idx] == e
}

// Size returns the ring length for typeID, 0 if unregistered.
func (p *Pool) Size(typeID TypeID) int {
	if g, ok := p.groups[typeID]; ok {
		return len(g.ring)
	}
	return 0
}

// ActiveCount returns how many instances of typeID are currently active.
func (p *Pool) ActiveCount(typeID TypeID) int {
	g, ok := p.groups[typeID]
	if !ok {
		return 0
	}
	n := 0
	for _, e := range g.ring {
		if e.Active {
			n++
		}
	}
	return n
}

// Issued returns how many times e has been handed out.
func (p *Pool) Issued(e *domain.Entity) uint64 {
	if !p.Owns(e) {
		return 0
	}
	return p.groups[TypeID(e.TypeID)].issued[e.ID.Index()]
}

// Types lists registered type IDs in sorted order.
func (p *Pool) Types() []TypeID {
	out := make([]TypeID, 0, len(p.groups))
	for id := range p.groups {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// GroupStats is a snapshot of one ring.
type GroupStats struct {
	TypeID   TypeID `json:"type_id"`
	Size     int    `json:"size"`
	Active   int    `json:"active"`
	Acquired uint64 `json:"acquired"`
}

// Stats returns a snapshot of every ring.
func (p *Pool) Stats() []GroupStats {
	out := make([]GroupStats, 0, len(p.groups))
	for _, id := range p.Types() {
		g := p.groups[id]
		out = append(out, GroupStats{
			TypeID:   id,
			Size:     len(g.ring),
			Active:   p.ActiveCount(id),
			Acquired: g.acquired,
		})
	}
	return out
}
