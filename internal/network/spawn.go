package network

import (
	"errors"
	"fmt"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ErrNoSpawnHandler is returned for a spawn of a type nobody registered.
var ErrNoSpawnHandler = errors.New("no spawn handler for type")

type spawnHandler struct {
	materialize   pool.MaterializeFunc
	dematerialize pool.DematerializeFunc
}

// SpawnRegistry maps remote spawn messages onto local instances. It
// implements pool.SpawnHandlerRegistry, so pools route remote spawns into
// their rings instead of allocating.
type SpawnRegistry struct {
	handlers map[pool.TypeID]spawnHandler
	live     map[uint32]*domain.Entity
	log      *logrus.Entry
}

func NewSpawnRegistry() *SpawnRegistry {
	return &SpawnRegistry{
		handlers: make(map[pool.TypeID]spawnHandler),
		live:     make(map[uint32]*domain.Entity),
		log:      logger.Component("spawn_registry"),
	}
}

// RegisterSpawnHandler installs or replaces the handler pair for typeID.
func (r *SpawnRegistry) RegisterSpawnHandler(typeID pool.TypeID, materialize pool.MaterializeFunc, dematerialize pool.DematerializeFunc) {
	r.handlers[typeID] = spawnHandler{materialize: materialize, dematerialize: dematerialize}
}

func (r *SpawnRegistry) HasHandler(typeID pool.TypeID) bool {
	_, ok := r.handlers[typeID]
	return ok
}

// HandleSpawn materializes a remote spawn. A repeated spawn for a live
// network ID returns the existing instance.
func (r *SpawnRegistry) HandleSpawn(view api.SpawnView) (*domain.Entity, error) {
	if e, ok := r.live[view.NetID]; ok {
		return e, nil
	}

	h, ok := r.handlers[pool.TypeID(view.TypeID)]
	if !ok {
		return nil, fmt.Errorf("spawn %q (net %d): %w", view.TypeID, view.NetID, ErrNoSpawnHandler)
	}

	e := h.materialize(domain.Position{X: view.Pos.X, Y: view.Pos.Y}, pool.TypeID(view.TypeID))
	if e == nil {
		return nil, fmt.Errorf("spawn %q (net %d): materialize returned nothing", view.TypeID, view.NetID)
	}
	e.NetID = view.NetID
	r.live[view.NetID] = e

	r.log.WithFields(logrus.Fields{
		"net_id":  view.NetID,
		"type_id": view.TypeID,
		"pos":     view.Pos,
	}).Debug("Remote spawn")
	return e, nil
}

// HandleUnspawn dematerializes a remote despawn and returns the instance.
// Unknown network IDs are ignored.
func (r *SpawnRegistry) HandleUnspawn(netID uint32) *domain.Entity {
	e, ok := r.live[netID]
	if !ok {
		return nil
	}
	delete(r.live, netID)

	if h, ok := r.handlers[pool.TypeID(e.TypeID)]; ok {
		h.dematerialize(e)
	}
	return e
}

// Lookup returns the live instance for netID.
func (r *SpawnRegistry) Lookup(netID uint32) *domain.Entity {
	return r.live[netID]
}

func (r *SpawnRegistry) LiveCount() int {
	return len(r.live)
}

// Reset dematerializes every live instance.
func (r *SpawnRegistry) Reset() {
	for netID := range r.live {
		r.HandleUnspawn(netID)
	}
}
