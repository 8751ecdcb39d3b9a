package systems

import (
	"math/rand"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// DefaultSpawnInterval is the delay between a pick-up and the next power-up.
const DefaultSpawnInterval = 10 * time.Second

// PowerUpTypes are the pooled types a spawner chooses from.
var PowerUpTypes = []pool.TypeID{pool.TypePowerUpHealth, pool.TypePowerUpSpeed}

// PowerUpSpawner is one item cell.
type PowerUpSpawner struct {
	Cell    domain.Position
	next    pool.TypeID
	waited  time.Duration
	current *domain.Entity
}

// Current returns the power-up waiting on the cell, if any.
func (s *PowerUpSpawner) Current() *domain.Entity {
	return s.current
}

// PowerUpSystem runs the spawners of the authoritative side.
type PowerUpSystem struct {
	world    *domain.World
	pool     *pool.Pool
	rng      *rand.Rand
	interval time.Duration
	spawners []*PowerUpSpawner
	log      *logrus.Entry
}

func NewPowerUpSystem(world *domain.World, p *pool.Pool, rng *rand.Rand, interval time.Duration) *PowerUpSystem {
	return &PowerUpSystem{
		world:    world,
		pool:     p,
		rng:      rng,
		interval: interval,
		log:      logger.Component("powerup_system"),
	}
}

// Reset drops any waiting power-ups and starts one spawner per cell. It
// returns the power-ups that were removed.
func (s *PowerUpSystem) Reset(cells []domain.Position) []*domain.Entity {
	var removed []*domain.Entity
	for _, sp := range s.spawners {
		if sp.current != nil {
			removed = append(removed, sp.current)
			s.despawn(sp)
		}
	}

	s.spawners = s.spawners[:0]
	for _, c := range cells {
		sp := &PowerUpSpawner{Cell: c}
		s.arm(sp)
		s.spawners = append(s.spawners, sp)
	}
	return removed
}

func (s *PowerUpSystem) Spawners() []*PowerUpSpawner {
	return s.spawners
}

// Tick advances every empty spawner and returns newly spawned power-ups.
func (s *PowerUpSystem) Tick(dt time.Duration) []*domain.Entity {
	var spawned []*domain.Entity
	for _, sp := range s.spawners {
		if sp.current != nil {
			continue
		}
		sp.waited += dt
		if sp.waited < s.interval {
			continue
		}

		e, err := s.pool.Acquire(sp.next, sp.Cell)
		if err != nil {
			s.log.WithError(err).Warn("Power-up spawn failed")
			s.arm(sp)
			continue
		}
		sp.current = e
		s.world.AddEntity(e)
		spawned = append(spawned, e)

		s.log.WithFields(logrus.Fields{
			"type_id": sp.next,
			"cell":    sp.Cell,
		}).Debug("Power-up spawned")
	}
	return spawned
}

// Collect takes the power-up waiting at cell, if any, and restarts that
// spawner. The caller applies the effect.
func (s *PowerUpSystem) Collect(cell domain.Position) *domain.Entity {
	for _, sp := range s.spawners {
		if sp.Cell != cell || sp.current == nil {
			continue
		}
		e := sp.current
		s.despawn(sp)
		s.arm(sp)
		return e
	}
	return nil
}

func (s *PowerUpSystem) arm(sp *PowerUpSpawner) {
	sp.next = PowerUpTypes[s.rng.Intn(len(PowerUpTypes))]
	sp.waited = 0
}

func (s *PowerUpSystem) despawn(sp *PowerUpSpawner) {
	s.world.RemoveEntity(sp.current)
	s.pool.Release(sp.current)
	sp.current = nil
}
