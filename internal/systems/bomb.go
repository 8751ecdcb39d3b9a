package systems

import (
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// BombState is the lifecycle stage of a placed bomb.
type BombState uint8

const (
	BombArmed BombState = iota
	BombGrowing
	BombDetonating
	BombRemoved
)

func (s BombState) String() string {
	switch s {
	case BombArmed:
		return "ARMED"
	case BombGrowing:
		return "GROWING"
	case BombDetonating:
		return "DETONATING"
	case BombRemoved:
		return "REMOVED"
	}
	return "UNKNOWN"
}

// BombConfig holds per-bomb tuning.
type BombConfig struct {
	Radius     int
	Damage     int
	Fuse       time.Duration
	GrowTarget float64
}

func DefaultBombConfig() BombConfig {
	return BombConfig{
		Radius:     1,
		Damage:     1,
		Fuse:       3 * time.Second,
		GrowTarget: 0.75,
	}
}

// Detonator resolves a detonation. *ExplosionResolver implements it.
type Detonator interface {
	Resolve(origin domain.Position, radius, damage int, source *domain.Entity) *ExplosionEvent
}

// Bomb drives one pooled bomb entity from placement to removal.
type Bomb struct {
	Entity *domain.Entity
	Owner  domain.EntityID

	cfg       BombConfig
	state     BombState
	elapsed   time.Duration
	exploded  bool
	removed   bool
	event     *ExplosionEvent
	detonator Detonator
	remover   func(*Bomb)
}

// NewBomb attaches a lifecycle to e and makes it the entity's Explodable.
// remover runs exactly once, when the bomb is removed.
func NewBomb(e *domain.Entity, owner domain.EntityID, cfg BombConfig, detonator Detonator, remover func(*Bomb)) *Bomb {
	b := &Bomb{
		Entity:    e,
		Owner:     owner,
		cfg:       cfg,
		state:     BombArmed,
		detonator: detonator,
		remover:   remover,
	}
	e.Owner = owner
	e.Scale = 0
	e.Behavior = b
	return b
}

func (b *Bomb) State() BombState { return b.state }

func (b *Bomb) Exploded() bool { return b.exploded }

func (b *Bomb) Elapsed() time.Duration { return b.elapsed }

// Event is the detonation result, nil before the bomb exploded.
func (b *Bomb) Event() *ExplosionEvent { return b.event }

func (b *Bomb) Config() BombConfig { return b.cfg }

// Tick advances the fuse by dt.
func (b *Bomb) Tick(dt time.Duration) {
	switch b.state {
	case BombArmed:
		b.Entity.Scale = 0
		b.state = BombGrowing
		b.grow(dt)
	case BombGrowing:
		b.grow(dt)
	}
}

func (b *Bomb) grow(dt time.Duration) {
	b.elapsed += dt
	progress := 1.0
	if b.cfg.Fuse > 0 {
		progress = float64(b.elapsed) / float64(b.cfg.Fuse)
	}
	if progress > 1 {
		progress = 1
	}
	b.Entity.Scale = b.cfg.GrowTarget * progress

	if b.elapsed >= b.cfg.Fuse {
		b.Explode()
	}
}

// Explode detonates the bomb. Only the first call does anything.
func (b *Bomb) Explode() {
	if b.exploded {
		return
	}
	b.exploded = true
	b.state = BombDetonating

	logger.Log.WithFields(logrus.Fields{
		"component": "bomb_system",
		"bomb":      b.Entity.ID,
		"owner":     b.Owner,
		"pos":       b.Entity.Pos,
		"elapsed":   b.elapsed,
	}).Debug("Bomb detonating")

	if b.detonator != nil {
		b.event = b.detonator.Resolve(b.Entity.Pos, b.cfg.Radius, b.cfg.Damage, b.Entity)
	}
}

// Remove ends the lifecycle. A bomb that has not exploded yet explodes first,
// so nothing that depended on its blast is skipped.
func (b *Bomb) Remove() {
	if b.removed {
		return
	}
	if !b.exploded {
		b.Explode()
	}
	b.finish()
}

// Discard ends the lifecycle without a blast. It is for bombs whose map is
// being torn down, where a detonation would hit the next map.
func (b *Bomb) Discard() {
	if b.removed {
		return
	}
	b.exploded = true
	b.finish()
}

func (b *Bomb) finish() {
	b.removed = true
	b.state = BombRemoved
	if b.remover != nil {
		b.remover(b)
	}
}
