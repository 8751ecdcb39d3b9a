package domain

// EntityKind classifies what an entity is.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindPlayer
	KindWall
	KindBorder
	KindFloor
	KindCrate
	KindItemSpawner
	KindBomb
	KindExplosion
	KindPowerUp
)

var kindNames = map[EntityKind]string{
	KindPlayer:      "player",
	KindWall:        "wall",
	KindBorder:      "border",
	KindFloor:       "floor",
	KindCrate:       "crate",
	KindItemSpawner: "item_spawner",
	KindBomb:        "bomb",
	KindExplosion:   "explosion",
	KindPowerUp:     "powerup",
}

func (k EntityKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Tag decides how a blast treats the entity.
type Tag uint8

const (
	TagNone Tag = iota
	// TagWall occludes everything behind it.
	TagWall
	// TagExplodable entities get Explode called.
	TagExplodable
	// TagPlayer entities take damage.
	TagPlayer
)

// Explodable is implemented by anything a blast can set off.
// Explode must be idempotent per instance.
type Explodable interface {
	Explode()
}

// Entity is everything that lives on the grid: geometry, crates, players and
// pooled transients. Behaviour is attached once, at construction or acquire
// time, instead of being looked up later.
type Entity struct {
	ID     EntityID   `json:"id"`
	NetID  uint32     `json:"netId,omitempty"`
	TypeID string     `json:"typeId,omitempty"`
	Kind   EntityKind `json:"kind"`
	Tag    Tag        `json:"tag"`
	Name   string     `json:"name,omitempty"`
	Pos    Position   `json:"pos"`

	// HalfExtent is half the side of the entity's square footprint, in cells.
	HalfExtent float64 `json:"halfExtent"`

	Active bool     `json:"active"`
	Scale  float64  `json:"scale,omitempty"`
	Owner  EntityID `json:"owner,omitempty"`

	Health   *HealthComponent `json:"health,omitempty"`
	Player   *PlayerComponent `json:"player,omitempty"`
	Behavior Explodable       `json:"-"`
}

// IsDamageable reports whether a blast can hurt this entity.
func (e *Entity) IsDamageable() bool {
	return e.Tag == TagPlayer && e.Health != nil
}

// IsAlive reports whether a player is still in the round.
func (e *Entity) IsAlive() bool {
	if e.Player != nil && e.Player.Spectator {
		return false
	}
	return e.Health == nil || !e.Health.IsDead()
}

// IsBlocking reports whether the entity occupies its cell for movement and
// bomb placement.
func (e *Entity) IsBlocking() bool {
	switch e.Kind {
	case KindWall, KindBorder, KindCrate, KindBomb:
		return true
	}
	return false
}
