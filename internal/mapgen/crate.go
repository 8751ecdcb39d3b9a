package mapgen

import "github.com/krakowski/BombermanVR/internal/domain"

// Crate is a destructible block. Every peer destroys its own copy when its
// local blast resolution reaches it; crates are never replicated.
type Crate struct {
	entity      *domain.Entity
	world       *domain.World
	exploded    bool
	onDestroyed func(*domain.Entity)
}

// Explode removes the crate from the world once.
func (c *Crate) Explode() {
	if c.exploded {
		return
	}
	c.exploded = true
	c.entity.Active = false
	c.world.RemoveEntity(c.entity)
	if c.onDestroyed != nil {
		c.onDestroyed(c.entity)
	}
}

func (c *Crate) Exploded() bool {
	return c.exploded
}
