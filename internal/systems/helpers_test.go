package systems

import (
	"testing"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/mapgen"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/stretchr/testify/require"
)

type countingExplodable struct {
	n int
}

func (c *countingExplodable) Explode() { c.n++ }

type recordingSink struct {
	hits map[*domain.Entity]int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{hits: make(map[*domain.Entity]int)}
}

func (s *recordingSink) ApplyBlastDamage(target, _ *domain.Entity, amount int) {
	s.hits[target]++
	target.Health.Damage(amount)
}

var nextTestID uint64

func newTestWorld(t *testing.T, text string) *domain.World {
	t.Helper()
	world := domain.NewWorld(domain.NewGrid(0, 0))
	_, err := mapgen.NewGenerator(world, mapgen.Options{Authority: true}).Generate(text, 0, 0)
	require.NoError(t, err)
	return world
}

func newTestPool(t *testing.T) *pool.Pool {
	t.Helper()
	p := pool.New(nil)
	require.NoError(t, p.RegisterPool(pool.Prefab{TypeID: pool.TypeExplosion, Kind: domain.KindExplosion}, 32))
	require.NoError(t, p.RegisterPool(pool.Prefab{TypeID: pool.TypePowerUpHealth, Kind: domain.KindPowerUp, HalfExtent: 0.25}, 4))
	require.NoError(t, p.RegisterPool(pool.Prefab{TypeID: pool.TypePowerUpSpeed, Kind: domain.KindPowerUp, HalfExtent: 0.25}, 4))
	return p
}

func place(world *domain.World, kind domain.EntityKind, tag domain.Tag, pos domain.Position) *domain.Entity {
	nextTestID++
	e := &domain.Entity{
		ID:         domain.PackEntityID(kind, 99, nextTestID),
		Kind:       kind,
		Tag:        tag,
		Pos:        pos,
		HalfExtent: 0.5,
		Active:     true,
	}
	world.AddEntity(e)
	return e
}

func placeCounter(world *domain.World, pos domain.Position) (*domain.Entity, *countingExplodable) {
	c := &countingExplodable{}
	e := place(world, domain.KindCrate, domain.TagExplodable, pos)
	e.Behavior = c
	return e, c
}

func placePlayer(world *domain.World, pos domain.Position) *domain.Entity {
	e := place(world, domain.KindPlayer, domain.TagPlayer, pos)
	e.HalfExtent = 0.3
	e.Health = domain.NewHealth(domain.DefaultMaxHealth)
	return e
}

func at(x, y int) domain.Position {
	return domain.Position{X: x, Y: y}
}
