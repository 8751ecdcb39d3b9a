package systems

import (
	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// DamageSink applies blast damage. Only the authoritative side has one.
type DamageSink interface {
	ApplyBlastDamage(target, source *domain.Entity, amount int)
}

// ExplosionEvent describes one detonation.
type ExplosionEvent struct {
	Origin domain.Position
	Radius int

	// Reached holds, per direction, the cells the blast ray got to. When the
	// ray was stopped, the last cell is the obstruction itself.
	Reached [4][]domain.Position
	Blocked [4]bool

	Markers  []*domain.Entity
	Affected []*domain.Entity
}

// Reach returns how many cells the ray travelled in direction d, counting an
// obstruction that stopped it.
func (ev *ExplosionEvent) Reach(d int) int {
	return len(ev.Reached[d])
}

// ExplosionResolver turns a detonation into markers, chain detonations and
// damage.
type ExplosionResolver struct {
	world   *domain.World
	pool    *pool.Pool
	sink    DamageSink
	markers *MarkerTracker
}

// NewExplosionResolver wires a resolver. p and markers may be nil when no
// visual markers are wanted; sink is nil on observers.
func NewExplosionResolver(world *domain.World, p *pool.Pool, sink DamageSink, markers *MarkerTracker) *ExplosionResolver {
	return &ExplosionResolver{
		world:   world,
		pool:    p,
		sink:    sink,
		markers: markers,
	}
}

// Resolve detonates at origin. source is skipped by the sweep and may be nil.
// Chain detonations run synchronously inside this call.
func (r *ExplosionResolver) Resolve(origin domain.Position, radius, damage int, source *domain.Entity) *ExplosionEvent {
	ev := &ExplosionEvent{Origin: origin, Radius: radius}
	log := logger.Log.WithFields(logrus.Fields{
		"component": "explosion_system",
		"origin":    origin,
		"radius":    radius,
	})

	r.spawnMarker(ev, origin)
	for d, dir := range domain.Directions {
		r.castRay(ev, d, dir)
	}

	affected := mapset.New[*domain.Entity]()
	for _, dir := range domain.Directions {
		hits := SweepBox(r.world, origin, dir, 0.5+float64(radius), SweepHalfThickness)
		r.applyHits(ev, hits, source, damage, affected)
	}

	log.WithFields(logrus.Fields{
		"reach":    [4]int{ev.Reach(0), ev.Reach(1), ev.Reach(2), ev.Reach(3)},
		"markers":  len(ev.Markers),
		"affected": len(ev.Affected),
	}).Debug("Explosion resolved")

	return ev
}

func (r *ExplosionResolver) castRay(ev *ExplosionEvent, d int, dir domain.Position) {
	grid := r.world.Grid
	for i := 1; i <= ev.Radius; i++ {
		cell := ev.Origin.Step(dir, i)
		if !grid.InBounds(cell) {
			return
		}
		ev.Reached[d] = append(ev.Reached[d], cell)
		if grid.At(cell).IsObstruction() {
			ev.Blocked[d] = true
			return
		}
		r.spawnMarker(ev, cell)
	}
}

func (r *ExplosionResolver) spawnMarker(ev *ExplosionEvent, cell domain.Position) {
	if r.pool == nil {
		return
	}
	marker, err := r.pool.Acquire(pool.TypeExplosion, cell)
	if err != nil {
		logger.Log.WithError(err).WithField("component", "explosion_system").Warn("No explosion marker available")
		return
	}
	ev.Markers = append(ev.Markers, marker)
	if r.markers != nil {
		r.markers.Track(marker)
	}
}

func (r *ExplosionResolver) applyHits(ev *ExplosionEvent, hits []Hit, source *domain.Entity, damage int, affected mapset.Set[*domain.Entity]) {
	for _, hit := range hits {
		e := hit.Entity
		if e == source {
			continue
		}

		switch e.Tag {
		case domain.TagWall:
			return
		case domain.TagExplodable:
			if affected.Has(e) {
				continue
			}
			affected.Put(e)
			ev.Affected = append(ev.Affected, e)
			if e.Behavior != nil {
				e.Behavior.Explode()
			}
		case domain.TagPlayer:
			if affected.Has(e) {
				continue
			}
			affected.Put(e)
			ev.Affected = append(ev.Affected, e)
			if r.sink != nil && e.IsDamageable() {
				r.sink.ApplyBlastDamage(e, source, damage)
			}
		}
	}
}
