// Package mapgen builds the arena from map text and a replicated seed and
// crate count.
package mapgen

import (
	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Options tune what Generate instantiates.
type Options struct {
	// Authority enables server-only objects such as item spawners.
	Authority bool
	// OnCrateDestroyed runs after a crate has been removed by a blast.
	OnCrateDestroyed func(*domain.Entity)
}

// Generator owns the static geometry and crates of one world.
type Generator struct {
	world  *domain.World
	opts   Options
	layout *Layout
	nextID uint64
	log    *logrus.Entry
}

func NewGenerator(world *domain.World, opts Options) *Generator {
	return &Generator{
		world: world,
		opts:  opts,
		log:   logger.Component("map_generator"),
	}
}

// Layout returns the last generated layout, nil before the first run.
func (g *Generator) Layout() *Layout {
	return g.layout
}

// Generate tears down whatever the previous run built, plans a new layout and
// instantiates it into the world. On a parse error the world is left as it was.
func (g *Generator) Generate(text string, seed, crateCount int32) (*Layout, error) {
	layout, err := Plan(text, seed, crateCount)
	if err != nil {
		return nil, err
	}

	g.Teardown()
	g.world.SetGrid(layout.Grid)
	g.build(layout)
	g.layout = layout

	g.log.WithFields(logrus.Fields{
		"seed":      seed,
		"requested": crateCount,
		"placed":    len(layout.Crates),
		"fixed":     len(layout.FixedCrates),
		"width":     layout.Grid.Width,
		"height":    layout.Grid.Height,
	}).Info("Map generated")

	return layout, nil
}

// Teardown removes all geometry and crates created by earlier runs. Safe to
// call repeatedly.
func (g *Generator) Teardown() {
	removed := g.world.DestroyContainer(domain.ContainerMap)
	removed += g.world.DestroyContainer(domain.ContainerCrates)
	if removed > 0 {
		g.log.WithField("removed", removed).Debug("Previous map torn down")
	}
	g.layout = nil
}

func (g *Generator) build(layout *Layout) {
	grid := layout.Grid
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := domain.Position{X: x, Y: y}
			switch grid.At(p) {
			case domain.CellWall:
				g.addStatic(domain.KindWall, domain.TagWall, p)
			case domain.CellBorder:
				g.addStatic(domain.KindBorder, domain.TagWall, p)
			case domain.CellItem:
				if g.opts.Authority {
					g.addStatic(domain.KindItemSpawner, domain.TagNone, p)
				}
			case domain.CellReserved:
			default:
				g.addStatic(domain.KindFloor, domain.TagNone, p)
			}
		}
	}

	for _, p := range layout.AllCrates() {
		g.addCrate(p)
	}
}

func (g *Generator) newEntity(kind domain.EntityKind, tag domain.Tag, p domain.Position) *domain.Entity {
	g.nextID++
	return &domain.Entity{
		ID:         domain.PackEntityID(kind, domain.GroupStatic, g.nextID),
		Kind:       kind,
		Tag:        tag,
		Pos:        p,
		HalfExtent: 0.5,
		Active:     true,
	}
}

func (g *Generator) addStatic(kind domain.EntityKind, tag domain.Tag, p domain.Position) {
	g.world.AddToContainer(domain.ContainerMap, g.newEntity(kind, tag, p))
}

func (g *Generator) addCrate(p domain.Position) {
	e := g.newEntity(domain.KindCrate, domain.TagExplodable, p)
	e.Behavior = &Crate{entity: e, world: g.world, onDestroyed: g.opts.OnCrateDestroyed}
	g.world.AddToContainer(domain.ContainerCrates, e)
}
