package systems

import (
	"math"
	"sort"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// SweepHalfThickness is the half width of a blast sweep across its axis.
const SweepHalfThickness = 0.3

// Hit is one entity found by a sweep and how far the sweep travelled
// before touching it.
type Hit struct {
	Entity   *domain.Entity
	Distance float64
}

// SweepBox moves a flat box of half width halfThickness from origin along dir
// for length cells and returns every active entity it touches, closest first.
// Entities at the same distance keep their discovery order (row-major, then
// insertion order inside a cell).
//
// Grid cells are unit sized and the world transform is a pure translation,
// so distances in cells equal world distances.
func SweepBox(w *domain.World, origin, dir domain.Position, length, halfThickness float64) []Hit {
	reach := int(math.Ceil(length)) + 1
	far := origin.Step(dir, reach)
	near := origin.Step(dir, -1)

	min := domain.Position{X: minInt(near.X, far.X) - absInt(dir.Y), Y: minInt(near.Y, far.Y) - absInt(dir.X)}
	max := domain.Position{X: maxInt(near.X, far.X) + absInt(dir.Y), Y: maxInt(near.Y, far.Y) + absInt(dir.X)}

	var hits []Hit
	for _, e := range w.EntitiesInRect(min, max) {
		if !e.Active {
			continue
		}
		dx := float64(e.Pos.X - origin.X)
		dy := float64(e.Pos.Y - origin.Y)
		along := dx*float64(dir.X) + dy*float64(dir.Y)
		across := math.Abs(dx*float64(dir.Y) - dy*float64(dir.X))

		h := e.HalfExtent
		if across >= halfThickness+h {
			continue
		}
		if along+h <= 0 || along-h >= length {
			continue
		}
		hits = append(hits, Hit{Entity: e, Distance: math.Max(0, along-h)})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"origin":    origin,
		"dir":       dir,
		"length":    length,
		"hits":      len(hits),
	}).Debug("Box sweep")

	return hits
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
