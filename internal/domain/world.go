package domain

import (
	"errors"
	"sort"
)

// ErrOutOfBounds is returned when an entity is moved off the grid.
var ErrOutOfBounds = errors.New("out of bounds")

// Container names used by map generation.
const (
	ContainerMap    = "map"
	ContainerCrates = "crates"
)

// World indexes the entities living on one grid.
type World struct {
	Grid *Grid

	// SpatialHash maps a cell index to the entities standing in it.
	SpatialHash map[int][]*Entity
	Registry    map[EntityID]*Entity

	containers map[string][]*Entity
}

func NewWorld(grid *Grid) *World {
	return &World{
		Grid:        grid,
		SpatialHash: make(map[int][]*Entity),
		Registry:    make(map[EntityID]*Entity),
		containers:  make(map[string][]*Entity),
	}
}

// SetGrid swaps the grid. Entities outside the new bounds are dropped from
// the index.
func (w *World) SetGrid(grid *Grid) {
	w.Grid = grid
	old := w.SpatialHash
	w.SpatialHash = make(map[int][]*Entity)
	for _, bucket := range old {
		for _, e := range bucket {
			if grid.InBounds(e.Pos) {
				w.AddEntity(e)
			} else {
				delete(w.Registry, e.ID)
			}
		}
	}
}

func (w *World) GetIndex(p Position) int {
	return w.Grid.Index(p)
}

// GetEntitiesAt returns the entities in one cell.
func (w *World) GetEntitiesAt(p Position) []*Entity {
	if !w.Grid.InBounds(p) {
		return nil
	}
	return w.SpatialHash[w.GetIndex(p)]
}

func (w *World) GetEntity(id EntityID) *Entity {
	return w.Registry[id]
}

// AddEntity registers e and indexes it at e.Pos.
func (w *World) AddEntity(e *Entity) {
	w.Registry[e.ID] = e
	idx := w.GetIndex(e.Pos)
	w.SpatialHash[idx] = append(w.SpatialHash[idx], e)
}

// RemoveEntity drops e from the index and registry. Returns false if e was
// not present.
func (w *World) RemoveEntity(e *Entity) bool {
	delete(w.Registry, e.ID)

	idx := w.GetIndex(e.Pos)
	entities := w.SpatialHash[idx]
	for i, other := range entities {
		if other == e {
			copy(entities[i:], entities[i+1:])
			entities[len(entities)-1] = nil
			entities = entities[:len(entities)-1]
			if len(entities) == 0 {
				delete(w.SpatialHash, idx)
			} else {
				w.SpatialHash[idx] = entities
			}
			return true
		}
	}
	return false
}

// UpdateEntityPos moves e to p.
func (w *World) UpdateEntityPos(e *Entity, p Position) error {
	if !w.Grid.InBounds(p) {
		return ErrOutOfBounds
	}
	w.RemoveEntity(e)
	e.Pos = p
	w.AddEntity(e)
	return nil
}

// EntitiesInRect returns entities whose cell lies in [min, max], scanning
// row-major and then by insertion order inside a cell.
func (w *World) EntitiesInRect(min, max Position) []*Entity {
	var out []*Entity
	for y := min.Y; y <= max.Y; y++ {
		for x := min.X; x <= max.X; x++ {
			out = append(out, w.GetEntitiesAt(Position{X: x, Y: y})...)
		}
	}
	return out
}

// IsCellBlocked reports whether p is outside the grid, static geometry, or
// occupied by a blocking entity.
func (w *World) IsCellBlocked(p Position) bool {
	if !w.Grid.InBounds(p) || w.Grid.At(p).IsObstruction() {
		return true
	}
	for _, e := range w.GetEntitiesAt(p) {
		if e.IsBlocking() {
			return true
		}
	}
	return false
}

// AddToContainer adds e to the world and records it under name.
func (w *World) AddToContainer(name string, e *Entity) {
	w.AddEntity(e)
	w.containers[name] = append(w.containers[name], e)
}

// Container returns the entities recorded under name, including ones that
// have since been removed from the index.
func (w *World) Container(name string) []*Entity {
	return w.containers[name]
}

// DestroyContainer removes every entity recorded under name and forgets the
// container. Returns how many were still indexed.
func (w *World) DestroyContainer(name string) int {
	removed := 0
	for _, e := range w.containers[name] {
		if w.RemoveEntity(e) {
			removed++
		}
	}
	delete(w.containers, name)
	return removed
}

// CountKind counts indexed entities of kind.
func (w *World) CountKind(kind EntityKind) int {
	n := 0
	for _, e := range w.Registry {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Entities returns all indexed entities ordered by ID.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.Registry))
	for _, e := range w.Registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
