package engine

import (
	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/pkg/api"
)

// MapDump is the debug view of the current map.
type MapDump struct {
	Instance   string   `json:"instance"`
	Round      int      `json:"round"`
	RoundOver  bool     `json:"round_over"`
	Seed       int32    `json:"seed"`
	CrateCount int32    `json:"crate_count"`
	Crates     int      `json:"crates_left"`
	Bombs      int      `json:"bombs"`
	Markers    int      `json:"markers"`
	Rows       []string `json:"rows"`
}

// DumpMap renders the grid with live crates ('C'), bombs ('O') and players
// ('@') drawn over it.
func (i *Instance) DumpMap() MapDump {
	grid := i.World.Grid
	rows := make([][]rune, grid.Height)
	for y := range rows {
		rows[y] = make([]rune, grid.Width)
		for x := range rows[y] {
			rows[y][x] = grid.At(domain.Position{X: x, Y: y}).Symbol()
		}
	}

	crates := 0
	for _, e := range i.World.Entities() {
		var r rune
		switch e.Kind {
		case domain.KindCrate:
			crates++
			r = 'C'
		case domain.KindBomb:
			r = 'O'
		case domain.KindPlayer:
			r = '@'
		default:
			continue
		}
		rows[e.Pos.Y][e.Pos.X] = r
	}

	out := make([]string, len(rows))
	for y, row := range rows {
		out[y] = string(row)
	}

	return MapDump{
		Instance:   i.Name,
		Round:      i.round,
		RoundOver:  !i.roundActive,
		Seed:       i.Seed.Get(),
		CrateCount: i.CrateCount.Get(),
		Crates:     crates,
		Bombs:      len(i.bombs),
		Markers:    i.markers.Count(),
		Rows:       out,
	}
}

func (i *Instance) PoolStats() []pool.GroupStats {
	return i.Pool.Stats()
}

// PlayerDump returns the replicated view of every player.
func (i *Instance) PlayerDump() []api.PlayerView {
	return i.playerViews()
}
