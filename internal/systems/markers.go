package systems

import (
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/pool"
)

// DefaultMarkerLifetime is how long an explosion marker stays visible.
const DefaultMarkerLifetime = 3 * time.Second

type liveMarker struct {
	entity    *domain.Entity
	remaining time.Duration
}

// MarkerTracker returns explosion markers to the pool once they expire.
type MarkerTracker struct {
	pool     *pool.Pool
	lifetime time.Duration
	live     []liveMarker
}

func NewMarkerTracker(p *pool.Pool, lifetime time.Duration) *MarkerTracker {
	return &MarkerTracker{pool: p, lifetime: lifetime}
}

// Track starts the countdown for marker. A marker that is tracked again
// (because the ring recycled it) restarts its countdown.
func (m *MarkerTracker) Track(marker *domain.Entity) {
	for i := range m.live {
		if m.live[i].entity == marker {
			m.live[i].remaining = m.lifetime
			return
		}
	}
	m.live = append(m.live, liveMarker{entity: marker, remaining: m.lifetime})
}

// Tick ages every marker by dt and releases the expired ones.
func (m *MarkerTracker) Tick(dt time.Duration) int {
	released := 0
	kept := m.live[:0]
	for _, lm := range m.live {
		lm.remaining -= dt
		if lm.remaining <= 0 {
			m.pool.Release(lm.entity)
			released++
			continue
		}
		kept = append(kept, lm)
	}
	for i := len(kept); i < len(m.live); i++ {
		m.live[i] = liveMarker{}
	}
	m.live = kept
	return released
}

// Clear releases every tracked marker.
func (m *MarkerTracker) Clear() {
	for _, lm := range m.live {
		m.pool.Release(lm.entity)
	}
	m.live = m.live[:0]
}

func (m *MarkerTracker) Count() int {
	return len(m.live)
}
