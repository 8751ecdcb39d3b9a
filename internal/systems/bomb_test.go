package systems

import (
	"testing"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDetonator struct {
	calls int
}

func (f *fakeDetonator) Resolve(origin domain.Position, radius, damage int, source *domain.Entity) *ExplosionEvent {
	f.calls++
	return &ExplosionEvent{Origin: origin, Radius: radius}
}

func newTestBomb(det Detonator, removed *int) *Bomb {
	e := &domain.Entity{ID: 1, Kind: domain.KindBomb, Tag: domain.TagExplodable, Active: true, Scale: 0.5}
	return NewBomb(e, 77, DefaultBombConfig(), det, func(*Bomb) {
		if removed != nil {
			*removed++
		}
	})
}

func TestBombGrowsLinearly(t *testing.T) {
	det := &fakeDetonator{}
	b := newTestBomb(det, nil)

	assert.Equal(t, BombArmed, b.State())
	assert.Zero(t, b.Entity.Scale, "placement resets the scale")
	assert.Same(t, b, b.Entity.Behavior)
	assert.Equal(t, domain.EntityID(77), b.Entity.Owner)

	b.Tick(time.Second)
	assert.Equal(t, BombGrowing, b.State())
	assert.InDelta(t, 0.25, b.Entity.Scale, 1e-9)

	b.Tick(time.Second)
	assert.InDelta(t, 0.5, b.Entity.Scale, 1e-9)
	assert.Zero(t, det.calls)

	b.Tick(time.Second)
	assert.Equal(t, BombDetonating, b.State())
	assert.InDelta(t, 0.75, b.Entity.Scale, 1e-9)
	assert.Equal(t, 1, det.calls)
	require.NotNil(t, b.Event())

	b.Tick(time.Second)
	assert.Equal(t, 1, det.calls, "ticks after detonation do nothing")
}

func TestBombExplodeIdempotent(t *testing.T) {
	det := &fakeDetonator{}
	b := newTestBomb(det, nil)

	b.Explode()
	b.Explode()
	b.Tick(5 * time.Second)

	assert.Equal(t, 1, det.calls)
	assert.True(t, b.Exploded())
}

func TestBombRemoveForcesDetonation(t *testing.T) {
	det := &fakeDetonator{}
	removed := 0
	b := newTestBomb(det, &removed)

	b.Tick(500 * time.Millisecond)
	b.Remove()

	assert.Equal(t, 1, det.calls, "an unexploded bomb must not vanish silently")
	assert.Equal(t, 1, removed)
	assert.Equal(t, BombRemoved, b.State())

	b.Remove()
	b.Explode()
	assert.Equal(t, 1, det.calls)
	assert.Equal(t, 1, removed)
}

func TestBombRemoveAfterDetonation(t *testing.T) {
	det := &fakeDetonator{}
	removed := 0
	b := newTestBomb(det, &removed)

	b.Tick(3 * time.Second)
	require.True(t, b.Exploded())
	b.Remove()

	assert.Equal(t, 1, det.calls)
	assert.Equal(t, 1, removed)
}

func TestBombDiscardSkipsBlast(t *testing.T) {
	det := &fakeDetonator{}
	removed := 0
	b := newTestBomb(det, &removed)
	b.Tick(time.Second)

	b.Discard()
	assert.Equal(t, BombRemoved, b.State())
	assert.Zero(t, det.calls)
	assert.Equal(t, 1, removed)

	b.Explode()
	b.Remove()
	b.Discard()
	assert.Zero(t, det.calls, "a discarded bomb never detonates")
	assert.Equal(t, 1, removed)
}

func TestBombStateString(t *testing.T) {
	assert.Equal(t, "ARMED", BombArmed.String())
	assert.Equal(t, "REMOVED", BombRemoved.String())
	assert.Equal(t, "UNKNOWN", BombState(9).String())
}
