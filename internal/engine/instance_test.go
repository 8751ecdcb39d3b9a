package engine

import (
	"testing"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/internal/systems"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstanceRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TickRate = 0
	_, err := NewInstance(cfg, "test", testMap, nil, DefaultHandlers())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewInstance(testConfig(), "test", "", nil, DefaultHandlers())
	assert.Error(t, err)
}

func TestJoinSeatsPlayersRoundRobin(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)

	want := []domain.Position{at(1, 1), at(5, 1), at(1, 5), at(5, 5), at(1, 1)}
	for n, pos := range want {
		e := joinPlayer(t, i, string(rune('a'+n)))
		assert.Equal(t, pos, e.Pos, "player %d", n)
		assert.Same(t, e, i.World.GetEntity(e.ID))
		assert.True(t, e.IsAlive())
	}
	assert.Equal(t, 5, i.roundSize)
}

func TestJoinSameTokenReturnsExistingPlayer(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	first := joinPlayer(t, i, "a")

	reply := make(chan domain.EntityID, 1)
	i.join(JoinRequest{Token: "a", Name: "Renamed", Reply: reply})

	assert.Equal(t, first.ID, <-reply)
	assert.Equal(t, "Renamed", first.Name)
	assert.Len(t, i.order, 1)
}

func TestJoinWithoutNameGetsGeneratedName(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	i.join(JoinRequest{Token: "anon"})
	assert.NotEmpty(t, i.players["anon"].Name)
}

func TestPlaceBombDamagesNeighbours(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	b := joinPlayer(t, i, "b")

	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	require.Len(t, i.bombs, 1)
	bomb := i.bombs[0].Entity
	assert.True(t, bomb.Active)
	assert.NotZero(t, bomb.NetID)
	assert.Equal(t, a.ID, bomb.Owner)
	require.Len(t, i.spawns, 1)
	assert.Equal(t, bomb.NetID, i.spawns[0].NetID)

	advance(i, 2950*time.Millisecond)
	assert.Len(t, i.bombs, 1, "fuse has not run out yet")
	assert.InDelta(t, 0.75*59/60, bomb.Scale, 1e-9)

	i.Step(tick)
	assert.Empty(t, i.bombs)
	assert.False(t, bomb.Active)
	assert.Nil(t, i.World.GetEntity(bomb.ID))
	assert.Contains(t, i.unspawns, bomb.NetID)
	assert.Equal(t, 0, i.Pool.ActiveCount(pool.TypeBomb))

	assert.Equal(t, 2, a.Health.Current, "owner stands next to the bomb")
	assert.Equal(t, 3, b.Health.Current)
	assert.Positive(t, i.markers.Count())
}

func TestPlaceBombRejections(t *testing.T) {
	cfg := testConfig()
	cfg.BombCooldown = 3 * time.Second
	i := newTestInstance(t, cfg, testMap)
	joinPlayer(t, i, "a")

	tests := []struct {
		name string
		cell api.PositionPayload
	}{
		{"too far", api.PositionPayload{X: 4, Y: 1}},
		{"wall", api.PositionPayload{X: 2, Y: 2}},
		{"out of bounds", api.PositionPayload{X: 9, Y: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command(t, i, "a", domain.ActionPlaceBomb, tt.cell)
			assert.Empty(t, i.bombs)
		})
	}

	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 1, Y: 2})
	require.Len(t, i.bombs, 1)

	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	assert.Len(t, i.bombs, 1, "cooldown")

	command(t, i, "nobody", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	assert.Len(t, i.bombs, 1)
}

func TestBombOnOccupiedCellRejected(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	joinPlayer(t, i, "a")

	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	assert.Len(t, i.bombs, 1)
}

func TestBombChainRemovesBothInOneStep(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	joinPlayer(t, i, "a")

	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	advance(i, time.Second)
	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 3, Y: 1})
	require.Len(t, i.bombs, 2)
	second := i.bombs[1]

	advance(i, 2*time.Second)
	assert.Empty(t, i.bombs)
	assert.True(t, second.Exploded())
	assert.Less(t, second.Elapsed(), 3*time.Second, "set off early by the first blast")
}

func TestBombRingRecycleDetonatesOldest(t *testing.T) {
	cfg := testConfig()
	cfg.BombPoolSize = 2
	i := newTestInstance(t, cfg, testMap)
	a := joinPlayer(t, i, "a")

	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 1, Y: 3})
	first := i.bombs[0]
	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 3, Y: 1})
	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 1, Y: 2})

	assert.True(t, first.Exploded())
	assert.Len(t, i.bombs, 2)
	assert.Equal(t, 2, i.Pool.ActiveCount(pool.TypeBomb))
	assert.Equal(t, 3, a.Health.Current, "(1,3) is two cells away")
}

func TestCrateDestructionIsTracked(t *testing.T) {
	text := "BBBBB\n" +
		"BP.EB\n" +
		"BBBBB"
	cfg := testConfig()
	cfg.CrateCount = 1
	i := newTestInstance(t, cfg, text)
	joinPlayer(t, i, "a")
	require.Equal(t, 1, i.World.CountKind(domain.KindCrate))

	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	advance(i, 3*time.Second)

	assert.Equal(t, 0, i.World.CountKind(domain.KindCrate))
	assert.Equal(t, []domain.Position{at(3, 1)}, i.destroyed)

	state := i.BuildStateFor(i.players["a"].ID)
	assert.Equal(t, []api.PositionView{{X: 3, Y: 1}}, state.Map.Destroyed)
}

func TestMoveAndCollectPowerUp(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	a.Health.Damage(1)
	require.NoError(t, i.World.UpdateEntityPos(a, at(3, 2)))

	advance(i, 100*time.Millisecond)
	spawner := i.powerUps.Spawners()[0]
	powerUp := spawner.Current()
	require.NotNil(t, powerUp)
	require.NotZero(t, powerUp.NetID)

	command(t, i, "a", domain.ActionMove, api.DirectionPayload{Dy: 1})
	assert.Equal(t, at(3, 3), a.Pos)
	assert.Nil(t, spawner.Current())
	assert.False(t, powerUp.Active)
	assert.Contains(t, i.unspawns, powerUp.NetID)

	switch pool.TypeID(powerUp.TypeID) {
	case pool.TypePowerUpHealth:
		assert.Equal(t, 3, a.Health.Current)
	case pool.TypePowerUpSpeed:
		assert.True(t, a.Player.Boosted())
	default:
		t.Fatalf("unexpected power-up %q", powerUp.TypeID)
	}
}

func TestMoveBlockedAndCooldown(t *testing.T) {
	cfg := testConfig()
	cfg.MoveCooldown = 200 * time.Millisecond
	i := newTestInstance(t, cfg, testMap)
	a := joinPlayer(t, i, "a")

	command(t, i, "a", domain.ActionMove, api.DirectionPayload{Dx: -1})
	assert.Equal(t, at(1, 1), a.Pos, "border")

	command(t, i, "a", domain.ActionMove, api.DirectionPayload{Dx: 1})
	assert.Equal(t, at(2, 1), a.Pos)

	command(t, i, "a", domain.ActionMove, api.DirectionPayload{Dx: 1})
	assert.Equal(t, at(2, 1), a.Pos, "cooldown")

	advance(i, 200*time.Millisecond)
	command(t, i, "a", domain.ActionMove, api.DirectionPayload{Dx: 1})
	assert.Equal(t, at(3, 1), a.Pos)
}

func TestBoostShortensMoveCooldown(t *testing.T) {
	cfg := testConfig()
	cfg.MoveCooldown = 200 * time.Millisecond
	i := newTestInstance(t, cfg, testMap)
	a := joinPlayer(t, i, "a")
	a.Player.Boost = time.Second

	command(t, i, "a", domain.ActionMove, api.DirectionPayload{Dx: 1})
	assert.Equal(t, 100*time.Millisecond, a.Player.MoveCooldown)
}

func TestRegenerateCommand(t *testing.T) {
	cfg := testConfig()
	cfg.AllowAdmin = true
	i := newTestInstance(t, cfg, testMap)
	joinPlayer(t, i, "a")
	i.publish()

	command(t, i, "a", domain.ActionRegenerate, api.RegeneratePayload{Seed: 42, CrateCount: 0})
	assert.Equal(t, int32(42), i.Seed.Get())
	assert.True(t, i.mapChanged)
	assert.False(t, i.CrateCount.Dirty())
	assert.False(t, i.Seed.Dirty(), "flushed by the regeneration")

	i.publish()
	command(t, i, "a", domain.ActionRegenerate, api.RegeneratePayload{Seed: 42, CrateCount: 0})
	assert.False(t, i.mapChanged, "same parameters do not regenerate")
}

func TestDirtyParameterRegeneratesOnStep(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	i.publish()

	i.Seed.Set(8)
	assert.True(t, i.Seed.Dirty())
	assert.False(t, i.mapChanged)

	advance(i, i.cfg.TickRate)
	assert.False(t, i.Seed.Dirty())
	assert.True(t, i.mapChanged)
	assert.Equal(t, int32(8), i.generator.Layout().Seed)
}

func TestRegenerateCommandNeedsAdmin(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	joinPlayer(t, i, "a")

	command(t, i, "a", domain.ActionRegenerate, api.RegeneratePayload{Seed: 42})
	assert.Equal(t, int32(7), i.Seed.Get())
}

func TestRegenerateClearsTransients(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	command(t, i, "a", domain.ActionPlaceBomb, api.PositionPayload{X: 2, Y: 1})
	lifecycle := i.bombs[0]
	bomb := lifecycle.Entity

	i.Regenerate(99, 0)
	i.settle()

	assert.Empty(t, i.bombs)
	assert.False(t, bomb.Active)
	assert.Equal(t, systems.BombRemoved, lifecycle.State())
	assert.Nil(t, lifecycle.Event(), "torn down without a blast")
	assert.Equal(t, a.Health.Max, a.Health.Current)
	assert.Contains(t, i.mapUnspawns, bomb.NetID)
	assert.Empty(t, i.unspawns)
}

func TestPublishSequence(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	ch := i.hub.Register(a.ID)

	i.publish()

	var types []string
	for len(ch) > 0 {
		msg := <-ch
		types = append(types, msg.Type)
		if msg.Type == api.MsgState {
			assert.Equal(t, a.ID.String(), msg.MyEntityID)
			require.NotNil(t, msg.Map)
			assert.Equal(t, int32(7), msg.Map.Seed)
			assert.Len(t, msg.Players, 1)
		}
	}
	assert.Equal(t, []string{api.MsgMap, api.MsgState, api.MsgUpdate}, types)

	i.publish()
	assert.Empty(t, ch, "nothing changed")
}

func TestInitResendsState(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	i.publish()

	command(t, i, "a", domain.ActionInit, nil)
	assert.Equal(t, []domain.EntityID{a.ID}, i.pendingState)
}
