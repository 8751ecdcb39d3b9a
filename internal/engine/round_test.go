package engine

import (
	"testing"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kill(i *Instance, e *domain.Entity) {
	for e.Health.Current > 0 {
		i.ApplyBlastDamage(e, nil, 1)
	}
}

func TestDeathMakesSpectator(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	joinPlayer(t, i, "a")
	b := joinPlayer(t, i, "b")
	joinPlayer(t, i, "c")

	advance(i, time.Second)
	kill(i, b)
	i.settle()

	assert.True(t, b.Player.Spectator)
	assert.False(t, b.IsAlive())
	assert.Equal(t, time.Second, b.Player.DiedAt)
	assert.Nil(t, i.World.GetEntity(b.ID))
	assert.True(t, i.roundActive, "two players are still standing")

	command(t, i, "b", domain.ActionPlaceBomb, api.PositionPayload{X: 5, Y: 2})
	assert.Empty(t, i.bombs, "spectators cannot place bombs")

	command(t, i, "b", domain.ActionMove, api.DirectionPayload{Dx: -1})
	assert.Equal(t, at(5, 1), b.Pos)
}

func TestLastPlayerStandingWins(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	b := joinPlayer(t, i, "b")
	c := joinPlayer(t, i, "c")

	advance(i, time.Second)
	kill(i, b)
	advance(i, time.Second)
	kill(i, c)
	i.settle()

	require.False(t, i.roundActive)
	require.True(t, i.leaderboardPending)
	require.Len(t, i.leaderboard, 3)

	assert.Equal(t, api.LeaderboardEntry{Rank: 1, Name: a.Name, SurvivedMs: 2000, Winner: true}, i.leaderboard[0])
	assert.Equal(t, api.LeaderboardEntry{Rank: 2, Name: c.Name, SurvivedMs: 2000}, i.leaderboard[1])
	assert.Equal(t, api.LeaderboardEntry{Rank: 3, Name: b.Name, SurvivedMs: 1000}, i.leaderboard[2])

	ch := i.hub.Register(a.ID)
	i.publish()
	var sawLeaderboard bool
	for len(ch) > 0 {
		if msg := <-ch; msg.Type == api.MsgLeaderboard {
			sawLeaderboard = true
			assert.Len(t, msg.Leaderboard, 3)
		}
	}
	assert.True(t, sawLeaderboard)
}

func TestDoubleKnockoutHasNoWinner(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	b := joinPlayer(t, i, "b")

	kill(i, a)
	kill(i, b)
	i.settle()

	require.False(t, i.roundActive)
	for _, entry := range i.leaderboard {
		assert.False(t, entry.Winner)
	}
}

func TestSinglePlayerRoundDoesNotEnd(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")

	kill(i, a)
	i.settle()
	assert.True(t, i.roundActive)
}

func TestLeaveEndsRound(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	b := joinPlayer(t, i, "b")

	i.leave("b")

	assert.False(t, i.roundActive)
	assert.Nil(t, i.World.GetEntity(b.ID))
	require.Len(t, i.leaderboard, 1)
	assert.Equal(t, a.Name, i.leaderboard[0].Name)
	assert.True(t, i.leaderboard[0].Winner)

	i.leave("unknown")
}

func TestReadyStartsNextRound(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")
	b := joinPlayer(t, i, "b")
	require.NoError(t, i.World.UpdateEntityPos(a, at(3, 1)))
	a.Health.Damage(1)
	kill(i, b)
	i.settle()
	require.False(t, i.roundActive)

	late := joinPlayer(t, i, "late")
	assert.True(t, late.Player.Spectator, "joining between rounds means watching")
	assert.False(t, late.Player.InRound)

	command(t, i, "a", domain.ActionReady, api.ReadyPayload{Ready: true})
	command(t, i, "b", domain.ActionReady, api.ReadyPayload{Ready: true})
	assert.False(t, i.roundActive, "waiting for the late joiner")

	command(t, i, "late", domain.ActionReady, api.ReadyPayload{Ready: true})
	require.True(t, i.roundActive)
	assert.Equal(t, 2, i.round)
	assert.Equal(t, 3, i.roundSize)
	assert.Nil(t, i.leaderboard)
	assert.True(t, i.mapChanged)

	seed, crates := i.Seed.Get(), i.CrateCount.Get()
	assert.GreaterOrEqual(t, seed, int32(0))
	assert.Less(t, seed, int32(MaxRandomSeed))
	assert.GreaterOrEqual(t, crates, int32(MinRandomCrates))
	assert.Less(t, crates, int32(MaxRandomCrates))

	for n, e := range []*domain.Entity{a, b, late} {
		assert.True(t, e.IsAlive(), e.Name)
		assert.False(t, e.Player.Ready, e.Name)
		assert.Equal(t, 3, e.Health.Current, e.Name)
		assert.Equal(t, i.generator.Layout().PlayerStarts[n], e.Pos, e.Name)
		assert.Same(t, e, i.World.GetEntity(e.ID), e.Name)
	}
}

func TestReadyDuringRoundRejected(t *testing.T) {
	i := newTestInstance(t, testConfig(), testMap)
	a := joinPlayer(t, i, "a")

	command(t, i, "a", domain.ActionReady, api.ReadyPayload{Ready: true})
	assert.False(t, a.Player.Ready)
}
