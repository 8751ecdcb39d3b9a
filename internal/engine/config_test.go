package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Bomb.Radius)
	assert.Equal(t, 2, cfg.InteractionDistance)
	assert.GreaterOrEqual(t, cfg.CrateCount, int32(MinRandomCrates))
	assert.Less(t, cfg.Seed, int32(MaxRandomSeed))
}

func TestRandomRoundIsDeterministic(t *testing.T) {
	s1, c1 := RandomRound(rand.New(rand.NewSource(5)))
	s2, c2 := RandomRound(rand.New(rand.NewSource(5)))
	assert.Equal(t, s1, s2)
	assert.Equal(t, c1, c2)

	rng := rand.New(rand.NewSource(9))
	for n := 0; n < 200; n++ {
		seed, crates := RandomRound(rng)
		assert.True(t, seed >= 0 && seed < MaxRandomSeed, "seed %d", seed)
		assert.True(t, crates >= MinRandomCrates && crates < MaxRandomCrates, "crates %d", crates)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tick rate", func(c *Config) { c.TickRate = 0 }},
		{"pool size", func(c *Config) { c.BombPoolSize = 0 }},
		{"crates", func(c *Config) { c.CrateCount = -1 }},
		{"health", func(c *Config) { c.MaxHealth = 0 }},
		{"boost", func(c *Config) { c.SpeedBoost = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
