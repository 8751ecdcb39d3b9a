package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/engine/handlers"
	"github.com/krakowski/BombermanVR/internal/infrastructure/storage"
	"github.com/krakowski/BombermanVR/internal/pool"
	"github.com/krakowski/BombermanVR/internal/replica"
	"github.com/krakowski/BombermanVR/internal/systems"
	"github.com/krakowski/BombermanVR/pkg/utils"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Round parameters are drawn from these ranges whenever they are not fixed.
const (
	MaxRandomSeed   = 100
	MinRandomCrates = 10
	MaxRandomCrates = 30
)

// Config holds the launch parameters of the engine.
type Config struct {
	// MapName selects the map from the store.
	MapName string

	// Seed and CrateCount parameterize the first round. Later rounds draw
	// new values from the instance RNG.
	Seed       int32
	CrateCount int32

	// RngSeed drives every random choice of the instance (round
	// parameters, power-up kinds, player names).
	RngSeed int64

	TickRate time.Duration
	Bomb     systems.BombConfig

	BombPoolSize      int
	ExplosionPoolSize int
	PowerUpPoolSize   int

	MarkerLifetime  time.Duration
	PowerUpInterval time.Duration

	BombCooldown        time.Duration
	MoveCooldown        time.Duration
	InteractionDistance int
	SpeedBoost          float64
	SpeedBoostDuration  time.Duration
	MaxHealth           int

	// AllowAdmin enables admin commands such as REGENERATE.
	AllowAdmin bool
}

// NewConfig creates the default config with a random first round.
func NewConfig() Config {
	rngSeed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(rngSeed))
	seed, crates := RandomRound(rng)

	return Config{
		MapName:    storage.DefaultMap,
		Seed:       seed,
		CrateCount: crates,
		RngSeed:    rngSeed,

		TickRate: 50 * time.Millisecond,
		Bomb:     systems.DefaultBombConfig(),

		BombPoolSize:      32,
		ExplosionPoolSize: 256,
		PowerUpPoolSize:   8,

		MarkerLifetime:  systems.DefaultMarkerLifetime,
		PowerUpInterval: systems.DefaultSpawnInterval,

		BombCooldown:        3 * time.Second,
		MoveCooldown:        200 * time.Millisecond,
		InteractionDistance: 2,
		SpeedBoost:          2,
		SpeedBoostDuration:  10 * time.Second,
		MaxHealth:           domain.DefaultMaxHealth,
	}
}

// RandomRound draws a seed and crate count for a new round.
func RandomRound(rng *rand.Rand) (seed, crateCount int32) {
	seed = rng.Int31n(MaxRandomSeed)
	crateCount = int32(utils.RandomRange(rng, MinRandomCrates, MaxRandomCrates))
	return seed, crateCount
}

// Validate rejects configs the instance cannot run with.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("tick rate %v: %w", c.TickRate, ErrInvalidConfig)
	case c.BombPoolSize <= 0 || c.ExplosionPoolSize <= 0 || c.PowerUpPoolSize <= 0:
		return fmt.Errorf("pool sizes must be positive: %w", ErrInvalidConfig)
	case c.CrateCount < 0:
		return fmt.Errorf("crate count %d: %w", c.CrateCount, ErrInvalidConfig)
	case c.MaxHealth <= 0:
		return fmt.Errorf("max health %d: %w", c.MaxHealth, ErrInvalidConfig)
	case c.SpeedBoost < 1:
		return fmt.Errorf("speed boost %v: %w", c.SpeedBoost, ErrInvalidConfig)
	}
	return nil
}

// Rules returns the part of the config command handlers need.
func (c Config) Rules() handlers.Rules {
	return handlers.Rules{
		BombCooldown:        c.BombCooldown,
		MoveCooldown:        c.MoveCooldown,
		InteractionDistance: c.InteractionDistance,
		SpeedBoost:          c.SpeedBoost,
		AllowAdmin:          c.AllowAdmin,
	}
}

// ReplicaConfig returns the settings an observer needs to simulate this
// arena locally.
func (c Config) ReplicaConfig() replica.Config {
	return replica.Config{
		Bomb: c.Bomb,
		Sizes: pool.Sizes{
			Bombs:      c.BombPoolSize,
			Explosions: c.ExplosionPoolSize,
			PowerUps:   c.PowerUpPoolSize,
		},
		MarkerLifetime: c.MarkerLifetime,
	}
}
