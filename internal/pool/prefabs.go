package pool

import "github.com/krakowski/BombermanVR/internal/domain"

// Sizes are the ring lengths of an arena session.
type Sizes struct {
	Bombs      int
	Explosions int
	PowerUps   int
}

var (
	BombPrefab      = Prefab{TypeID: TypeBomb, Kind: domain.KindBomb, Tag: domain.TagExplodable, HalfExtent: 0.375}
	ExplosionPrefab = Prefab{TypeID: TypeExplosion, Kind: domain.KindExplosion, Tag: domain.TagNone, HalfExtent: 0.5}
	HealthPrefab    = Prefab{TypeID: TypePowerUpHealth, Kind: domain.KindPowerUp, Tag: domain.TagNone, HalfExtent: 0.25}
	SpeedPrefab     = Prefab{TypeID: TypePowerUpSpeed, Kind: domain.KindPowerUp, Tag: domain.TagNone, HalfExtent: 0.25}
)

// RegisterArena registers every pooled type an arena uses. Authority and
// observers call it with the same sizes.
func RegisterArena(p *Pool, sizes Sizes) error {
	regs := []struct {
		prefab Prefab
		size   int
	}{
		{BombPrefab, sizes.Bombs},
		{ExplosionPrefab, sizes.Explosions},
		{HealthPrefab, sizes.PowerUps},
		{SpeedPrefab, sizes.PowerUps},
	}
	for _, r := range regs {
		if err := p.RegisterPool(r.prefab, r.size); err != nil {
			return err
		}
	}
	return nil
}
