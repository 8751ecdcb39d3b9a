package domain

import "time"

// PlayerComponent holds the per-session state of a connected player.
type PlayerComponent struct {
	Token     string   `json:"-"`
	Spectator bool     `json:"spectator"`
	InRound   bool     `json:"inRound"`
	Ready     bool     `json:"ready"`
	Start     Position `json:"start"`

	BombCooldown time.Duration `json:"bombCooldown"`
	MoveCooldown time.Duration `json:"moveCooldown"`
	Boost        time.Duration `json:"boost"`

	// JoinedAt and DiedAt are measured on the round clock.
	JoinedAt time.Duration `json:"joinedAt"`
	DiedAt   time.Duration `json:"diedAt"`
}

// Tick runs down the cooldowns and the speed boost.
func (p *PlayerComponent) Tick(dt time.Duration) {
	p.BombCooldown = countdown(p.BombCooldown, dt)
	p.MoveCooldown = countdown(p.MoveCooldown, dt)
	p.Boost = countdown(p.Boost, dt)
}

func (p *PlayerComponent) Boosted() bool {
	return p.Boost > 0
}

// Survived returns how long the player stayed alive in the current round,
// given the current round clock.
func (p *PlayerComponent) Survived(now time.Duration) time.Duration {
	end := now
	if p.Spectator && p.DiedAt > 0 {
		end = p.DiedAt
	}
	if end < p.JoinedAt {
		return 0
	}
	return end - p.JoinedAt
}

func countdown(v, dt time.Duration) time.Duration {
	if v <= dt {
		return 0
	}
	return v - dt
}
