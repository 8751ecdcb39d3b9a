package domain

// DefaultMaxHealth is the health a player spawns with.
const DefaultMaxHealth = 3

// HealthComponent tracks hit points clamped to [0, Max].
type HealthComponent struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

func NewHealth(max int) *HealthComponent {
	return &HealthComponent{Current: max, Max: max}
}

// Damage subtracts amount. Returns true only on the hit that kills.
// Non-positive amounts and hits on the dead are ignored.
func (h *HealthComponent) Damage(amount int) bool {
	if amount <= 0 || h.IsDead() {
		return false
	}
	h.Current -= amount
	if h.Current <= 0 {
		h.Current = 0
		return true
	}
	return false
}

// Heal adds amount up to Max.
func (h *HealthComponent) Heal(amount int) {
	if amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

func (h *HealthComponent) IsDead() bool {
	return h.Current <= 0
}

// Reset restores full health.
func (h *HealthComponent) Reset() {
	h.Current = h.Max
}
