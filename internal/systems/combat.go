package systems

import (
	"fmt"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ApplyBlastDamage hurts target and returns a log line plus whether the hit
// was fatal.
func ApplyBlastDamage(target, source *domain.Entity, amount int) (string, bool) {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"target_id":   target.ID,
		"target_name": target.Name,
		"amount":      amount,
	})
	if source != nil {
		combatLogger = combatLogger.WithField("source_id", source.ID)
	}

	if target.Health == nil {
		combatLogger.Warn("Blast hit an entity without health")
		return "", false
	}
	if target.Health.IsDead() {
		combatLogger.Debug("Blast hit a dead player")
		return "", false
	}

	killed := target.Health.Damage(amount)
	combatLogger.WithFields(logrus.Fields{
		"hp_left": target.Health.Current,
		"killed":  killed,
	}).Info("Blast damage applied")

	if killed {
		return fmt.Sprintf("%s was blown up.", target.Name), true
	}
	return fmt.Sprintf("%s takes %d damage (%d/%d).", target.Name, amount, target.Health.Current, target.Health.Max), false
}
