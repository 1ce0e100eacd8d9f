package nudge

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitnudge/internal/constants"
	apperrors "github.com/julianstephens/habitnudge/internal/errors"
	"github.com/julianstephens/habitnudge/internal/models"
)

// Config is the policy surface of the engine.
type Config struct {
	// MaxNudgesPerDay caps nudges across all habits in one calendar day.
	MaxNudgesPerDay int
	// Cooldown is the minimum gap between two nudges for the same habit
	// when the last one was acted upon.
	Cooldown time.Duration
	// DismissedCooldownMultiplier stretches Cooldown when the last nudge was ignored.
	DismissedCooldownMultiplier float64
	// Scores below GentleThreshold are gentle, below ModerateThreshold moderate, otherwise critical.
	GentleThreshold   float64
	ModerateThreshold float64
	// MinUrgency is the floor a score must exceed for a decision to be sent.
	MinUrgency      float64
	QuietHoursStart int
	QuietHoursEnd   int
}

// DefaultConfig returns the stock nudge policy.
func DefaultConfig() Config {
	return Config{
		MaxNudgesPerDay:             constants.DefaultMaxNudgesPerDay,
		Cooldown:                    constants.DefaultCooldown,
		DismissedCooldownMultiplier: constants.DefaultDismissedCooldownMultiplier,
		GentleThreshold:             constants.DefaultGentleThreshold,
		ModerateThreshold:           constants.DefaultModerateThreshold,
		MinUrgency:                  constants.DefaultMinUrgency,
		QuietHoursStart:             constants.DefaultQuietHoursStart,
		QuietHoursEnd:               constants.DefaultQuietHoursEnd,
	}
}

// Validate rejects configurations the engine cannot honour.
func (c Config) Validate() error {
	if c.MaxNudgesPerDay < 1 {
		return fmt.Errorf("%w: max nudges per day must be at least 1, got %d", apperrors.ErrInvalidConfig, c.MaxNudgesPerDay)
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("%w: cooldown must be positive, got %v", apperrors.ErrInvalidConfig, c.Cooldown)
	}
	if c.DismissedCooldownMultiplier < 1 {
		return fmt.Errorf("%w: dismissed cooldown multiplier must be at least 1, got %v", apperrors.ErrInvalidConfig, c.DismissedCooldownMultiplier)
	}
	if !(c.GentleThreshold > 0 && c.GentleThreshold < c.ModerateThreshold && c.ModerateThreshold <= 1) {
		return fmt.Errorf("%w: thresholds must satisfy 0 < gentle < moderate <= 1, got %v / %v",
			apperrors.ErrInvalidConfig, c.GentleThreshold, c.ModerateThreshold)
	}
	if c.MinUrgency < 0 || c.MinUrgency >= 1 {
		return fmt.Errorf("%w: min urgency must be in [0,1), got %v", apperrors.ErrInvalidConfig, c.MinUrgency)
	}
	if c.QuietHoursStart < 0 || c.QuietHoursStart > 23 || c.QuietHoursEnd < 0 || c.QuietHoursEnd > 23 {
		return fmt.Errorf("%w: quiet hours must be within 0..23, got %d to %d",
			apperrors.ErrInvalidConfig, c.QuietHoursStart, c.QuietHoursEnd)
	}
	return nil
}

// Classify maps a score to an urgency level. Boundaries belong to the higher level.
func (c Config) Classify(score float64) models.Urgency {
	if score < c.GentleThreshold {
		return models.UrgencyGentle
	}
	if score < c.ModerateThreshold {
		return models.UrgencyModerate
	}
	return models.UrgencyCritical
}

// ClassifyUrgency classifies score with the default thresholds.
func ClassifyUrgency(score float64) models.Urgency {
	return DefaultConfig().Classify(score)
}

// effectiveCooldown is the cooldown that applies after a nudge with the given outcome.
func (c Config) effectiveCooldown(actedUpon bool) time.Duration {
	if actedUpon {
		return c.Cooldown
	}
	return time.Duration(float64(c.Cooldown) * c.DismissedCooldownMultiplier)
}

// CooldownLookback is how far back history is searched for a habit's last
// nudge. Entries older than the base cooldown never block a habit.
func (c Config) CooldownLookback() time.Duration {
	return c.Cooldown
}
