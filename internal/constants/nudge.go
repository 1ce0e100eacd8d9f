package constants

import "time"

const (
	// Nudge policy defaults. Every value is overridable from the [nudge] config section.
	DefaultMaxNudgesPerDay             = 8
	DefaultCooldown                    = 2 * time.Hour
	DefaultDismissedCooldownMultiplier = 1.5
	DefaultGentleThreshold             = 0.4
	DefaultModerateThreshold           = 0.8
	DefaultMinUrgency                  = 0.15
	DefaultQuietHoursStart             = 22
	DefaultQuietHoursEnd               = 7

	// Urgency weights
	WeightIncompleteness = 0.35
	WeightTimeDecay      = 0.30
	WeightStreakRisk     = 0.20
	WeightHealthMod      = 0.15

	// StreakSaturationDays is the streak length at which streak risk stops growing.
	StreakSaturationDays = 30
	StreakRiskScale      = 0.3

	// Wellbeing modifiers
	PoorSleepThreshold     = 50
	PoorSleepRecoveryBoost = 0.2
	PoorSleepPenalty       = -0.1
	HighStressThreshold    = 4
	HighStressBoost        = 0.15

	// Tone overrides
	AuthorityResistanceThreshold = 0.6
	SelfEfficacyThreshold        = 0.7
)

func init() {
	// Runtime validation: the weighted sum must stay in [0,1] before clamping
	if WeightIncompleteness+WeightTimeDecay+WeightStreakRisk+WeightHealthMod != 1.0 {
		panic("urgency weights must sum to 1.0")
	}
}
