package nudge

import (
	"math"

	"github.com/julianstephens/habitnudge/internal/constants"
	"github.com/julianstephens/habitnudge/internal/models"
)

// UrgencyContext is the input to ComputeUrgency. The wellbeing signals are
// optional; nil means "not provided" and has no effect on the score.
// Values are assumed to be range-checked upstream.
type UrgencyContext struct {
	Habit models.HabitWithProgress
	// DayProgress is how far through the day we are, 0..1.
	DayProgress float64
	// CognitiveReadiness is accepted for parity with the health signals but does not affect the score.
	CognitiveReadiness *float64
	// SleepScore is 0..100.
	SleepScore *float64
	// StressLevel is 1..5.
	StressLevel *float64
}

// DayProgress converts an hour of day (0..23) into the fraction of the day elapsed.
func DayProgress(hour int) float64 {
	return clamp(float64(hour)/23, 0, 1)
}

// ComputeUrgency scores how strongly a habit should be nudged right now.
//
//	urgency = 0.35·incompleteness + 0.30·timeDecay + 0.20·streakRisk + 0.15·healthMod
//
// timeDecay is quadratic in DayProgress so urgency ramps late in the day.
// streakRisk saturates at a 30-day streak. The result is always in [0,1].
func ComputeUrgency(ctx UrgencyContext) float64 {
	incompleteness := clamp(1-ctx.Habit.TodayProgress, 0, 1)

	dp := clamp(ctx.DayProgress, 0, 1)
	timeDecay := dp * dp

	streakRisk := 0.0
	if ctx.Habit.CurrentStreak > 0 {
		streakRisk = math.Min(float64(ctx.Habit.CurrentStreak)/constants.StreakSaturationDays, 1) * constants.StreakRiskScale
	}

	healthMod := 0.0
	if ctx.SleepScore != nil && *ctx.SleepScore < constants.PoorSleepThreshold {
		switch ctx.Habit.Category {
		case models.CategoryHealth, models.CategoryMindfulness:
			healthMod = constants.PoorSleepRecoveryBoost
		default:
			healthMod = constants.PoorSleepPenalty
		}
	}
	// Stacks on top of the sleep adjustment
	if ctx.StressLevel != nil && *ctx.StressLevel >= constants.HighStressThreshold &&
		ctx.Habit.Category == models.CategoryMindfulness {
		healthMod += constants.HighStressBoost
	}

	raw := constants.WeightIncompleteness*incompleteness +
		constants.WeightTimeDecay*timeDecay +
		constants.WeightStreakRisk*streakRisk +
		constants.WeightHealthMod*healthMod

	return clamp(raw, 0, 1)
}

// clamp bounds v to [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
