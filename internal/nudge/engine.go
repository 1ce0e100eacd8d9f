// Package nudge decides which habits deserve a reminder right now, how urgent
// each reminder is, and what it should say.
package nudge

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/habitnudge/internal/clock"
	"github.com/julianstephens/habitnudge/internal/constants"
	apperrors "github.com/julianstephens/habitnudge/internal/errors"
	"github.com/julianstephens/habitnudge/internal/models"
)

// Profile carries the personalization signals for the user being nudged.
type Profile struct {
	UserName            string
	PreferredTone       models.Tone
	AuthorityResistance *float64
	SelfEfficacy        *float64
}

// Wellbeing carries optional health signals. Values are assumed to be
// range-checked by the caller.
type Wellbeing struct {
	CognitiveReadiness *float64
	SleepScore         *float64
	StressLevel        *float64
}

// Input is a snapshot of everything one evaluation needs. Habits must already
// carry today's progress and streaks.
type Input struct {
	Habits          []models.HabitWithProgress
	NudgeHistory    []models.NudgeHistoryEntry
	NudgeCountToday int
	Profile         Profile
	Wellbeing       Wellbeing
}

// Engine evaluates nudge decisions. It holds no mutable state and is safe for
// concurrent use when its RandSource is.
type Engine struct {
	cfg      Config
	clock    clock.Clock
	selector *Selector
}

// New validates cfg and returns an engine bound to the given clock and selector.
func New(cfg Config, clk clock.Clock, sel *Selector) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		return nil, fmt.Errorf("%w: nil clock", apperrors.ErrPrecondition)
	}
	if sel == nil {
		return nil, fmt.Errorf("%w: nil template selector", apperrors.ErrPrecondition)
	}
	return &Engine{cfg: cfg, clock: clk, selector: sel}, nil
}

// Config returns the policy the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate returns the nudges to send this cycle, most urgent first and never
// more than the remaining daily budget. Quiet hours, an exhausted budget or no
// eligible habits all yield an empty result without error.
func (e *Engine) Evaluate(in Input) ([]models.NudgeDecision, error) {
	if in.NudgeCountToday < 0 {
		return nil, fmt.Errorf("%w: negative nudge count %d", apperrors.ErrPrecondition, in.NudgeCountToday)
	}
	if e.clock.IsQuietHours(e.cfg.QuietHoursStart, e.cfg.QuietHoursEnd) {
		return []models.NudgeDecision{}, nil
	}
	if in.NudgeCountToday >= e.cfg.MaxNudgesPerDay {
		return []models.NudgeDecision{}, nil
	}

	now := e.clock.Now()
	dayProgress := DayProgress(e.clock.CurrentHour())

	userName := in.Profile.UserName
	if userName == "" {
		userName = constants.DefaultUserName
	}

	decisions := make([]models.NudgeDecision, 0, len(in.Habits))
	for i, h := range in.Habits {
		if h.ID == "" {
			return nil, fmt.Errorf("habit %d (%q): %w", i, h.Name, apperrors.ErrMissingHabitID)
		}
		if h.CompletedToday {
			continue
		}
		if e.coolingDown(h.ID, in.NudgeHistory, now) {
			continue
		}

		score := ComputeUrgency(UrgencyContext{
			Habit:              h,
			DayProgress:        dayProgress,
			CognitiveReadiness: in.Wellbeing.CognitiveReadiness,
			SleepScore:         in.Wellbeing.SleepScore,
			StressLevel:        in.Wellbeing.StressLevel,
		})
		urgency := e.cfg.Classify(score)

		tmpl, err := e.selector.Select(TemplateContext{
			Urgency:             urgency,
			PreferredTone:       in.Profile.PreferredTone,
			AuthorityResistance: in.Profile.AuthorityResistance,
			SelfEfficacy:        in.Profile.SelfEfficacy,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to select template for habit %s: %w", h.ID, err)
		}

		decisions = append(decisions, models.NudgeDecision{
			ShouldNudge: score > e.cfg.MinUrgency,
			HabitID:     h.ID,
			HabitName:   h.Habit.Label(),
			Urgency:     urgency,
			Score:       score,
			Template:    tmpl.ID,
			Message:     Interpolate(tmpl.Template, Vars(userName, h)),
		})
	}

	actionable := slices.DeleteFunc(decisions, func(d models.NudgeDecision) bool {
		return !d.ShouldNudge
	})
	slices.SortStableFunc(actionable, func(a, b models.NudgeDecision) int {
		return b.Urgency.Rank() - a.Urgency.Rank()
	})

	remaining := e.cfg.MaxNudgesPerDay - in.NudgeCountToday
	if len(actionable) > remaining {
		actionable = actionable[:remaining]
	}
	return actionable, nil
}

// coolingDown reports whether habitID was nudged too recently. Only entries
// sent within the base cooldown are considered, and the newest of them is
// measured against its effective cooldown.
func (e *Engine) coolingDown(habitID string, history []models.NudgeHistoryEntry, now time.Time) bool {
	windowStart := now.Add(-e.cfg.CooldownLookback())

	var last *models.NudgeHistoryEntry
	for i := range history {
		entry := &history[i]
		if entry.HabitID != habitID || entry.SentAt.Before(windowStart) {
			continue
		}
		if last == nil || entry.SentAt.After(last.SentAt) {
			last = entry
		}
	}
	if last == nil {
		return false
	}
	return now.Sub(last.SentAt) < e.cfg.effectiveCooldown(last.WasActedUpon)
}
