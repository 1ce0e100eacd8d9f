// Package runner drives periodic nudge evaluation: it snapshots the store,
// asks the engine for decisions, hands them to the scheduler and records
// what was delivered.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/habitnudge/internal/clock"
	"github.com/julianstephens/habitnudge/internal/constants"
	"github.com/julianstephens/habitnudge/internal/logger"
	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/nudge"
	"github.com/julianstephens/habitnudge/internal/tracker"
	"github.com/julianstephens/habitnudge/internal/utils"
)

// ErrCycleInProgress is returned by Tick when another evaluation is still running.
var ErrCycleInProgress = errors.New("evaluation cycle already in progress")

// Store is the slice of storage.Provider the runner reads and writes.
type Store interface {
	GetAllHabits(includeInactive bool) ([]models.Habit, error)
	GetLogsSince(startDay string) ([]models.HabitLog, error)
	GetNudgesSince(since time.Time) ([]models.NudgeHistoryEntry, error)
	AddNudge(models.NudgeHistoryEntry) error
}

// Scheduler delivers decisions. *notifier.Scheduler implements it.
type Scheduler interface {
	Cancel(habitID string) bool
	Schedule(ctx context.Context, d models.NudgeDecision, delay time.Duration) (string, error)
}

// Options configures a Runner.
type Options struct {
	// Interval between cycles in Run. Zero means constants.DefaultEvalInterval.
	Interval  time.Duration
	UserID    string
	Profile   nudge.Profile
	Wellbeing nudge.Wellbeing
	// DryRun delivers decisions without recording them in nudge history.
	DryRun bool
}

// Result summarises one evaluation cycle.
type Result struct {
	Evaluated int
	Decisions []models.NudgeDecision
	Scheduled int
	Failed    int
}

// Runner drives the evaluate, schedule and record cycle. Cycles never overlap.
type Runner struct {
	store     Store
	engine    *nudge.Engine
	scheduler Scheduler
	clock     clock.Clock
	opts      Options

	mu sync.Mutex
}

// New returns a Runner; a non-positive interval falls back to the default.
func New(store Store, engine *nudge.Engine, scheduler Scheduler, clk clock.Clock, opts Options) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = constants.DefaultEvalInterval
	}
	return &Runner{
		store:     store,
		engine:    engine,
		scheduler: scheduler,
		clock:     clk,
		opts:      opts,
	}
}

// Tick runs one evaluation cycle. Overlapping calls are not queued: the
// second caller gets ErrCycleInProgress.
func (r *Runner) Tick(ctx context.Context) (Result, error) {
	if !r.mu.TryLock() {
		return Result{}, ErrCycleInProgress
	}
	defer r.mu.Unlock()

	in, err := r.snapshot()
	if err != nil {
		return Result{}, err
	}

	decisions, err := r.engine.Evaluate(in)
	if err != nil {
		return Result{}, fmt.Errorf("failed to evaluate nudges: %w", err)
	}

	res := Result{Evaluated: len(in.Habits), Decisions: decisions}
	for _, d := range decisions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r.scheduler.Cancel(d.HabitID)
		token, err := r.scheduler.Schedule(ctx, d, 0)
		if err != nil {
			res.Failed++
			logger.Warn("Failed to schedule nudge", "habit", d.HabitID, "error", err)
			continue
		}
		res.Scheduled++
		if r.opts.DryRun {
			continue
		}

		entry := models.NudgeHistoryEntry{
			ID:           token,
			UserID:       r.opts.UserID,
			HabitID:      d.HabitID,
			TemplateUsed: d.Template,
			SentAt:       r.clock.Now(),
		}
		if err := r.store.AddNudge(entry); err != nil {
			logger.Error("Failed to record nudge", "habit", d.HabitID, "error", err)
		}
	}

	logger.Debug("Evaluation cycle complete",
		"habits", res.Evaluated, "decisions", len(decisions), "scheduled", res.Scheduled, "failed", res.Failed)
	return res, nil
}

// Evaluate computes this cycle's decisions without delivering or recording them.
func (r *Runner) Evaluate() ([]models.NudgeDecision, error) {
	in, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	return r.engine.Evaluate(in)
}

// snapshot reads everything one evaluation needs.
func (r *Runner) snapshot() (nudge.Input, error) {
	now := r.clock.Now()

	habits, err := r.store.GetAllHabits(false)
	if err != nil {
		return nudge.Input{}, fmt.Errorf("failed to load habits: %w", err)
	}

	logs, err := r.store.GetLogsSince(utils.FormatDate(now.AddDate(0, 0, -constants.LogLookbackDays)))
	if err != nil {
		return nudge.Input{}, fmt.Errorf("failed to load habit logs: %w", err)
	}

	// history must reach back to local midnight for the daily count and far
	// enough for the cooldown window
	since := utils.StartOfDay(now).AddDate(0, 0, -1)
	if lookback := now.Add(-r.engine.Config().CooldownLookback()); lookback.Before(since) {
		since = lookback
	}
	history, err := r.store.GetNudgesSince(since)
	if err != nil {
		return nudge.Input{}, fmt.Errorf("failed to load nudge history: %w", err)
	}

	return nudge.Input{
		Habits:          tracker.TodayHabits(habits, logs, now),
		NudgeHistory:    history,
		NudgeCountToday: tracker.NudgeCountToday(history, now),
		Profile:         r.opts.Profile,
		Wellbeing:       r.opts.Wellbeing,
	}, nil
}

// Run evaluates immediately and then once per interval until ctx is done.
// A failed cycle is logged and skipped.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	logger.Info("Nudge runner started", "interval", r.opts.Interval.String(), "dry_run", r.opts.DryRun)
	for {
		if _, err := r.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Evaluation cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("Nudge runner stopped")
			return nil
		case <-ticker.C:
		}
	}
}
