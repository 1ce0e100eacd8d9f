// Package tracker derives per-day progress, streaks and summaries from
// snapshots of habits and their logs.
package tracker

import (
	"math"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/streak"
	"github.com/julianstephens/habitnudge/internal/utils"
)

// Summary is the dashboard view across all active habits.
type Summary struct {
	TotalActive           int     `json:"total_active"`
	CompletedToday        int     `json:"completed_today"`
	AverageStreak         float64 `json:"average_streak"`
	OverallCompletionRate float64 `json:"overall_completion_rate"`
}

// dayCount sums the logged counts for a habit on one date.
func dayCount(habitID, date string, logs []models.HabitLog) float64 {
	var total float64
	for _, l := range logs {
		if l.HabitID == habitID && l.Date == date {
			total += l.Count
		}
	}
	return total
}

func progressOf(h models.Habit, count float64) float64 {
	if h.TargetCount <= 0 {
		return 0
	}
	return math.Min(count/h.TargetCount, 1)
}

// WithProgress joins a habit with its progress on now's date and its streaks.
func WithProgress(h models.Habit, logs []models.HabitLog, now time.Time) models.HabitWithProgress {
	count := dayCount(h.ID, utils.FormatDate(now), logs)
	s := streak.Calculate(now, h.ID, h.DaysOfWeek, logs)
	return models.HabitWithProgress{
		Habit:          h,
		TodayCount:     count,
		TodayProgress:  progressOf(h, count),
		CurrentStreak:  s.Current,
		LongestStreak:  s.Longest,
		CompletedToday: h.TargetCount > 0 && count >= h.TargetCount,
	}
}

// TodayHabits returns the active habits scheduled on now's weekday, in input
// order, each joined with today's progress.
func TodayHabits(habits []models.Habit, logs []models.HabitLog, now time.Time) []models.HabitWithProgress {
	out := make([]models.HabitWithProgress, 0, len(habits))
	for _, h := range habits {
		if !h.Active || !h.IsActiveOn(now.Weekday()) {
			continue
		}
		out = append(out, WithProgress(h, logs, now))
	}
	return out
}

// Progress is the habit's completion fraction on day, capped at 1.
func Progress(h models.Habit, logs []models.HabitLog, day time.Time) float64 {
	return progressOf(h, dayCount(h.ID, utils.FormatDate(day), logs))
}

// WeeklyCompletionRate is the share of scheduled days in the last seven
// (today included) on which the target was met.
func WeeklyCompletionRate(h models.Habit, logs []models.HabitLog, today time.Time) float64 {
	completed, applicable := 0, 0
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, -i)
		if !h.IsActiveOn(d.Weekday()) {
			continue
		}
		applicable++
		if h.TargetCount > 0 && dayCount(h.ID, utils.FormatDate(d), logs) >= h.TargetCount {
			completed++
		}
	}
	if applicable == 0 {
		return 0
	}
	return float64(completed) / float64(applicable)
}

// Summarize aggregates all active habits. The average streak is rounded to one
// decimal and the completion rate to two.
func Summarize(habits []models.Habit, logs []models.HabitLog, now time.Time) Summary {
	var s Summary
	var streakTotal, rateTotal float64

	for _, h := range habits {
		if !h.Active {
			continue
		}
		s.TotalActive++
		streakTotal += float64(streak.Calculate(now, h.ID, h.DaysOfWeek, logs).Current)
		rateTotal += WeeklyCompletionRate(h, logs, now)
	}
	for _, h := range TodayHabits(habits, logs, now) {
		if h.CompletedToday {
			s.CompletedToday++
		}
	}

	if s.TotalActive > 0 {
		s.AverageStreak = roundTo(streakTotal/float64(s.TotalActive), 1)
		s.OverallCompletionRate = roundTo(rateTotal/float64(s.TotalActive), 2)
	}
	return s
}

// NudgeCountToday counts history entries sent since local midnight of now.
func NudgeCountToday(history []models.NudgeHistoryEntry, now time.Time) int {
	midnight := utils.StartOfDay(now)
	n := 0
	for _, e := range history {
		if !e.SentAt.Before(midnight) {
			n++
		}
	}
	return n
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
