package tracker

import (
	"testing"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/utils"
)

// Wednesday
var now = time.Date(2026, 3, 11, 18, 30, 0, 0, time.UTC)

func daysAgo(n int) string {
	return utils.FormatDate(now.AddDate(0, 0, -n))
}

func logOn(habitID string, ago int, count float64) models.HabitLog {
	return models.HabitLog{HabitID: habitID, Date: daysAgo(ago), Count: count}
}

func newHabit(id string, target float64, days ...time.Weekday) models.Habit {
	if len(days) == 0 {
		days = models.AllDays
	}
	return models.Habit{
		ID:          id,
		Name:        id,
		DisplayName: id,
		Category:    models.CategoryHealth,
		TargetCount: target,
		DaysOfWeek:  days,
		Active:      true,
	}
}

func TestTodayHabits(t *testing.T) {
	daily := newHabit("daily", 2)
	weekend := newHabit("weekend", 1, time.Saturday, time.Sunday)
	inactive := newHabit("inactive", 1)
	inactive.Active = false

	logs := []models.HabitLog{
		logOn("daily", 0, 1),
		logOn("daily", 0, 1.5),
		logOn("daily", 1, 2),
		logOn("daily", 2, 2),
		logOn("weekend", 0, 1),
	}

	got := TodayHabits([]models.Habit{daily, weekend, inactive}, logs, now)
	if len(got) != 1 {
		t.Fatalf("TodayHabits() returned %d habits, want 1", len(got))
	}
	h := got[0]
	if h.ID != "daily" {
		t.Errorf("ID = %s, want daily", h.ID)
	}
	if h.TodayCount != 2.5 {
		t.Errorf("TodayCount = %v, want 2.5", h.TodayCount)
	}
	if h.TodayProgress != 1 {
		t.Errorf("TodayProgress = %v, want capped at 1", h.TodayProgress)
	}
	if !h.CompletedToday {
		t.Error("CompletedToday = false, want true")
	}
	if h.CurrentStreak != 3 || h.LongestStreak != 3 {
		t.Errorf("streaks = %d/%d, want 3/3", h.CurrentStreak, h.LongestStreak)
	}
}

func TestTodayHabits_PartialProgress(t *testing.T) {
	h := newHabit("read", 4)
	got := TodayHabits([]models.Habit{h}, []models.HabitLog{logOn("read", 0, 1)}, now)
	if len(got) != 1 {
		t.Fatalf("TodayHabits() returned %d habits", len(got))
	}
	if got[0].TodayProgress != 0.25 || got[0].CompletedToday {
		t.Errorf("progress = %v completed = %v, want 0.25/false", got[0].TodayProgress, got[0].CompletedToday)
	}
}

func TestProgress(t *testing.T) {
	h := newHabit("water", 8)
	logs := []models.HabitLog{
		logOn("water", 1, 3),
		logOn("water", 1, 1),
		logOn("other", 1, 5),
	}
	if got := Progress(h, logs, now.AddDate(0, 0, -1)); got != 0.5 {
		t.Errorf("Progress(yesterday) = %v, want 0.5", got)
	}
	if got := Progress(h, logs, now); got != 0 {
		t.Errorf("Progress(today) = %v, want 0", got)
	}
}

func TestWeeklyCompletionRate(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
		logs  []models.HabitLog
		want  float64
	}{
		{
			name:  "no logs",
			habit: newHabit("h", 1),
			want:  0,
		},
		{
			name:  "every day",
			habit: newHabit("h", 1),
			logs: []models.HabitLog{
				logOn("h", 0, 1), logOn("h", 1, 1), logOn("h", 2, 1), logOn("h", 3, 1),
				logOn("h", 4, 1), logOn("h", 5, 1), logOn("h", 6, 1),
			},
			want: 1,
		},
		{
			name:  "below target does not count",
			habit: newHabit("h", 2),
			logs:  []models.HabitLog{logOn("h", 0, 1), logOn("h", 1, 2)},
			want:  1.0 / 7,
		},
		{
			name:  "older than a week ignored",
			habit: newHabit("h", 1),
			logs:  []models.HabitLog{logOn("h", 7, 1)},
			want:  0,
		},
		{
			name:  "only scheduled days are applicable",
			habit: newHabit("h", 1, time.Monday, time.Wednesday),
			logs:  []models.HabitLog{logOn("h", 0, 1)},
			want:  0.5,
		},
		{
			name:  "no scheduled days",
			habit: newHabit("h", 1, time.Weekday(9)),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeeklyCompletionRate(tt.habit, tt.logs, now); got != tt.want {
				t.Errorf("WeeklyCompletionRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	a := newHabit("a", 1)
	b := newHabit("b", 1)
	c := newHabit("c", 1)
	off := newHabit("off", 1)
	off.Active = false

	logs := []models.HabitLog{
		logOn("a", 0, 1), logOn("a", 1, 1), logOn("a", 2, 1),
		logOn("b", 1, 1),
		logOn("off", 0, 1),
	}

	got := Summarize([]models.Habit{a, b, c, off}, logs, now)
	want := Summary{
		TotalActive:    3,
		CompletedToday: 1,
		// (3 + 1 + 0) / 3
		AverageStreak: 1.3,
		// (3/7 + 1/7 + 0) / 3
		OverallCompletionRate: 0.19,
	}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}

	if empty := Summarize(nil, nil, now); empty != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", empty)
	}
}

func TestNudgeCountToday(t *testing.T) {
	midnight := utils.StartOfDay(now)
	history := []models.NudgeHistoryEntry{
		{HabitID: "a", SentAt: midnight.Add(-time.Minute)},
		{HabitID: "a", SentAt: midnight},
		{HabitID: "b", SentAt: now.Add(-time.Hour)},
		{HabitID: "c", SentAt: now},
	}
	if got := NudgeCountToday(history, now); got != 3 {
		t.Errorf("NudgeCountToday() = %d, want 3", got)
	}
}
