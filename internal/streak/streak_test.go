package streak

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/utils"
)

// Wednesday
var today = time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)

func logsAt(habitID string, offsets ...int) []models.HabitLog {
	var logs []models.HabitLog
	for i, off := range offsets {
		logs = append(logs, models.HabitLog{
			ID:      fmt.Sprintf("%s-log-%d", habitID, i),
			HabitID: habitID,
			Date:    utils.FormatDate(today.AddDate(0, 0, -off)),
			Count:   1,
		})
	}
	return logs
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		activeDays  []time.Weekday
		logs        []models.HabitLog
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "no logs",
			activeDays:  models.AllDays,
			logs:        nil,
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "three days ending yesterday with today pending",
			activeDays:  models.AllDays,
			logs:        logsAt("h1", 1, 2, 3),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "today logged extends the run",
			activeDays:  models.AllDays,
			logs:        logsAt("h1", 0, 1, 2),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "gap at day two",
			activeDays:  models.AllDays,
			logs:        logsAt("h1", 1, 3, 4),
			wantCurrent: 1,
			wantLongest: 2,
		},
		{
			name:        "yesterday missed breaks current streak",
			activeDays:  models.AllDays,
			logs:        logsAt("h1", 2, 3, 4, 5),
			wantCurrent: 0,
			wantLongest: 4,
		},
		{
			name: "inactive days are skipped",
			// Monday, Wednesday and Friday only. Today is Wednesday.
			activeDays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			// Monday (2 days ago), Friday (5 days ago), Wednesday (7 days ago)
			logs:        logsAt("h1", 2, 5, 7),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:       "today inactive and yesterday inactive",
			activeDays: []time.Weekday{time.Monday},
			// Monday 2 days ago and Monday 9 days ago
			logs:        logsAt("h1", 2, 9),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "logs for other habits are ignored",
			activeDays:  models.AllDays,
			logs:        append(logsAt("h1", 1), logsAt("h2", 2, 3, 4, 5)...),
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "only other habits logged",
			activeDays:  models.AllDays,
			logs:        logsAt("h2", 0, 1, 2),
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "duplicate logs on the same day count once",
			activeDays:  models.AllDays,
			logs:        logsAt("h1", 1, 1, 1, 2),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "logs beyond lookback are not counted",
			activeDays:  models.AllDays,
			logs:        logsAt("h1", MaxLookbackDays, MaxLookbackDays+1),
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name:        "empty active mask yields nothing",
			activeDays:  nil,
			logs:        logsAt("h1", 0, 1, 2),
			wantCurrent: 0,
			wantLongest: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(today, "h1", tt.activeDays, tt.logs)
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
		})
	}
}

func TestCalculate_LongestIndependentOfCurrent(t *testing.T) {
	// Current run of 2 (yesterday, 2 days ago), older run of 5 (days 4..8)
	logs := logsAt("h1", 1, 2, 4, 5, 6, 7, 8)
	got := Calculate(today, "h1", models.AllDays, logs)

	if got.Current != 2 {
		t.Errorf("Current = %d, want 2", got.Current)
	}
	if got.Longest != 5 {
		t.Errorf("Longest = %d, want 5", got.Longest)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	logs := logsAt("h1", 1, 2, 5)
	first := Calculate(today, "h1", models.AllDays, logs)
	for i := 0; i < 5; i++ {
		if got := Calculate(today, "h1", models.AllDays, logs); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}
