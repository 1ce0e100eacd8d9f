// Package streak computes current and longest completion streaks for a habit.
package streak

import (
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/utils"
)

// MaxLookbackDays bounds how far back from today streaks are scanned.
const MaxLookbackDays = 365

// Result holds the streak lengths in active days.
type Result struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Calculate walks backward from today over the habit's active weekdays.
//
// Days outside activeDays are skipped and neither extend nor break a streak.
// An active day with at least one log for habitID extends the running streak.
// An unlogged active day ends the current streak, except today itself, which
// is treated as still in progress. Logs for other habits are ignored.
func Calculate(today time.Time, habitID string, activeDays []time.Weekday, logs []models.HabitLog) Result {
	completed := make(map[string]bool)
	for _, log := range logs {
		if log.HabitID == habitID {
			completed[log.Date] = true
		}
	}

	if len(completed) == 0 {
		return Result{}
	}

	var res Result
	streakActive := true
	temp := 0

	for i := 0; i < MaxLookbackDays; i++ {
		d := today.AddDate(0, 0, -i)
		if !utils.IsDayActive(activeDays, d.Weekday()) {
			continue
		}

		if completed[utils.FormatDate(d)] {
			temp++
			if streakActive {
				res.Current = temp
			}
			res.Longest = max(res.Longest, temp)
			continue
		}

		if streakActive {
			if i == 0 {
				// Today is not over yet
				continue
			}
			streakActive = false
		}
		temp = 0
	}

	return res
}
