package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
)

// ErrNotFound is returned when a habit, log or nudge does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeInactive bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	DeactivateHabit(id string) error
	// DeleteHabit removes the habit together with its logs and nudge history.
	DeleteHabit(id string) error

	// Habit logs. Days are YYYY-MM-DD and ranges are inclusive.
	AddHabitLog(models.HabitLog) error
	GetHabitLogs(habitID, startDay, endDay string) ([]models.HabitLog, error)
	GetLogsSince(startDay string) ([]models.HabitLog, error)

	// Nudge history
	AddNudge(models.NudgeHistoryEntry) error
	MarkNudgeActedUpon(id string) error
	// GetNudgesSince returns entries sent at or after since, most recent first.
	GetNudgesSince(since time.Time) ([]models.NudgeHistoryEntry, error)
	CountNudgesSince(since time.Time) (int, error)

	// Utils
	GetConfigPath() string
}
