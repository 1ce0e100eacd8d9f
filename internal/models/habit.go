package models

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryHealth       Category = "health"
	CategoryProductivity Category = "productivity"
	CategoryMindfulness  Category = "mindfulness"
	CategoryFitness      Category = "fitness"
	CategoryLearning     Category = "learning"
	CategorySocial       Category = "social"
	CategoryCustom       Category = "custom"
)

// Categories lists every habit category in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryProductivity,
	CategoryMindfulness,
	CategoryFitness,
	CategoryLearning,
	CategorySocial,
	CategoryCustom,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type PreferredTime string

const (
	PreferredMorning   PreferredTime = "morning"
	PreferredAfternoon PreferredTime = "afternoon"
	PreferredEvening   PreferredTime = "evening"
	PreferredAnytime   PreferredTime = "anytime"
)

func (p PreferredTime) Valid() bool {
	switch p {
	case PreferredMorning, PreferredAfternoon, PreferredEvening, PreferredAnytime:
		return true
	}
	return false
}

// AllDays is the default weekday mask for a new habit.
var AllDays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// Habit represents a recurring behavior to track
type Habit struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Name          string         `json:"name"`
	DisplayName   string         `json:"display_name"`
	Category      Category       `json:"category"`
	TargetCount   float64        `json:"target_count"`
	TargetUnit    string         `json:"target_unit"`
	PreferredTime PreferredTime  `json:"preferred_time"`
	DaysOfWeek    []time.Weekday `json:"days_of_week"`
	CreatedAt     time.Time      `json:"created_at"`
	Active        bool           `json:"active"`
}

func (h *Habit) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("habit id cannot be empty")
	}
	if h.Name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if h.DisplayName == "" {
		return fmt.Errorf("habit display name cannot be empty")
	}
	if !h.Category.Valid() {
		return fmt.Errorf("invalid category %q", h.Category)
	}
	if !h.PreferredTime.Valid() {
		return fmt.Errorf("invalid preferred time %q", h.PreferredTime)
	}
	if h.TargetCount <= 0 {
		return fmt.Errorf("target count must be positive, got %v", h.TargetCount)
	}
	for _, wd := range h.DaysOfWeek {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("invalid weekday %d", wd)
		}
	}
	return nil
}

// Label is the display name, falling back to the unique name.
func (h *Habit) Label() string {
	if h.DisplayName != "" {
		return h.DisplayName
	}
	return h.Name
}

// IsActiveOn reports whether the habit is scheduled on the given weekday.
func (h *Habit) IsActiveOn(wd time.Weekday) bool {
	for _, d := range h.DaysOfWeek {
		if d == wd {
			return true
		}
	}
	return false
}

// HabitUpdate holds a partial update. Nil fields are left unchanged.
type HabitUpdate struct {
	Name          *string
	DisplayName   *string
	Category      *Category
	TargetCount   *float64
	TargetUnit    *string
	PreferredTime *PreferredTime
	DaysOfWeek    []time.Weekday
	Active        *bool
}

// Apply merges the non-nil fields of u into h.
func (h *Habit) Apply(u HabitUpdate) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.DisplayName != nil {
		h.DisplayName = *u.DisplayName
	}
	if u.Category != nil {
		h.Category = *u.Category
	}
	if u.TargetCount != nil {
		h.TargetCount = *u.TargetCount
	}
	if u.TargetUnit != nil {
		h.TargetUnit = *u.TargetUnit
	}
	if u.PreferredTime != nil {
		h.PreferredTime = *u.PreferredTime
	}
	if u.DaysOfWeek != nil {
		h.DaysOfWeek = append([]time.Weekday(nil), u.DaysOfWeek...)
	}
	if u.Active != nil {
		h.Active = *u.Active
	}
}

// HabitLog represents one completion record for a habit
type HabitLog struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	Date        string    `json:"date"` // YYYY-MM-DD format
	Count       float64   `json:"count"`
	CompletedAt time.Time `json:"completed_at"`
	NudgeID     string    `json:"nudge_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// HabitWithProgress is a habit joined with today's progress and streaks.
// It is derived on every read and never stored.
type HabitWithProgress struct {
	Habit
	TodayCount     float64 `json:"today_count"`
	TodayProgress  float64 `json:"today_progress"` // 0..1
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	CompletedToday bool    `json:"completed_today"`
}
