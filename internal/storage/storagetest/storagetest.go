// Package storagetest holds behavioural tests every storage.Provider must pass.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/storage"
)

// Habit returns a valid daily habit with the given id and name.
func Habit(id, name string) models.Habit {
	return models.Habit{
		ID:            id,
		Name:          name,
		DisplayName:   name,
		Category:      models.CategoryHealth,
		TargetCount:   1,
		PreferredTime: models.PreferredAnytime,
		DaysOfWeek:    models.AllDays,
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Active:        true,
	}
}

// Run exercises store, which must be initialized and empty.
func Run(t *testing.T, store storage.Provider) {
	t.Run("Habits", func(t *testing.T) { testHabits(t, store) })
	t.Run("Logs", func(t *testing.T) { testLogs(t, store) })
	t.Run("Nudges", func(t *testing.T) { testNudges(t, store) })
	t.Run("DeleteCascades", func(t *testing.T) { testDeleteCascades(t, store) })
}

func testHabits(t *testing.T, store storage.Provider) {
	h := Habit("habit-1", "water")
	h.DaysOfWeek = []time.Weekday{time.Monday, time.Friday}
	h.TargetCount = 2.5
	h.TargetUnit = "litres"
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	got, err := store.GetHabit("habit-1")
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if got.Name != "water" || got.TargetCount != 2.5 || got.TargetUnit != "litres" || !got.Active {
		t.Errorf("GetHabit() = %+v", got)
	}
	if len(got.DaysOfWeek) != 2 || got.DaysOfWeek[0] != time.Monday || got.DaysOfWeek[1] != time.Friday {
		t.Errorf("DaysOfWeek = %v, want [Monday Friday]", got.DaysOfWeek)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, h.CreatedAt)
	}

	byName, err := store.GetHabitByName("water")
	if err != nil || byName.ID != "habit-1" {
		t.Errorf("GetHabitByName() = %+v, %v", byName, err)
	}

	if _, err := store.GetHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.AddHabit(Habit("habit-dup", "water")); err == nil {
		t.Error("AddHabit() with duplicate name succeeded")
	}

	invalid := Habit("habit-bad", "bad")
	invalid.Category = "nonsense"
	if err := store.AddHabit(invalid); err == nil {
		t.Error("AddHabit() with invalid category succeeded")
	}

	got.DisplayName = "Drink water"
	got.Category = models.CategoryFitness
	if err := store.UpdateHabit(got); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	got, _ = store.GetHabit("habit-1")
	if got.DisplayName != "Drink water" || got.Category != models.CategoryFitness {
		t.Errorf("after UpdateHabit() = %+v", got)
	}

	ghost := Habit("ghost", "ghost")
	if err := store.UpdateHabit(ghost); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateHabit(ghost) error = %v, want ErrNotFound", err)
	}

	second := Habit("habit-2", "stretch")
	second.CreatedAt = h.CreatedAt.Add(time.Hour)
	if err := store.AddHabit(second); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if err := store.DeactivateHabit("habit-2"); err != nil {
		t.Fatalf("DeactivateHabit() error = %v", err)
	}
	if err := store.DeactivateHabit("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeactivateHabit(missing) error = %v, want ErrNotFound", err)
	}

	active, err := store.GetAllHabits(false)
	if err != nil {
		t.Fatalf("GetAllHabits(false) error = %v", err)
	}
	if len(active) != 1 || active[0].ID != "habit-1" {
		t.Errorf("GetAllHabits(false) = %v", active)
	}
	all, err := store.GetAllHabits(true)
	if err != nil {
		t.Fatalf("GetAllHabits(true) error = %v", err)
	}
	if len(all) != 2 || all[0].ID != "habit-1" || all[1].ID != "habit-2" || all[1].Active {
		t.Errorf("GetAllHabits(true) = %v", all)
	}
}

func testLogs(t *testing.T, store storage.Provider) {
	h := Habit("habit-logs", "read")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	for _, l := range []models.HabitLog{
		{HabitID: h.ID, Date: "2026-03-09", Count: 2},
		{HabitID: h.ID, Date: "2026-03-10"},
		{HabitID: h.ID, Date: "2026-03-11", Count: 0.5, Notes: "half"},
	} {
		if err := store.AddHabitLog(l); err != nil {
			t.Fatalf("AddHabitLog() error = %v", err)
		}
	}
	if err := store.AddHabitLog(models.HabitLog{Date: "2026-03-11"}); err == nil {
		t.Error("AddHabitLog() without habit id succeeded")
	}

	logs, err := store.GetHabitLogs(h.ID, "2026-03-10", "2026-03-11")
	if err != nil {
		t.Fatalf("GetHabitLogs() error = %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("GetHabitLogs() returned %d logs, want 2", len(logs))
	}
	if logs[0].Date != "2026-03-10" || logs[0].Count != 1 {
		t.Errorf("default count not applied: %+v", logs[0])
	}
	if logs[1].Notes != "half" || logs[1].ID == "" || logs[1].CompletedAt.IsZero() {
		t.Errorf("log fields not round-tripped: %+v", logs[1])
	}

	since, err := store.GetLogsSince("2026-03-09")
	if err != nil {
		t.Fatalf("GetLogsSince() error = %v", err)
	}
	n := 0
	for _, l := range since {
		if l.HabitID == h.ID {
			n++
		}
	}
	if n != 3 {
		t.Errorf("GetLogsSince() returned %d logs for habit, want 3", n)
	}
}

func testNudges(t *testing.T, store storage.Provider) {
	h := Habit("habit-nudges", "meditate")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	base := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"n1", "n2", "n3"} {
		err := store.AddNudge(models.NudgeHistoryEntry{
			ID:           id,
			HabitID:      h.ID,
			TemplateUsed: "gentle_supportive_1",
			SentAt:       base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("AddNudge() error = %v", err)
		}
	}

	entries, err := store.GetNudgesSince(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("GetNudgesSince() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "n3" || entries[1].ID != "n2" {
		t.Errorf("GetNudgesSince() = %+v, want [n3 n2]", entries)
	}
	if !entries[0].SentAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("SentAt = %v", entries[0].SentAt)
	}

	count, err := store.CountNudgesSince(base)
	if err != nil || count != 3 {
		t.Errorf("CountNudgesSince() = %d, %v, want 3", count, err)
	}

	if err := store.MarkNudgeActedUpon("n2"); err != nil {
		t.Fatalf("MarkNudgeActedUpon() error = %v", err)
	}
	if err := store.MarkNudgeActedUpon("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("MarkNudgeActedUpon(missing) error = %v, want ErrNotFound", err)
	}
	entries, _ = store.GetNudgesSince(base)
	for _, e := range entries {
		if e.WasActedUpon != (e.ID == "n2") {
			t.Errorf("nudge %s WasActedUpon = %v", e.ID, e.WasActedUpon)
		}
	}
}

func testDeleteCascades(t *testing.T, store storage.Provider) {
	h := Habit("habit-gone", "journal")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if err := store.AddHabitLog(models.HabitLog{HabitID: h.ID, Date: "2026-03-11"}); err != nil {
		t.Fatalf("AddHabitLog() error = %v", err)
	}
	sent := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	if err := store.AddNudge(models.NudgeHistoryEntry{ID: "gone-nudge", HabitID: h.ID, SentAt: sent}); err != nil {
		t.Fatalf("AddNudge() error = %v", err)
	}

	if err := store.DeleteHabit(h.ID); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}
	if _, err := store.GetHabit(h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetHabit() after delete error = %v, want ErrNotFound", err)
	}
	logs, _ := store.GetHabitLogs(h.ID, "2026-01-01", "2026-12-31")
	if len(logs) != 0 {
		t.Errorf("logs survived delete: %+v", logs)
	}
	entries, _ := store.GetNudgesSince(sent)
	for _, e := range entries {
		if e.HabitID == h.ID {
			t.Errorf("nudge history survived delete: %+v", e)
		}
	}
	if err := store.DeleteHabit(h.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteHabit() error = %v, want ErrNotFound", err)
	}
}
