package habits

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitnudge/internal/cli"
	"github.com/julianstephens/habitnudge/internal/clock"
	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/storage"
	"github.com/julianstephens/habitnudge/internal/storage/sqlite"
)

// Wednesday
var now = time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitnudge.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	return &cli.Context{Store: store, Clock: clock.Fixed(now), Out: &out}, &out
}

func add(t *testing.T, ctx *cli.Context, cmd HabitAddCmd) {
	t.Helper()
	if cmd.Category == "" {
		cmd.Category = "custom"
	}
	if cmd.Time == "" {
		cmd.Time = "anytime"
	}
	if cmd.Target == 0 {
		cmd.Target = 1
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add %s: %v", cmd.Name, err)
	}
}

func TestHabitAdd(t *testing.T) {
	ctx, out := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "water", Display: "Drink water", Category: "health", Target: 8, Unit: "glasses", Days: "mon,wed"})

	h, err := ctx.Store.GetHabitByName("water")
	if err != nil {
		t.Fatal(err)
	}
	if h.DisplayName != "Drink water" || h.Category != models.CategoryHealth || h.TargetCount != 8 || h.TargetUnit != "glasses" {
		t.Errorf("stored habit = %+v", h)
	}
	if len(h.DaysOfWeek) != 2 || !h.Active {
		t.Errorf("days/active = %v/%v", h.DaysOfWeek, h.Active)
	}
	if !strings.Contains(out.String(), "Added habit: water") {
		t.Errorf("output = %q", out.String())
	}

	if err := (&HabitAddCmd{Name: "water", Category: "health", Target: 1, Time: "anytime"}).Run(ctx); err == nil {
		t.Error("duplicate add succeeded")
	}
	if err := (&HabitAddCmd{Name: "bad", Category: "health", Target: 0, Time: "anytime"}).Run(ctx); err == nil {
		t.Error("zero target accepted")
	}
	if err := (&HabitAddCmd{Name: "bad", Category: "health", Target: 1, Time: "anytime", Days: "funday"}).Run(ctx); err == nil {
		t.Error("invalid weekday accepted")
	}
}

func TestHabitAddDefaultsDisplayName(t *testing.T) {
	ctx, _ := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "read"})
	h, _ := ctx.Store.GetHabitByName("read")
	if h.DisplayName != "read" || len(h.DaysOfWeek) != 7 {
		t.Errorf("habit = %+v", h)
	}
}

func TestHabitListAndDeactivate(t *testing.T) {
	ctx, out := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "water"})
	add(t, ctx, HabitAddCmd{Name: "read"})

	if err := (&HabitDeactivateCmd{Name: "read"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "read") {
		t.Errorf("deactivated habit listed: %q", out.String())
	}

	out.Reset()
	if err := (&HabitListCmd{All: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "read") || !strings.Contains(out.String(), "INACTIVE") {
		t.Errorf("--all output = %q", out.String())
	}
}

func TestHabitEdit(t *testing.T) {
	ctx, _ := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "water"})
	add(t, ctx, HabitAddCmd{Name: "read"})

	rename, cat, target, days := "hydrate", "health", 2.0, "0,6"
	cmd := HabitEditCmd{Name: "water", Rename: &rename, Category: &cat, Target: &target, Days: &days}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("edit: %v", err)
	}
	h, err := ctx.Store.GetHabitByName("hydrate")
	if err != nil {
		t.Fatal(err)
	}
	if h.Category != models.CategoryHealth || h.TargetCount != 2 || len(h.DaysOfWeek) != 2 {
		t.Errorf("edited habit = %+v", h)
	}
	if h.DisplayName != "water" {
		t.Errorf("untouched display name changed to %q", h.DisplayName)
	}

	taken := "read"
	if err := (&HabitEditCmd{Name: "hydrate", Rename: &taken}).Run(ctx); err == nil {
		t.Error("rename onto existing habit succeeded")
	}
	bad := "snacking"
	if err := (&HabitEditCmd{Name: "hydrate", Category: &bad}).Run(ctx); err == nil {
		t.Error("invalid category accepted")
	}
	if err := (&HabitEditCmd{Name: "ghost"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("edit ghost error = %v", err)
	}
}

func TestHabitLogAndToday(t *testing.T) {
	ctx, out := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "water", Target: 2, Unit: "glasses"})
	add(t, ctx, HabitAddCmd{Name: "read"})

	if err := (&HabitLogCmd{Name: "water", Count: 1}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1/2 glasses today") {
		t.Errorf("log output = %q", out.String())
	}
	if err := (&HabitLogCmd{Name: "read", Count: 1}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&HabitTodayCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "2026-03-11") || !strings.Contains(got, "Completed: 1/2") {
		t.Errorf("today output = %q", got)
	}
	if !strings.Contains(got, " 50%") {
		t.Errorf("today output missing water progress: %q", got)
	}

	if err := (&HabitLogCmd{Name: "water", Count: -1}).Run(ctx); err == nil {
		t.Error("negative count accepted")
	}
	if err := (&HabitLogCmd{Name: "water", Count: 1, Date: "11/03/2026"}).Run(ctx); err == nil {
		t.Error("bad date accepted")
	}
	if err := (&HabitLogCmd{Name: "water", Count: 1, Date: "2026-03-12"}).Run(ctx); err == nil {
		t.Error("future date accepted")
	}
	if err := (&HabitLogCmd{Name: "water", Count: 1, Date: "2024-01-01"}).Run(ctx); err == nil {
		t.Error("date beyond lookback accepted")
	}
}

func TestHabitLogAcknowledgesNudge(t *testing.T) {
	ctx, out := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "water"})
	h, _ := ctx.Store.GetHabitByName("water")
	if err := ctx.Store.AddNudge(models.NudgeHistoryEntry{ID: "n1", HabitID: h.ID, SentAt: now.Add(-time.Hour)}); err != nil {
		t.Fatal(err)
	}

	if err := (&HabitLogCmd{Name: "water", Count: 1, Nudge: "n1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	entries, _ := ctx.Store.GetNudgesSince(now.Add(-2 * time.Hour))
	if len(entries) != 1 || !entries[0].WasActedUpon {
		t.Errorf("nudge not acknowledged: %+v", entries)
	}
	logs, _ := ctx.Store.GetHabitLogs(h.ID, "2026-03-11", "2026-03-11")
	if len(logs) != 1 || logs[0].NudgeID != "n1" {
		t.Errorf("logs = %+v", logs)
	}

	out.Reset()
	if err := (&HabitLogCmd{Name: "water", Count: 1, Nudge: "missing"}).Run(ctx); err != nil {
		t.Fatalf("log with unknown nudge: %v", err)
	}
	if !strings.Contains(out.String(), "not found") {
		t.Errorf("missing warning: %q", out.String())
	}
}

func TestHabitSummary(t *testing.T) {
	ctx, out := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "water"})
	for _, day := range []string{"2026-03-09", "2026-03-10", "2026-03-11"} {
		if err := (&HabitLogCmd{Name: "water", Count: 1, Date: day}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	out.Reset()
	if err := (&HabitSummaryCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Active habits:     1", "Completed today:   1", "Average streak:    3.0 days", "streak   3"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestHabitDelete(t *testing.T) {
	ctx, _ := newTestContext(t)
	add(t, ctx, HabitAddCmd{Name: "water"})

	if err := (&HabitDeleteCmd{Name: "water"}).Run(ctx); err == nil {
		t.Error("delete without --yes succeeded")
	}
	if err := (&HabitDeleteCmd{Name: "water", Yes: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Store.GetHabitByName("water"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("habit survived delete: %v", err)
	}
}
