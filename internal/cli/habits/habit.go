package habits

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitnudge/internal/cli"
	"github.com/julianstephens/habitnudge/internal/constants"
	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/storage"
	"github.com/julianstephens/habitnudge/internal/tracker"
	"github.com/julianstephens/habitnudge/internal/utils"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits."`
	Edit       HabitEditCmd       `cmd:"" help:"Edit an existing habit."`
	Log        HabitLogCmd        `cmd:"" help:"Log progress on a habit."`
	Today      HabitTodayCmd      `cmd:"" help:"Show today's habit progress."`
	Summary    HabitSummaryCmd    `cmd:"" help:"Show streaks and completion rates."`
	Deactivate HabitDeactivateCmd `cmd:"" help:"Stop tracking a habit without losing its history."`
	Delete     HabitDeleteCmd     `cmd:"" help:"Delete a habit with its logs and nudge history."`
}

type HabitAddCmd struct {
	Name     string  `arg:"" help:"Unique habit name."`
	Display  string  `help:"Display name used in nudges (default: name)."`
	Category string  `help:"Habit category." enum:"health,productivity,mindfulness,fitness,learning,social,custom" default:"custom"`
	Target   float64 `help:"Daily target count." default:"1"`
	Unit     string  `help:"Unit of the target, e.g. glasses."`
	Time     string  `help:"Preferred time of day." enum:"morning,afternoon,evening,anytime" default:"anytime"`
	Days     string  `help:"Comma-separated active weekdays (e.g. mon,wed,fri). Default: every day."`
	User     string  `help:"Owning user id (default: profile.user_id)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Store.GetHabitByName(c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	days := models.AllDays
	if c.Days != "" {
		var err error
		if days, err = utils.ParseWeekdays(c.Days); err != nil {
			return err
		}
	}

	display := c.Display
	if display == "" {
		display = c.Name
	}
	user := c.User
	if user == "" {
		user = ctx.Config.UserID()
	}

	habit := models.Habit{
		ID:            uuid.New().String(),
		UserID:        user,
		Name:          c.Name,
		DisplayName:   display,
		Category:      models.Category(c.Category),
		TargetCount:   c.Target,
		TargetUnit:    c.Unit,
		PreferredTime: models.PreferredTime(c.Time),
		DaysOfWeek:    days,
		CreatedAt:     time.Now(),
		Active:        true,
	}
	if err := habit.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	ctx.Printf("Added habit: %s\n", c.Name)
	return nil
}

type HabitListCmd struct {
	All bool `help:"Include deactivated habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(c.All)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if !h.Active {
			status = cli.MutedStyle.Render(" [INACTIVE]")
		}
		target := utils.FormatAmount(h.TargetCount, h.TargetUnit)
		ctx.Printf("%-20s %-12s %-10s %-14s %s%s\n",
			h.Name, h.Category, h.PreferredTime, utils.FormatWeekdays(h.DaysOfWeek), target, status)
	}
	return nil
}

type HabitEditCmd struct {
	Name     string   `arg:"" help:"Habit name or id."`
	Rename   *string  `help:"New unique name."`
	Display  *string  `help:"New display name."`
	Category *string  `help:"New category (health, productivity, mindfulness, fitness, learning, social, custom)."`
	Target   *float64 `help:"New daily target count."`
	Unit     *string  `help:"New target unit."`
	Time     *string  `help:"New preferred time of day (morning, afternoon, evening, anytime)."`
	Days     *string  `help:"New comma-separated active weekdays."`
	Activate bool     `help:"Reactivate a deactivated habit."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	update := models.HabitUpdate{
		Name:        c.Rename,
		DisplayName: c.Display,
		TargetCount: c.Target,
		TargetUnit:  c.Unit,
	}
	if c.Category != nil {
		cat := models.Category(*c.Category)
		update.Category = &cat
	}
	if c.Time != nil {
		pt := models.PreferredTime(*c.Time)
		update.PreferredTime = &pt
	}
	if c.Days != nil {
		if update.DaysOfWeek, err = utils.ParseWeekdays(*c.Days); err != nil {
			return err
		}
	}
	if c.Activate {
		active := true
		update.Active = &active
	}

	if c.Rename != nil && *c.Rename != habit.Name {
		if _, err := ctx.Store.GetHabitByName(*c.Rename); err == nil {
			return fmt.Errorf("habit with name %q already exists", *c.Rename)
		}
	}

	habit.Apply(update)
	if err := habit.Validate(); err != nil {
		return err
	}
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	ctx.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitLogCmd struct {
	Name  string  `arg:"" help:"Habit name or id."`
	Count float64 `help:"Amount to log." default:"1"`
	Date  string  `help:"Date in YYYY-MM-DD format (default: today)."`
	Note  string  `help:"Optional note for this entry."`
	Nudge string  `help:"Id of the nudge that prompted this entry; marks it as acted upon."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Count <= 0 {
		return fmt.Errorf("count must be positive, got %v", c.Count)
	}
	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}
	clk, err := ctx.Now()
	if err != nil {
		return err
	}

	day := c.Date
	if day == "" {
		day = clk.Today()
	} else {
		now := clk.Now()
		d, err := utils.ParseDateInLocation(day, now.Location())
		if err != nil {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
		}
		if d.After(now) {
			return fmt.Errorf("cannot log %s: date is in the future", day)
		}
		if utils.DaysBetween(d, now) > constants.LogLookbackDays {
			return fmt.Errorf("cannot log %s: older than %d days", day, constants.LogLookbackDays)
		}
	}

	entry := models.HabitLog{
		HabitID:     habit.ID,
		Date:        day,
		Count:       c.Count,
		CompletedAt: clk.Now(),
		NudgeID:     c.Nudge,
		Notes:       c.Note,
	}
	if err := ctx.Store.AddHabitLog(entry); err != nil {
		return err
	}
	if c.Nudge != "" {
		if err := ctx.Store.MarkNudgeActedUpon(c.Nudge); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				ctx.Println(cli.WarningStyle.Render(fmt.Sprintf("Nudge %s not found; logged without acknowledging it.", c.Nudge)))
			} else {
				return err
			}
		}
	}

	logs, err := ctx.Store.GetHabitLogs(habit.ID, day, day)
	if err != nil {
		return err
	}
	var total float64
	for _, l := range logs {
		total += l.Count
	}
	ctx.Printf("Logged %s for %q on %s (%s today)\n",
		utils.FormatAmount(c.Count, habit.TargetUnit), habit.Name, day,
		utils.FormatAmount(total, "")+"/"+utils.FormatAmount(habit.TargetCount, habit.TargetUnit))
	return nil
}

// loadToday joins every active habit scheduled today with its progress.
func loadToday(ctx *cli.Context) ([]models.Habit, []models.HabitLog, time.Time, error) {
	clk, err := ctx.Now()
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	now := clk.Now()

	habits, err := ctx.Store.GetAllHabits(false)
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	logs, err := ctx.Store.GetLogsSince(utils.FormatDate(now.AddDate(0, 0, -constants.LogLookbackDays)))
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	return habits, logs, now, nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	habits, logs, now, err := loadToday(ctx)
	if err != nil {
		return err
	}

	today := tracker.TodayHabits(habits, logs, now)
	if len(today) == 0 {
		ctx.Println("No habits scheduled today.")
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render("Habits for " + utils.FormatDate(now)))
	ctx.Println()
	done := 0
	for _, h := range today {
		mark := "[ ]"
		if h.CompletedToday {
			mark = cli.SuccessStyle.Render("[x]")
			done++
		}
		ctx.Printf("%s %-20s %s %3.0f%%  streak %d\n",
			mark, h.Label(), cli.ProgressBar(h.TodayProgress, 10), h.TodayProgress*100, h.CurrentStreak)
	}
	ctx.Printf("\nCompleted: %d/%d\n", done, len(today))
	return nil
}

type HabitSummaryCmd struct{}

func (c *HabitSummaryCmd) Run(ctx *cli.Context) error {
	habits, logs, now, err := loadToday(ctx)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	s := tracker.Summarize(habits, logs, now)
	ctx.Println(cli.HeaderStyle.Render("Summary"))
	ctx.Printf("Active habits:     %d\n", s.TotalActive)
	ctx.Printf("Completed today:   %d\n", s.CompletedToday)
	ctx.Printf("Average streak:    %.1f days\n", s.AverageStreak)
	ctx.Printf("Completion (7d):   %.0f%%\n", s.OverallCompletionRate*100)
	ctx.Println()

	for _, h := range habits {
		wp := tracker.WithProgress(h, logs, now)
		rate := tracker.WeeklyCompletionRate(h, logs, now)
		ctx.Printf("%-20s streak %3d (best %3d)  week %s %3.0f%%\n",
			h.Label(), wp.CurrentStreak, wp.LongestStreak, cli.ProgressBar(rate, 7), rate*100)
	}
	return nil
}

type HabitDeactivateCmd struct {
	Name string `arg:"" help:"Habit name or id."`
}

func (c *HabitDeactivateCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeactivateHabit(habit.ID); err != nil {
		return err
	}
	ctx.Printf("Deactivated habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name or id."`
	Yes  bool   `short:"y" help:"Skip the confirmation check."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}
	if !c.Yes {
		return fmt.Errorf("deleting %q removes all of its logs and nudge history; rerun with --yes to confirm", habit.Name)
	}
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
