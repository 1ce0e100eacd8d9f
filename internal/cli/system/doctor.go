package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitnudge/internal/cli"
	"github.com/julianstephens/habitnudge/internal/keyring"
	"github.com/julianstephens/habitnudge/internal/notifier"
)

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks never fail the run
	warnOnly bool
	needsDB  bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Habit integrity", needsDB: true, run: checkHabitsIntegrity},
	{name: "Configuration", run: checkConfig},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Keyring", warnOnly: true, run: checkKeyring},
	{name: "Tray application", warnOnly: true, run: checkTray},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Println(cli.SuccessStyle.Render("✓ " + c.name + ": OK"))
		case c.warnOnly:
			ctx.Println(cli.WarningStyle.Render("⚠ " + c.name + ": WARNING"))
			ctx.Printf("   %v\n", err)
		default:
			ctx.Println(cli.DangerStyle.Render("✗ " + c.name + ": FAIL"))
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	_, err := ctx.Store.GetAllHabits(true)
	return err
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}
	var errs []error
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("habit %s: %w", h.Name, err))
		}
		if len(h.DaysOfWeek) == 0 && h.Active {
			errs = append(errs, fmt.Errorf("habit %s is active on no weekday", h.Name))
		}
	}
	return errors.Join(errs...)
}

func checkConfig(ctx *cli.Context) error {
	if err := ctx.Config.Validate(); err != nil {
		return err
	}
	_, err := ctx.Engine()
	return err
}

func checkClockTimezone(ctx *cli.Context) error {
	clk, err := ctx.Now()
	if err != nil {
		return err
	}
	if clk.Now().Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", clk.Now().Format(time.RFC3339))
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkTray(ctx *cli.Context) error {
	return notifier.CheckTray()
}
