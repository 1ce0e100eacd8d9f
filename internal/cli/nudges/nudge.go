package nudges

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/habitnudge/internal/cli"
	"github.com/julianstephens/habitnudge/internal/notifier"
	"github.com/julianstephens/habitnudge/internal/runner"
	"github.com/julianstephens/habitnudge/internal/utils"
)

type NudgeCmd struct {
	Evaluate NudgeEvaluateCmd `cmd:"" help:"Show the nudges that would be sent right now."`
	Run      NudgeRunCmd      `cmd:"" help:"Evaluate and deliver nudges periodically."`
	Ack      NudgeAckCmd      `cmd:"" help:"Mark a nudge as acted upon."`
	History  NudgeHistoryCmd  `cmd:"" help:"Show recently sent nudges."`
}

func newRunner(ctx *cli.Context, dryRun bool) (*runner.Runner, *notifier.Scheduler, error) {
	engine, err := ctx.Engine()
	if err != nil {
		return nil, nil, err
	}
	clk, err := ctx.Now()
	if err != nil {
		return nil, nil, err
	}
	sched := notifier.NewScheduler(ctx.NotificationSender(dryRun), clk)
	r := runner.New(ctx.Store, engine, sched, clk, runner.Options{
		Interval:  ctx.Config.Interval(),
		UserID:    ctx.Config.UserID(),
		Profile:   ctx.Config.UserProfile(),
		Wellbeing: ctx.Config.WellbeingSignals(),
		DryRun:    dryRun,
	})
	return r, sched, nil
}

type NudgeEvaluateCmd struct{}

func (c *NudgeEvaluateCmd) Run(ctx *cli.Context) error {
	r, _, err := newRunner(ctx, true)
	if err != nil {
		return err
	}
	decisions, err := r.Evaluate()
	if err != nil {
		return err
	}

	if len(decisions) == 0 {
		ctx.Println("No nudges right now.")
		return nil
	}
	for _, d := range decisions {
		ctx.Printf("%s %.2f  %-20s %s\n", cli.Urgency(d.Urgency), d.Score, d.HabitName, cli.MutedStyle.Render(d.Template))
		ctx.Printf("         %s\n", d.Message)
	}
	return nil
}

type NudgeRunCmd struct {
	Once   bool `help:"Run a single evaluation cycle and exit."`
	DryRun bool `help:"Print nudges instead of delivering them and do not record history."`
}

func (c *NudgeRunCmd) Run(ctx *cli.Context) error {
	dryRun := c.DryRun || ctx.Config.DryRun()
	r, sched, err := newRunner(ctx, dryRun)
	if err != nil {
		return err
	}
	defer sched.CancelAll()

	if c.Once {
		res, err := r.Tick(context.Background())
		if err != nil {
			return err
		}
		ctx.Printf("Evaluated %d habits: %d nudges sent, %d failed\n", res.Evaluated, res.Scheduled, res.Failed)
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx.Println(cli.MutedStyle.Render("Running nudge loop, press Ctrl+C to stop."))
	return r.Run(runCtx)
}

type NudgeAckCmd struct {
	ID string `arg:"" help:"Nudge id."`
}

func (c *NudgeAckCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.MarkNudgeActedUpon(c.ID); err != nil {
		return err
	}
	ctx.Printf("Marked nudge %s as acted upon\n", c.ID)
	return nil
}

type NudgeHistoryCmd struct {
	Days int `help:"Number of days to show, including today." default:"1"`
}

func (c *NudgeHistoryCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", c.Days)
	}
	clk, err := ctx.Now()
	if err != nil {
		return err
	}
	now := clk.Now()

	entries, err := ctx.Store.GetNudgesSince(utils.StartOfDay(now).AddDate(0, 0, -(c.Days - 1)))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println("No nudges sent.")
		return nil
	}

	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Label()
	}

	for _, e := range entries {
		status := cli.MutedStyle.Render("ignored")
		if e.WasActedUpon {
			status = cli.SuccessStyle.Render("acted")
		}
		ctx.Printf("%s  %-20s %-24s %s  %s\n",
			e.SentAt.In(now.Location()).Format(time.DateTime), names[e.HabitID], e.TemplateUsed, status, cli.MutedStyle.Render(e.ID))
	}
	return nil
}
