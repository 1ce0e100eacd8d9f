package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitnudge/internal/clock"
	"github.com/julianstephens/habitnudge/internal/config"
	"github.com/julianstephens/habitnudge/internal/keyring"
	"github.com/julianstephens/habitnudge/internal/notifier"
	"github.com/julianstephens/habitnudge/internal/nudge"
	"github.com/julianstephens/habitnudge/internal/storage"
)

// Context is shared by every command.
type Context struct {
	Store      storage.Provider
	Config     config.FileConfig
	ConfigPath string
	// DBSource records where the connection string was resolved from.
	DBSource keyring.Source

	// Clock overrides the wall clock in the configured timezone.
	Clock clock.Clock
	// Sender overrides the configured notification sender.
	Sender notifier.Sender
	Out    io.Writer
}

func (c *Context) Stdout() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Stdout(), args...)
}

// Now returns the clock commands should use.
func (c *Context) Now() (clock.Clock, error) {
	if c.Clock != nil {
		return c.Clock, nil
	}
	clk, err := clock.SystemIn(c.Config.Timezone())
	if err != nil {
		return nil, err
	}
	c.Clock = clk
	return clk, nil
}

// Engine builds a nudge engine from the configuration.
func (c *Context) Engine() (*nudge.Engine, error) {
	clk, err := c.Now()
	if err != nil {
		return nil, err
	}

	var pools nudge.Pools
	if path := c.Config.Nudge.Templates; path != nil {
		pools, err = nudge.LoadPools(*path)
	} else {
		pools, err = nudge.DefaultPools()
	}
	if err != nil {
		return nil, err
	}

	var seed uint64
	if c.Config.Nudge.Seed != nil {
		seed = *c.Config.Nudge.Seed
	}
	sel, err := nudge.NewSelector(pools, nudge.NewRand(seed))
	if err != nil {
		return nil, err
	}
	return nudge.New(c.Config.NudgePolicy(), clk, sel)
}

// NotificationSender picks where nudges go. Dry runs always print.
func (c *Context) NotificationSender(dryRun bool) notifier.Sender {
	if c.Sender != nil {
		return c.Sender
	}
	if dryRun || c.Config.Sender() == config.SenderStdout {
		return notifier.NewWriterSender(c.Stdout())
	}
	return notifier.NewTraySender()
}
