package system

import (
	"github.com/julianstephens/habitnudge/internal/cli"
)

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration." default:"1"`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	ctx.Println(cli.MutedStyle.Render("# config file: " + ctx.ConfigPath))
	ctx.Println(cli.MutedStyle.Render("# database:    " + ctx.Store.GetConfigPath() + " (" + string(ctx.DBSource) + ")"))
	return ctx.Config.Encode(ctx.Stdout())
}
