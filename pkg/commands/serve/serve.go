// Package serve defines the command serving the asset store over HTTP.
package serve

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/cmdhelper"
	"github.com/wuxler/ruasset/pkg/commands/internal/options"
	"github.com/wuxler/ruasset/pkg/server"
)

// New creates a new serve command.
func New() *Command {
	return &Command{
		Common: options.NewCommonOptions(),
		Store:  options.NewStoreOptions(),
		Server: options.NewServerOptions(),
	}
}

// Command is a command to start the server.
type Command struct {
	Common *options.CommonOptions
	Store  *options.StoreOptions
	Server *options.ServerOptions
}

// ToCLI transforms to a *cli.Command.
func (c *Command) ToCLI() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"server", "srv"},
		Usage:   "Serve the assets over HTTP",
		UsageText: `ruasset serve [OPTIONS]

# Serve ./data on the default port 8080
$ ruasset serve

# Serve another store on a custom port
$ ruasset serve --root /var/lib/ruasset --port 9000
`,
		Flags:  c.Flags(),
		Before: cmdhelper.BeforeFunc(cmdhelper.NoArgs()),
		Action: c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *Command) Flags() []cli.Flag {
	flags := []cli.Flag{}
	flags = append(flags, c.Common.Flags()...)
	flags = append(flags, c.Store.Flags()...)
	flags = append(flags, c.Server.Flags()...)
	return flags
}

// Run is the main function for the current command.
func (c *Command) Run(ctx context.Context, cmd *cli.Command) error {
	conf, err := c.Common.LoadConfig(ctx, c.Store.Apply, c.Server.Apply)
	if err != nil {
		return err
	}
	s, engine, err := options.OpenEngine(conf)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdhelper.Fprintf(cmd.Writer, "Serving %s at http://%s", conf.Store.Root, conf.Server.Address())
	cmdhelper.Fprintf(cmd.Writer, "Press Ctrl+C to stop the server")
	return server.New(s, engine, conf.Server).Run(ctx)
}
