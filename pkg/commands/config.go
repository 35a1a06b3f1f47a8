package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/cmdhelper"
	"github.com/wuxler/ruasset/pkg/commands/internal/options"
)

// NewConfigCommand returns a config command.
func NewConfigCommand() *ConfigCommand {
	return &ConfigCommand{
		Common: options.NewCommonOptions(),
		Store:  options.NewStoreOptions(),
		Server: options.NewServerOptions(),
		Format: cmdhelper.FormatYAML,
	}
}

// ConfigCommand prints the effective configuration.
type ConfigCommand struct {
	Common *options.CommonOptions
	Store  *options.StoreOptions
	Server *options.ServerOptions
	Format string
}

// ToCLI returns a *cli.Command.
func (c *ConfigCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show the effective configuration",
		UsageText: `ruasset config [OPTIONS]

# Print the defaults as a starting configuration file
$ ruasset config > ruasset.yaml

# Check a configuration file with the flag overrides applied
$ ruasset config --config ruasset.yaml --port 9000
`,
		Flags:  c.Flags(),
		Before: cmdhelper.BeforeFunc(cmdhelper.NoArgs()),
		Action: c.Run,
	}
}

// Flags returns a list of cli flags of the commands.
func (c *ConfigCommand) Flags() []cli.Flag {
	flags := []cli.Flag{}
	flags = append(flags, c.Common.Flags()...)
	flags = append(flags, c.Store.Flags()...)
	flags = append(flags, c.Server.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "format",
		Aliases:     []string{"f"},
		Usage:       `output format, oneof ["json", "yaml"]`,
		Value:       c.Format,
		Destination: &c.Format,
	})
	return flags
}

// Run implements *cli.Command Action function.
func (c *ConfigCommand) Run(ctx context.Context, cmd *cli.Command) error {
	conf, err := c.Common.LoadConfig(ctx, c.Store.Apply, c.Server.Apply)
	if err != nil {
		return err
	}
	if c.Format == cmdhelper.FormatText {
		c.Format = cmdhelper.FormatYAML
	}
	return cmdhelper.Encode(cmd.Writer, c.Format, conf)
}
