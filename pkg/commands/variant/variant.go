// Package variant defines the variant command.
package variant

import (
	"context"

	"github.com/spf13/cast"
	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/cmdhelper"
	"github.com/wuxler/ruasset/pkg/commands/internal/options"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/variant"
)

// New creates a new command.
func New() *Command {
	return &Command{}
}

// Command groups the variant operations.
type Command struct{}

// ToCLI transforms to a *cli.Command.
func (c *Command) ToCLI() *cli.Command {
	return &cli.Command{
		Name:            "variant",
		Aliases:         []string{"v"},
		Usage:           "Derived variant operations",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			NewMakeCommand().ToCLI(),
			NewIDCommand().ToCLI(),
		},
	}
}

// parseArgs converts command line arguments to operation arguments, numbers
// become integers so the variant id matches the one of programmatic calls.
func parseArgs(raw []string) []any {
	args := make([]any, 0, len(raw))
	for _, s := range raw {
		if n, err := cast.ToIntE(s); err == nil {
			args = append(args, n)
			continue
		}
		args = append(args, s)
	}
	return args
}

// NewMakeCommand returns a make command with default values.
func NewMakeCommand() *MakeCommand {
	return &MakeCommand{
		Common: options.NewCommonOptions(),
		Store:  options.NewStoreOptions(),
	}
}

// MakeCommand derives a variant of a stored asset.
type MakeCommand struct {
	Common  *options.CommonOptions
	Store   *options.StoreOptions
	Offline bool `json:"offline,omitempty" yaml:"offline,omitempty"`
}

// ToCLI transforms to a *cli.Command.
func (c *MakeCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "make",
		Usage: "Derive a variant and print its asset id",
		UsageText: `ruasset variant make [OPTIONS] ID OPERATION [ARGS...]

# Fit an image into a 320x240 box
$ ruasset variant make pets/<hash>/dog.jpg Fit 320 240

# Convert a variant to png, chained after the existing variant
$ ruasset variant make pets/<hash>/dog__Fit-bcoj0c1c64o30n8.jpg Convert png

# Only look up an existing variant
$ ruasset variant make --offline pets/<hash>/dog.jpg ScaleWidth 100
`,
		ArgsUsage: "ID OPERATION [ARGS...]",
		Flags:     c.Flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.MinimumNArgs(2)),
		Action:    c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *MakeCommand) Flags() []cli.Flag {
	flags := []cli.Flag{}
	flags = append(flags, c.Common.Flags()...)
	flags = append(flags, c.Store.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "offline",
		Usage:       "never generate, only return a variant already stored",
		Destination: &c.Offline,
	})
	return flags
}

// Run is the main function for the current command.
func (c *MakeCommand) Run(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	key, err := asset.ParseKey(args[0])
	if err != nil {
		return err
	}
	conf, err := c.Common.LoadConfig(ctx, c.Store.Apply)
	if err != nil {
		return err
	}
	_, engine, err := options.OpenEngine(conf)
	if err != nil {
		return err
	}

	var opts []variant.Option
	if c.Offline {
		opts = append(opts, variant.WithoutGeneration())
	}
	derived, ok := engine.Manipulate(ctx, asset.KeyContainer(key), args[1], parseArgs(args[2:]), opts...)
	if !ok {
		return errdefs.Newf(errdefs.ErrNotFound, "no %s variant of %s", args[1], key)
	}
	cmdhelper.Fprintf(cmd.Writer, "%s", derived.AssetKey())
	return nil
}

// NewIDCommand returns an id command.
func NewIDCommand() *IDCommand {
	return &IDCommand{}
}

// IDCommand prints the variant id of an operation without touching the store.
type IDCommand struct{}

// ToCLI transforms to a *cli.Command.
func (c *IDCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:      "id",
		Usage:     "Print the variant id of an operation",
		ArgsUsage: "OPERATION [ARGS...]",
		Before:    cmdhelper.BeforeFunc(cmdhelper.MinimumNArgs(1)),
		Action:    c.Run,
	}
}

// Run is the main function for the current command.
func (c *IDCommand) Run(_ context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	id, err := asset.EncodeVariant(args[0], parseArgs(args[1:])...)
	if err != nil {
		return err
	}
	cmdhelper.Fprintf(cmd.Writer, "%s", id)
	return nil
}
