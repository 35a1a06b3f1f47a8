package asset

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/cmdhelper"
	"github.com/wuxler/ruasset/pkg/commands/internal/options"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/util/xio"
)

// NewCatCommand returns a cat command with default values.
func NewCatCommand() *CatCommand {
	return &CatCommand{storeOptions: newStoreOptions()}
}

// CatCommand prints the content of an asset, deriving missing variants.
type CatCommand struct {
	storeOptions
}

// ToCLI transforms to a *cli.Command.
func (c *CatCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "cat",
		Usage: "Print the raw content of an asset or variant",
		UsageText: `ruasset asset cat [OPTIONS] ID

# Save a stored image
$ ruasset asset cat pets/<hash>/dog.jpg > dog.jpg

# Derive and save a variant
$ ruasset asset cat pets/<hash>/dog__Fit-bcoj0c1c64o30n8.jpg > thumb.jpg
`,
		ArgsUsage: "ID",
		Flags:     c.flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action:    c.Run,
	}
}

// Run is the main function for the current command.
func (c *CatCommand) Run(ctx context.Context, cmd *cli.Command) error {
	key, err := asset.ParseKey(cmd.Args().First())
	if err != nil {
		return err
	}
	conf, err := c.load(ctx)
	if err != nil {
		return err
	}
	s, engine, err := options.OpenEngine(conf)
	if err != nil {
		return err
	}
	if key.IsVariant() {
		derived, ok := engine.Derived(ctx, asset.KeyContainer(key.Original()), key.Variant)
		if !ok {
			return errdefs.Newf(errdefs.ErrNotFound, "variant %s cannot be derived", key)
		}
		key = derived.AssetKey()
	}

	rc, err := s.Read(ctx, key)
	if err != nil {
		return err
	}
	defer xio.CloseAndSkipError(rc)
	_, err = io.Copy(cmd.Writer, rc)
	return err
}

// NewStatCommand returns a stat command with default values.
func NewStatCommand() *StatCommand {
	return &StatCommand{
		storeOptions: newStoreOptions(),
		Format:       cmdhelper.FormatText,
	}
}

// StatCommand prints the metadata of a stored asset.
type StatCommand struct {
	storeOptions
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ToCLI transforms to a *cli.Command.
func (c *StatCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "Show the metadata of an asset",
		ArgsUsage: "ID",
		Flags:     c.Flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action:    c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *StatCommand) Flags() []cli.Flag {
	return append(c.flags(), &cli.StringFlag{
		Name:        "format",
		Aliases:     []string{"f"},
		Usage:       `output format, oneof ["text", "json", "yaml"]`,
		Value:       c.Format,
		Destination: &c.Format,
	})
}

// Run is the main function for the current command.
func (c *StatCommand) Run(ctx context.Context, cmd *cli.Command) error {
	key, err := asset.ParseKey(cmd.Args().First())
	if err != nil {
		return err
	}
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	info, err := s.Stat(ctx, key)
	if err != nil {
		return err
	}
	if c.Format == "" || c.Format == cmdhelper.FormatText {
		cmdhelper.Fprintf(cmd.Writer, `ID         : %s
Size       : %d
Modified   : %s
Visibility : %s`, info.Key, info.Size, info.ModTime.UTC().Format("2006-01-02T15:04:05Z"), info.Visibility)
		return nil
	}
	return cmdhelper.Encode(cmd.Writer, c.Format, info)
}
