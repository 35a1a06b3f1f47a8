package asset

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/cmdhelper"
)

// relocateCommand renames or copies an asset with its variants.
type relocateCommand struct {
	storeOptions
	name  string
	usage string
	keep  bool
}

func newRelocateCommand(name, usage string, keep bool) *relocateCommand {
	return &relocateCommand{
		storeOptions: newStoreOptions(),
		name:         name,
		usage:        usage,
		keep:         keep,
	}
}

// ToCLI transforms to a *cli.Command.
func (c *relocateCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  c.name,
		Usage: c.usage,
		UsageText: fmt.Sprintf(`ruasset asset %[1]s [OPTIONS] ID FILENAME

# The id of the new asset is printed
$ ruasset asset %[1]s pets/<hash>/dog.jpg pets/puppy.jpg
`, c.name),
		ArgsUsage: "ID FILENAME",
		Flags:     c.flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.ExactArgs(2)),
		Action:    c.Run,
	}
}

// Run is the main function for the current command.
func (c *relocateCommand) Run(ctx context.Context, cmd *cli.Command) error {
	key, err := parseOriginal(cmd.Args().First())
	if err != nil {
		return err
	}
	target := asset.SanitizeFilename(cmd.Args().Get(1))
	s, err := c.open(ctx)
	if err != nil {
		return err
	}

	relocate := s.Rename
	if c.keep {
		relocate = s.Copy
	}
	filename, err := relocate(ctx, key.Filename, key.Hash, target)
	if err != nil {
		return err
	}
	cmdhelper.Fprintf(cmd.Writer, "%s", asset.NewKey(filename, key.Hash, ""))
	return nil
}
