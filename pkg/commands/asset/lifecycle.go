package asset

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/cmdhelper"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/store"
)

type lifecycleFunc func(ctx context.Context, s store.Store, filename, hash string) (string, error)

func publish(ctx context.Context, s store.Store, filename, hash string) (string, error) {
	return "Published", s.Publish(ctx, filename, hash)
}

func protect(ctx context.Context, s store.Store, filename, hash string) (string, error) {
	return "Protected", s.Protect(ctx, filename, hash)
}

func swapPublish(ctx context.Context, s store.Store, filename, hash string) (string, error) {
	return "Published", s.SwapPublish(ctx, filename, hash)
}

// lifecycleCommand moves an asset between the visibility partitions.
type lifecycleCommand struct {
	storeOptions
	name  string
	usage string
	apply lifecycleFunc
}

func newLifecycleCommand(name, usage string, apply lifecycleFunc) *lifecycleCommand {
	return &lifecycleCommand{
		storeOptions: newStoreOptions(),
		name:         name,
		usage:        usage,
		apply:        apply,
	}
}

// ToCLI transforms to a *cli.Command.
func (c *lifecycleCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:      c.name,
		Usage:     c.usage,
		ArgsUsage: "ID",
		Flags:     c.flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action:    c.Run,
	}
}

// Run is the main function for the current command.
func (c *lifecycleCommand) Run(ctx context.Context, cmd *cli.Command) error {
	key, err := parseOriginal(cmd.Args().First())
	if err != nil {
		return err
	}
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	done, err := c.apply(ctx, s, key.Filename, key.Hash)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return errdefs.Newf(errdefs.ErrNotFound, "%s: asset not found", key)
		}
		return err
	}
	cmdhelper.Fprintf(cmd.Writer, "%s %s", done, key)
	return nil
}

// NewDeleteCommand returns a delete command with default values.
func NewDeleteCommand() *DeleteCommand {
	return &DeleteCommand{storeOptions: newStoreOptions()}
}

// DeleteCommand removes an asset and all its variants.
type DeleteCommand struct {
	storeOptions
	Yes bool `json:"yes,omitempty" yaml:"yes,omitempty"`
}

// ToCLI transforms to a *cli.Command.
func (c *DeleteCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete an asset and all its variants",
		ArgsUsage: "ID",
		Flags:     c.Flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.ExactArgs(1)),
		Action:    c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *DeleteCommand) Flags() []cli.Flag {
	return append(c.flags(), &cli.BoolFlag{
		Name:        "yes",
		Aliases:     []string{"y"},
		Usage:       "delete without confirmation",
		Destination: &c.Yes,
	})
}

// Run is the main function for the current command.
func (c *DeleteCommand) Run(ctx context.Context, cmd *cli.Command) error {
	key, err := parseOriginal(cmd.Args().First())
	if err != nil {
		return err
	}
	s, err := c.open(ctx)
	if err != nil {
		return err
	}

	info, err := s.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			cmdhelper.Fprintf(cmd.Writer, "Skip, %s is not found", key)
			return nil
		}
		return err
	}
	cmdhelper.Fprintf(cmd.Writer, `Found %s
  - Size       : %d
  - Visibility : %s
`, key, info.Size, info.Visibility)

	if !c.Yes {
		confirmed, err := cmdhelper.Confirm("Are you sure to delete the asset and its variants")
		if err != nil || !confirmed {
			return err
		}
	}
	if err := s.Delete(ctx, key.Filename, key.Hash); err != nil {
		return err
	}
	cmdhelper.Fprintf(cmd.Writer, "Deleted %s", key)
	return nil
}
