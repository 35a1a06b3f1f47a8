// Package asset defines the asset command and its operations as sub-commands.
package asset

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/commands/internal/options"
	"github.com/wuxler/ruasset/pkg/config"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/store"
)

// New creates a new command.
func New() *Command {
	return &Command{}
}

// Command groups the asset store operations.
type Command struct{}

// ToCLI transforms to a *cli.Command.
func (c *Command) ToCLI() *cli.Command {
	return &cli.Command{
		Name:            "asset",
		Aliases:         []string{"a"},
		Usage:           "Asset store operations",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			NewPutCommand().ToCLI(),
			NewCatCommand().ToCLI(),
			NewStatCommand().ToCLI(),
			newLifecycleCommand("publish", "Move an asset and its variants to the public partition", publish).ToCLI(),
			newLifecycleCommand("protect", "Move an asset and its variants to the protected partition", protect).ToCLI(),
			newLifecycleCommand("swap-publish", "Publish an asset and protect the other public versions of its file", swapPublish).ToCLI(),
			NewDeleteCommand().ToCLI(),
			newRelocateCommand("rename", "Rename an asset and its variants", false).ToCLI(),
			newRelocateCommand("copy", "Copy an asset and its variants", true).ToCLI(),
		},
	}
}

// storeOptions are embedded by every asset sub-command.
type storeOptions struct {
	Common *options.CommonOptions
	Store  *options.StoreOptions
}

func newStoreOptions() storeOptions {
	return storeOptions{
		Common: options.NewCommonOptions(),
		Store:  options.NewStoreOptions(),
	}
}

func (o storeOptions) flags() []cli.Flag {
	flags := []cli.Flag{}
	flags = append(flags, o.Common.Flags()...)
	flags = append(flags, o.Store.Flags()...)
	return flags
}

func (o storeOptions) load(ctx context.Context) (*config.Config, error) {
	return o.Common.LoadConfig(ctx, o.Store.Apply)
}

func (o storeOptions) open(ctx context.Context) (*store.FSStore, error) {
	c, err := o.load(ctx)
	if err != nil {
		return nil, err
	}
	return options.OpenStore(c)
}

// parseOriginal parses an asset ID which must not point at a variant.
func parseOriginal(id string) (asset.Key, error) {
	key, err := asset.ParseKey(id)
	if err != nil {
		return asset.Key{}, err
	}
	if key.IsVariant() {
		return asset.Key{}, errdefs.Newf(errdefs.ErrInvalidParameter, "%q is a variant, use the id of the original", id)
	}
	return key, nil
}
