package options

import (
	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/backend"
	"github.com/wuxler/ruasset/pkg/config"
	"github.com/wuxler/ruasset/pkg/store"
	"github.com/wuxler/ruasset/pkg/variant"
)

// StoreFlagCategory is the category of the store flags.
const StoreFlagCategory = "[Store]"

// NewStoreOptions returns a new *StoreOptions.
func NewStoreOptions() *StoreOptions {
	return &StoreOptions{}
}

// StoreOptions select the asset store. Zero values keep the configuration
// file values.
type StoreOptions struct {
	Root   string
	Legacy bool
}

// Flags returns the []cli.Flag related to current options.
func (o *StoreOptions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "root",
			Aliases:     []string{"r"},
			Usage:       "directory of the asset store",
			Sources:     cli.EnvVars(EnvPrefix + "STORE_ROOT"),
			Destination: &o.Root,
			Category:    StoreFlagCategory,
		},
		&cli.BoolFlag{
			Name:        "legacy-filenames",
			Usage:       "store files without hash directories",
			Sources:     cli.EnvVars(EnvPrefix + "STORE_LEGACY_FILENAMES"),
			Destination: &o.Legacy,
			Category:    StoreFlagCategory,
		},
	}
}

// Apply overrides the configuration with the flags set.
func (o *StoreOptions) Apply(c *config.Config) {
	if o.Root != "" {
		c.Store.Root = o.Root
	}
	if o.Legacy {
		c.Store.LegacyFilenames = true
	}
}

// OpenStore opens the store configured by c.
func OpenStore(c *config.Config) (*store.FSStore, error) {
	return store.NewOSStore(c.Store.Root, c.Store.Config)
}

// OpenEngine opens the store and a variant engine on top of it.
func OpenEngine(c *config.Config) (*store.FSStore, *variant.Engine, error) {
	s, err := OpenStore(c)
	if err != nil {
		return nil, nil, err
	}
	b := backend.NewImageBackend(c.Backend)
	return s, variant.NewEngine(s, b, c.Variant), nil
}
