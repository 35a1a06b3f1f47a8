package asset

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/cmdhelper"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/store"
	"github.com/wuxler/ruasset/pkg/util/xio"
)

// NewPutCommand returns a put command with default values.
func NewPutCommand() *PutCommand {
	return &PutCommand{
		storeOptions: newStoreOptions(),
		Conflict:     store.ConflictDefault.String(),
	}
}

// PutCommand writes a local file into the store.
type PutCommand struct {
	storeOptions
	Visibility string `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Conflict   string `json:"conflict,omitempty" yaml:"conflict,omitempty"`
}

// ToCLI transforms to a *cli.Command.
func (c *PutCommand) ToCLI() *cli.Command {
	return &cli.Command{
		Name:  "put",
		Usage: "Write a file into the store and print its asset id",
		UsageText: `ruasset asset put [OPTIONS] FILE [FILENAME]

# Store a protected image under its base name
$ ruasset asset put ./dog.jpg

# Store a public image under a directory, read from stdin
$ cat dog.jpg | ruasset asset put --visibility public - pets/dog.jpg

# Keep both versions when the filename already holds other content
$ ruasset asset put --conflict rename ./dog.jpg pets/dog.jpg
`,
		ArgsUsage: "FILE [FILENAME]",
		Flags:     c.Flags(),
		Before:    cmdhelper.BeforeFunc(cmdhelper.RangeArgs(1, 2)),
		Action:    c.Run,
	}
}

// Flags defines the flags related to the current command.
func (c *PutCommand) Flags() []cli.Flag {
	flags := c.flags()
	flags = append(flags,
		&cli.StringFlag{
			Name:        "visibility",
			Usage:       `partition of new originals, oneof ["protected", "public"], defaults to the store configuration`,
			Destination: &c.Visibility,
		},
		&cli.StringFlag{
			Name:        "conflict",
			Usage:       `conflict policy, oneof ["default", "overwrite", "rename", "use-existing", "exception"]`,
			Value:       c.Conflict,
			Destination: &c.Conflict,
		},
	)
	return flags
}

// Run is the main function for the current command.
func (c *PutCommand) Run(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().First()
	filename := cmd.Args().Get(1)
	if filename == "" {
		if source == "-" {
			return errdefs.Newf(errdefs.ErrInvalidParameter, "FILENAME is required when reading from stdin")
		}
		filename = filepath.Base(source)
	}
	filename = asset.SanitizeFilename(filename)

	opts, err := c.writeOptions()
	if err != nil {
		return err
	}

	s, err := c.open(ctx)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return err
		}
		defer xio.CloseAndSkipError(f)
		r = f
	}

	key, err := s.Write(ctx, r, filename, opts...)
	if err != nil {
		return err
	}
	cmdhelper.Fprintf(cmd.Writer, "%s", key)
	return nil
}

func (c *PutCommand) writeOptions() ([]store.WriteOption, error) {
	policy, err := store.ParseConflictPolicy(c.Conflict)
	if err != nil {
		return nil, err
	}
	opts := []store.WriteOption{store.WithConflict(policy)}
	if c.Visibility != "" {
		v, err := asset.ParseVisibility(c.Visibility)
		if err != nil {
			return nil, err
		}
		if v == asset.Absent {
			return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "visibility must be protected or public")
		}
		opts = append(opts, store.WithVisibility(v))
	}
	return opts, nil
}
