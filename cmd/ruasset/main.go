// Package main is the entry of the application.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/appinfo"
	"github.com/wuxler/ruasset/pkg/cmdhelper"
	"github.com/wuxler/ruasset/pkg/commands"
	"github.com/wuxler/ruasset/pkg/commands/asset"
	"github.com/wuxler/ruasset/pkg/commands/serve"
	"github.com/wuxler/ruasset/pkg/commands/variant"
)

func main() {
	app := cli.Command{
		Name:                  appinfo.Name,
		Usage:                 "ruasset stores versioned assets and derives their variants",
		Suggest:               true,
		EnableShellCompletion: true,
		HideVersion:           true,
		HideHelpCommand:       true,
		Commands: []*cli.Command{
			commands.NewVersionCommand().ToCLI(),
			commands.NewConfigCommand().ToCLI(),
			serve.New().ToCLI(),
			asset.New().ToCLI(),
			variant.New().ToCLI(),
		},
		ExitErrHandler: func(ctx context.Context, c *cli.Command, err error) {
			cli.HandleExitCoder(err)
			cmdhelper.Fprintf(c.ErrWriter, "Error: %+v\n", err)
			os.Exit(1)
		},
	}
	//nolint:errcheck // already checked in root command ExitErrHandler
	_ = app.Run(context.Background(), os.Args)
}
