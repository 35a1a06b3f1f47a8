// Package options defines the flags shared by ruasset commands.
package options

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/config"
	"github.com/wuxler/ruasset/pkg/xlog"
)

// EnvPrefix prefixes the environment variables read by the commands.
const EnvPrefix = "RUASSET_"

// NewCommonOptions returns a *CommonOptions with default values.
func NewCommonOptions() *CommonOptions {
	return &CommonOptions{}
}

// CommonOptions are options that are common to all commands.
type CommonOptions struct {
	Debug      bool   `json:"debug,omitempty" yaml:"debug,omitempty"`
	ConfigFile string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	LogLevel   string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Flags returns the []cli.Flag related to current options.
func (o *CommonOptions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "debug",
			Aliases:     []string{"d"},
			Sources:     cli.EnvVars(EnvPrefix + "DEBUG"),
			Usage:       "enable debug logging",
			Destination: &o.Debug,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Sources:     cli.EnvVars(EnvPrefix + "CONFIG"),
			Usage:       "path of the yaml configuration file",
			Destination: &o.ConfigFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Sources:     cli.EnvVars(EnvPrefix + "LOG_LEVEL"),
			Usage:       `log level, oneof ["debug", "info", "warn", "error"]`,
			Destination: &o.LogLevel,
		},
	}
}

// LoadConfig loads the configuration file, applies the flag overrides and
// installs the configured default logger.
func (o *CommonOptions) LoadConfig(ctx context.Context, overrides ...func(*config.Config)) (*config.Config, error) {
	c, err := config.Load(o.ConfigFile)
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.Debug {
		c.Log.Level = "debug"
	}
	for _, override := range overrides {
		override(c)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	lc, err := c.Log.XLog()
	if err != nil {
		return nil, err
	}
	lc.StdWriter = os.Stderr
	xlog.SetDefault(xlog.New(lc))
	xlog.C(ctx).Debug("configuration loaded", "file", o.ConfigFile, "store", c.Store.Root)
	return c, nil
}
