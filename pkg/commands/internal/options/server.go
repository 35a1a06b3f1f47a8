package options

import (
	"github.com/urfave/cli/v3"

	"github.com/wuxler/ruasset/pkg/config"
)

// ServerFlagCategory is the category of the server flags.
const ServerFlagCategory = "[Server]"

// NewServerOptions returns a new *ServerOptions.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{}
}

// ServerOptions defines the options for the server. Zero values keep the
// configuration file values.
type ServerOptions struct {
	// Port is the port for the server to listen on.
	Port int64
	// Host is the host for the server to listen on.
	Host string
}

// Flags returns the []cli.Flag related to current options.
func (o *ServerOptions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "port",
			Aliases:     []string{"p"},
			Usage:       "port to listen on (default 8080)",
			Sources:     cli.EnvVars(EnvPrefix + "SERVER_PORT"),
			Destination: &o.Port,
			Category:    ServerFlagCategory,
		},
		&cli.StringFlag{
			Name:        "host",
			Usage:       "host to listen on (default 127.0.0.1)",
			Sources:     cli.EnvVars(EnvPrefix + "SERVER_HOST"),
			Destination: &o.Host,
			Category:    ServerFlagCategory,
		},
	}
}

// Apply overrides the configuration with the flags set.
func (o *ServerOptions) Apply(c *config.Config) {
	if o.Port != 0 {
		c.Server.Port = o.Port
	}
	if o.Host != "" {
		c.Server.Host = o.Host
	}
}
