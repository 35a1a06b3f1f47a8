// Package config loads the ruasset configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/smallnest/deepcopy"
	"gopkg.in/yaml.v3"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/backend"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/store"
	"github.com/wuxler/ruasset/pkg/variant"
	"github.com/wuxler/ruasset/pkg/xlog"
)

const (
	// DefaultRoot is the default directory of the asset store.
	DefaultRoot = "./data"
	// DefaultSessionHeader is the request header carrying the viewer session.
	DefaultSessionHeader = "X-Ruasset-Session"
)

// Config is the configuration of all ruasset components.
type Config struct {
	Store   Store          `json:"store" yaml:"store"`
	Backend backend.Config `json:"backend" yaml:"backend"`
	Variant variant.Config `json:"variant" yaml:"variant"`
	Server  Server         `json:"server" yaml:"server"`
	Log     Log            `json:"log" yaml:"log"`
}

// Store configures the asset store.
type Store struct {
	// Root is the directory holding the public and protected partitions.
	Root         string `json:"root" yaml:"root"`
	store.Config `yaml:",inline"`
}

// Server configures the HTTP server.
type Server struct {
	Host string `json:"host" yaml:"host"`
	Port int64  `json:"port" yaml:"port"`
	// SessionHeader names the request header carrying the session used for
	// protected asset grants.
	SessionHeader string `json:"session_header" yaml:"session_header"`
}

// Address returns host:port.
func (s Server) Address() string {
	return net.JoinHostPort(s.Host, strconv.FormatInt(s.Port, 10))
}

// Log configures logging.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level" yaml:"level"`
	// Format of the console output, text or json.
	Format string `json:"format" yaml:"format"`
	// Path of an optional rotated json log file.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: Store{
			Root:   DefaultRoot,
			Config: store.Config{DefaultVisibility: asset.Protected},
		},
		Backend: backend.DefaultConfig(),
		Server: Server{
			Host:          "127.0.0.1",
			Port:          8080,
			SessionHeader: DefaultSessionHeader,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.Decode(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return c, nil
}

// Decode overlays the yaml document read from r onto c and validates the
// result.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return errdefs.NewE(errdefs.ErrInvalidParameter, err)
	}
	return c.Validate()
}

// Encode writes c as yaml.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	return deepcopy.Copy(c)
}

// Validate checks the values a component cannot recover from.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.Root == "" {
		errs = append(errs, errors.New("store.root is required"))
	}
	if q := c.Backend.JPEGQuality; q < 1 || q > 100 {
		errs = append(errs, fmt.Errorf("backend.jpeg_quality %d out of range [1, 100]", q))
	}
	if c.Backend.MaxDimension <= 0 {
		errs = append(errs, fmt.Errorf("backend.max_dimension must be positive, got %d", c.Backend.MaxDimension))
	}
	for _, ttl := range c.Backend.Memo.MissingSourceTTLs {
		if ttl <= 0 {
			errs = append(errs, fmt.Errorf("backend.memo.missing_source_ttls must be positive, got %s", ttl))
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return errdefs.NewE(errdefs.ErrInvalidParameter, errors.Join(errs...))
	}
	return nil
}

// XLog converts the log section to a logger configuration.
func (l Log) XLog() (xlog.Config, error) {
	c := xlog.NewConfig()
	level, err := xlog.ParseLevel(l.Level)
	if err != nil {
		return c, err
	}
	c.Level = level
	c.StdFormat = strings.ToLower(l.Format)
	c.Path = l.Path
	return c, nil
}
