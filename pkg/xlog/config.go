package xlog

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewConfig returns the default logging configuration.
func NewConfig() Config {
	return Config{
		Level:        slog.LevelInfo,
		AddSource:    true,
		AttrReplacer: NormalizeSourceAttrReplacer(),
		StdFormat:    "text",
		StdWriter:    os.Stderr,
		MaxSize:      30,
	}
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level logged, LevelInfo by default.
	Level slog.Level
	// AddSource logs the file and line of the caller.
	AddSource bool
	// AttrReplacer rewrites attributes before they are logged.
	AttrReplacer AttrReplacer

	// StdFormat is the format of StdWriter, "text" or "json".
	StdFormat string
	// StdWriter is the console output, os.Stderr by default so that command
	// output on stdout stays clean.
	StdWriter io.Writer

	// Path of the log file. Empty disables file output. The file is always
	// written as json.
	Path string
	// MaxSize in megabytes before the log file is rotated.
	MaxSize int
	// MaxAge in days of rotated files, zero keeps them forever.
	MaxAge int
	// MaxBackups is the number of rotated files kept, zero keeps them all.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
}

// BuildHandler creates the handler described by c: the console handler and,
// when Path is set, a json handler writing to the rotated file.
func (c *Config) BuildHandler() slog.Handler {
	opts := c.buildHandlerOptions()
	handlers := []slog.Handler{NewLeveledHandler(c.StdFormat, c.StdWriter, opts)}
	if fw := c.buildFileWriter(); fw != nil {
		handlers = append(handlers, NewLeveledHandler("json", fw, opts))
	}
	return MultiHandler(handlers...)
}

func (c *Config) buildFileWriter() io.Writer {
	if c.Path == "" {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    c.MaxSize,
		MaxAge:     c.MaxAge,
		MaxBackups: c.MaxBackups,
		Compress:   c.Compress,
	}
}

func (c *Config) buildHandlerOptions() slog.HandlerOptions {
	return slog.HandlerOptions{
		AddSource:   c.AddSource,
		Level:       c.Level,
		ReplaceAttr: c.AttrReplacer,
	}
}
