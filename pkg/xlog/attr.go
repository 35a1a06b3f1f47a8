package xlog

import (
	"log/slog"
	"path/filepath"
)

// AttrReplacer rewrites an attribute before it is logged, see
// slog.HandlerOptions.ReplaceAttr. Returning an empty Attr drops it.
type AttrReplacer func(groups []string, attr slog.Attr) Attr

// ChainReplacer applies replacers in order until one drops the attribute.
func ChainReplacer(replacers ...AttrReplacer) AttrReplacer {
	return func(groups []string, attr slog.Attr) Attr {
		for _, replace := range replacers {
			if replace == nil {
				continue
			}
			if attr = replace(groups, attr); attr.Equal(slog.Attr{}) {
				break
			}
		}
		return attr
	}
}

// NormalizeSourceAttrReplacer trims the directory of the source file.
func NormalizeSourceAttrReplacer() AttrReplacer {
	return func(_ []string, attr slog.Attr) Attr {
		if attr.Key != slog.SourceKey {
			return attr
		}
		if source, ok := attr.Value.Any().(*slog.Source); ok {
			source.File = filepath.Base(source.File)
		}
		return attr
	}
}

// SuppressTimeAttrReplacer drops the record time, for reproducible output.
func SuppressTimeAttrReplacer() AttrReplacer {
	return func(groups []string, attr slog.Attr) Attr {
		if len(groups) == 0 && attr.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return attr
	}
}
