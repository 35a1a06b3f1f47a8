package xlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

// LeveledHandler is a slog.Handler whose minimum level changes at runtime.
type LeveledHandler interface {
	slog.Handler
	SetLevel(lvl slog.Level)
}

// NewLeveledHandler returns a text or json handler writing to w. Handlers
// derived with WithAttrs or WithGroup share the level of their parent.
func NewLeveledHandler(format string, w io.Writer, opts slog.HandlerOptions) LeveledHandler {
	lvl := LevelInfo
	if opts.Level != nil {
		lvl = opts.Level.Level()
	}
	level := NewLevelVar(lvl)
	opts.Level = level

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, &opts)
	} else {
		h = slog.NewTextHandler(w, &opts)
	}
	return &leveledHandler{Handler: h, level: level}
}

type leveledHandler struct {
	slog.Handler
	level *slog.LevelVar
}

func (h *leveledHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveledHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *leveledHandler) WithGroup(name string) slog.Handler {
	return &leveledHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}

func (h *leveledHandler) SetLevel(lvl slog.Level) {
	h.level.Set(lvl)
}

// setHandlerLevel changes the level of h if it supports it.
func setHandlerLevel(h slog.Handler, lvl slog.Level) {
	if leveled, ok := h.(LeveledHandler); ok {
		leveled.SetLevel(lvl)
	}
}

// MultiHandler sends each record to every handler enabled for its level.
func MultiHandler(handlers ...slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return &multiHandler{handlers: handlers}
}

type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return lo.SomeBy(h.handlers, func(item slog.Handler) bool {
		return item.Enabled(ctx, lvl)
	})
}

// Handle keeps going when one handler fails and returns all the errors.
func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := try(func() error { return handler.Handle(ctx, r.Clone()) }); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{handlers: lo.Map(h.handlers, func(item slog.Handler, _ int) slog.Handler {
		return item.WithAttrs(attrs)
	})}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{handlers: lo.Map(h.handlers, func(item slog.Handler, _ int) slog.Handler {
		return item.WithGroup(name)
	})}
}

func (h *multiHandler) SetLevel(lvl slog.Level) {
	for _, handler := range h.handlers {
		setHandlerLevel(handler, lvl)
	}
}
