package variant

import (
	"bytes"
	"context"
	"errors"
	"io"

	"golang.org/x/sync/singleflight"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/backend"
	"github.com/wuxler/ruasset/pkg/store"
	"github.com/wuxler/ruasset/pkg/xlog"
)

// Engine derives variants of stored assets. Each variant is produced at most
// once per process; concurrent producers in other processes settle on the
// first variant written.
type Engine struct {
	store   store.Store
	backend backend.Backend
	config  Config
	flights singleflight.Group
}

// NewEngine returns a new engine.
func NewEngine(s store.Store, b backend.Backend, config Config) *Engine {
	return &Engine{store: s, backend: b, config: config}
}

// Source returns the backend source reading the key from the store.
func (e *Engine) Source(key asset.Key) backend.Source {
	return backend.Source{
		Key: key,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			return e.store.Read(ctx, key)
		},
	}
}

// Manipulate returns the variant of original produced by the operation. It
// returns false when there is no result, which callers handle by falling back
// to the original or a placeholder. Operations leaving the content unchanged
// return original itself.
func (e *Engine) Manipulate(ctx context.Context, original asset.Container, op string, args []any, options ...Option) (asset.Container, bool) {
	if original == nil {
		return nil, false
	}
	o := e.makeOptions(options...)
	key := original.AssetKey()
	if key.IsZero() {
		return nil, false
	}

	logger := xlog.C(ctx).With("filename", key.Filename, "hash", key.Hash, "operation", op)
	segment, err := asset.EncodeVariant(op, args...)
	if err != nil {
		logger.Warn("invalid manipulation", "error", err)
		return nil, false
	}
	target := key.WithVariant(asset.ChainVariant(key.Variant, segment))

	exists, err := e.store.Exists(ctx, target)
	if err != nil {
		logger.Warn("unable to check variant", "variant", target.Variant, "error", err)
		return nil, false
	}
	if exists {
		return &Variant{Key: target, Original: original}, true
	}

	// suppressed calls never read the source, not even for no-op detection
	if !o.Generate {
		return nil, false
	}
	src := e.Source(key)
	if e.backend.IsNoop(ctx, src, op, args) {
		return original, true
	}

	result, err, _ := e.flights.Do(target.String(), func() (any, error) {
		// A flight finished right before this one may have written it.
		if ok, err := e.store.Exists(ctx, target); err == nil && ok {
			return target, nil
		}
		data, err := e.backend.Produce(ctx, src, op, args)
		if err != nil {
			return nil, err
		}
		return e.store.Write(ctx, bytes.NewReader(data), key.Filename,
			store.WithHash(key.Hash),
			store.WithVariant(target.Variant),
			store.WithConflict(store.ConflictUseExisting),
		)
	})
	if err != nil {
		if errors.Is(err, backend.ErrNotApplicable) {
			logger.Debug("manipulation not applicable", "variant", target.Variant)
		} else {
			logger.Warn("unable to produce variant", "variant", target.Variant, "error", err)
		}
		return nil, false
	}
	logger.Debug("variant produced", "variant", target.Variant)
	return &Variant{Key: result.(asset.Key), Original: original}, true
}

// Derived resolves a variant chain of the container's original, producing
// the missing links on demand. It is used to serve variant keys parsed from
// requests.
func (e *Engine) Derived(ctx context.Context, original asset.Container, variant string, options ...Option) (asset.Container, bool) {
	segments, err := asset.DecodeVariant(variant)
	if err != nil {
		xlog.C(ctx).Debug("invalid variant requested", "variant", variant, "error", err)
		return nil, false
	}
	current := original
	for _, segment := range segments {
		next, ok := e.Manipulate(ctx, current, segment.Operation, segment.Args, options...)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Dimensions returns the dimensions of the container content.
func (e *Engine) Dimensions(ctx context.Context, c asset.Container) (backend.Dimensions, bool) {
	key := c.AssetKey()
	if key.IsZero() {
		return backend.Dimensions{}, false
	}
	return e.backend.Dimensions(ctx, e.Source(key))
}

// Flush clears the caches of the backend.
func (e *Engine) Flush(ctx context.Context) {
	e.backend.Flush(ctx)
}

// Resize stretches the image to width x height.
func (e *Engine) Resize(ctx context.Context, c asset.Container, width, height int, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpResize, []any{width, height}, options...)
}

// ScaleWidth scales the image to width keeping the aspect ratio.
func (e *Engine) ScaleWidth(ctx context.Context, c asset.Container, width int, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpScaleWidth, []any{width}, options...)
}

// ScaleHeight scales the image to height keeping the aspect ratio.
func (e *Engine) ScaleHeight(ctx context.Context, c asset.Container, height int, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpScaleHeight, []any{height}, options...)
}

// Fit scales the image to fit in width x height.
func (e *Engine) Fit(ctx context.Context, c asset.Container, width, height int, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpFit, []any{width, height}, options...)
}

// FitMax is like Fit but never enlarges the image.
func (e *Engine) FitMax(ctx context.Context, c asset.Container, width, height int, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpFitMax, []any{width, height}, options...)
}

// Fill scales and crops the image to cover width x height.
func (e *Engine) Fill(ctx context.Context, c asset.Container, width, height int, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpFill, []any{width, height}, options...)
}

// Pad fits the image in width x height and pads the rest.
func (e *Engine) Pad(ctx context.Context, c asset.Container, width, height int, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpPad, []any{width, height}, options...)
}

// Convert re-encodes the image in format.
func (e *Engine) Convert(ctx context.Context, c asset.Container, format string, options ...Option) (asset.Container, bool) {
	return e.Manipulate(ctx, c, backend.OpConvert, []any{format}, options...)
}
