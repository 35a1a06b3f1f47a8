package backend

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // register webp decoder

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/util/xcache"
	"github.com/wuxler/ruasset/pkg/util/xio"
	"github.com/wuxler/ruasset/pkg/xlog"
)

// imageMIMETypes maps the detected content type to the decoder format name.
var imageMIMETypes = map[string]string{
	"image/jpeg": FormatJPEG,
	"image/png":  FormatPNG,
	"image/gif":  FormatGIF,
	"image/webp": FormatWEBP,
}

// imageExtensions are the filename extensions expected to hold images.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Config is the configuration of the image backend.
type Config struct {
	// JPEGQuality of encoded jpeg variants, 1 to 100.
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`
	// MaxDimension bounds the width and height of produced variants.
	MaxDimension int `json:"max_dimension" yaml:"max_dimension"`
	// Memo configures the failure cooldowns.
	Memo MemoConfig `json:"memo" yaml:"memo"`
}

// DefaultConfig returns the default image backend configuration.
func DefaultConfig() Config {
	return Config{
		JPEGQuality:  90,
		MaxDimension: 8192,
		Memo:         DefaultMemoConfig(),
	}
}

// Option configures the image backend.
type Option func(*ImageBackend)

// WithClock sets the clock of the failure memo.
func WithClock(clk clock.Clock) Option {
	return func(b *ImageBackend) { b.clock = clk }
}

// WithOperation registers or replaces an operation.
func WithOperation(name string, op Operation) Option {
	return func(b *ImageBackend) { b.operations[name] = op }
}

// ImageBackend manipulates jpeg, png, gif and webp images.
type ImageBackend struct {
	config     Config
	clock      clock.Clock
	operations map[string]Operation
	memo       *FailureMemo
	dimensions xcache.Cache[Dimensions]
}

var _ Backend = (*ImageBackend)(nil)

// NewImageBackend returns a new image backend.
func NewImageBackend(config Config, options ...Option) *ImageBackend {
	if config.JPEGQuality <= 0 || config.JPEGQuality > 100 {
		config.JPEGQuality = DefaultConfig().JPEGQuality
	}
	if config.MaxDimension <= 0 {
		config.MaxDimension = DefaultConfig().MaxDimension
	}
	b := &ImageBackend{
		config:     config,
		clock:      clock.New(),
		operations: DefaultOperations(),
		dimensions: xcache.NewMemory[Dimensions](),
	}
	for _, apply := range options {
		apply(b)
	}
	b.memo = NewFailureMemo(config.Memo, b.clock)
	return b
}

// Memo returns the failure memo of the backend.
func (b *ImageBackend) Memo() *FailureMemo {
	return b.memo
}

// Operations returns the names of the registered operations.
func (b *ImageBackend) Operations() []string {
	names := make([]string, 0, len(b.operations))
	for name := range b.operations {
		names = append(names, name)
	}
	return names
}

func (b *ImageBackend) target(src Source, op string, args []any) (asset.Key, Operation, error) {
	operation, ok := b.operations[op]
	if !ok {
		return asset.Key{}, nil, errdefs.NewE(ErrNotApplicable, errdefs.Newf(errdefs.ErrUnsupported, "unknown operation %q", op))
	}
	segment, err := asset.EncodeVariant(op, args...)
	if err != nil {
		return asset.Key{}, nil, err
	}
	return src.Key.WithVariant(asset.ChainVariant(src.Key.Variant, segment)), operation, nil
}

// Produce implements Backend.
func (b *ImageBackend) Produce(ctx context.Context, src Source, op string, args []any) ([]byte, error) {
	target, operation, err := b.target(src, op, args)
	if err != nil {
		return nil, err
	}
	if entry, ok := b.memo.Check(ctx, target); ok {
		return nil, &Failure{Key: target, Reason: entry.Reason, Until: entry.Until, Err: ErrSuppressed}
	}

	data, err := b.load(ctx, src)
	if err != nil {
		return nil, b.fail(ctx, target, MissingSource, err)
	}
	format, err := b.detect(src, data)
	if err != nil {
		if errors.Is(err, ErrNotApplicable) {
			return nil, err
		}
		return nil, b.fail(ctx, target, InvalidSource, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, b.fail(ctx, target, InvalidSource, err)
	}

	bounds := img.Bounds()
	plan, err := operation(Dimensions{Width: bounds.Dx(), Height: bounds.Dy(), Format: format}, args)
	if err != nil {
		// Bad arguments and unsupported targets are not failures of the source.
		return nil, err
	}
	if plan.Width > b.config.MaxDimension || plan.Height > b.config.MaxDimension {
		return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "%dx%d exceeds the maximum dimension %d",
			plan.Width, plan.Height, b.config.MaxDimension)
	}
	out, err := b.render(img, plan)
	if err != nil {
		return nil, b.fail(ctx, target, UnknownError, err)
	}

	b.memo.Clear(ctx, target)
	b.dimensions.Set(ctx, memoKey(target), Dimensions{Width: plan.Width, Height: plan.Height, Format: plan.Format})
	return out, nil
}

func (b *ImageBackend) fail(ctx context.Context, key asset.Key, reason Reason, err error) error {
	entry := b.memo.Record(ctx, key, reason)
	xlog.C(ctx).Warn("manipulation failed", "key", key.String(), "reason", reason.String(), "cooldown", entry.TTL, "error", err)
	return &Failure{Key: key, Reason: reason, Until: entry.Until, Err: err}
}

func (b *ImageBackend) load(ctx context.Context, src Source) ([]byte, error) {
	if src.Open == nil {
		return nil, errdefs.Newf(errdefs.ErrNotFound, "no content for %s", src.Key)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer xio.CloseAndSkipError(rc)
	return io.ReadAll(rc)
}

// detect returns the image format of the content. Content that is not an
// image is not applicable, unless its filename claims to be one.
func (b *ImageBackend) detect(src Source, data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	for m := mtype; m != nil; m = m.Parent() {
		if format, ok := imageMIMETypes[m.String()]; ok {
			return format, nil
		}
	}
	if imageExtensions[strings.ToLower(path.Ext(src.Key.Filename))] {
		return "", errdefs.Newf(errdefs.ErrInvalidParameter, "content of %s is %s, not an image", src.Key.Filename, mtype.String())
	}
	return "", errdefs.NewE(ErrNotApplicable, errdefs.Newf(errdefs.ErrUnsupported, "content type %s", mtype.String()))
}

func (b *ImageBackend) render(img image.Image, plan Plan) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	plan.Render(dst, img)
	return b.encode(dst, plan.Format)
}

func (b *ImageBackend) encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: b.config.JPEGQuality})
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		err = errdefs.Newf(errdefs.ErrUnsupported, "encode %s", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dimensions implements Backend.
func (b *ImageBackend) Dimensions(ctx context.Context, src Source) (Dimensions, bool) {
	return b.dimensions.Get(ctx, memoKey(src.Key), xcache.WithLoader(func(ctx context.Context, _ string) (Dimensions, bool) {
		data, err := b.load(ctx, src)
		if err != nil {
			return Dimensions{}, false
		}
		config, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Dimensions{}, false
		}
		return Dimensions{Width: config.Width, Height: config.Height, Format: format}, true
	}))
}

// IsNoop implements Backend.
func (b *ImageBackend) IsNoop(ctx context.Context, src Source, op string, args []any) bool {
	operation, ok := b.operations[op]
	if !ok {
		return false
	}
	dims, ok := b.Dimensions(ctx, src)
	if !ok {
		return false
	}
	plan, err := operation(dims, args)
	if err != nil {
		return false
	}
	return plan.Noop(dims)
}

// Flush implements Backend.
func (b *ImageBackend) Flush(ctx context.Context) {
	b.memo.Flush(ctx)
	b.dimensions.Clear(ctx)
}
