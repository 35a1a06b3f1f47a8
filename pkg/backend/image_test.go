package backend_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/backend"
	"github.com/wuxler/ruasset/pkg/errdefs"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type countingSource struct {
	data   []byte
	err    error
	opened atomic.Int32
}

func (c *countingSource) source(filename string) backend.Source {
	return backend.Source{
		Key: asset.NewKey(filename, asset.DigestBytes(c.data), ""),
		Open: func(context.Context) (io.ReadCloser, error) {
			c.opened.Add(1)
			if c.err != nil {
				return nil, c.err
			}
			return io.NopCloser(bytes.NewReader(c.data)), nil
		},
	}
}

func decodeConfig(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return config, format
}

func TestImageBackend_Produce(t *testing.T) {
	ctx := context.Background()
	b := backend.NewImageBackend(backend.DefaultConfig())
	src := (&countingSource{data: pngBytes(t, 200, 100)}).source("pets/dog.png")

	tests := []struct {
		op     string
		args   []any
		width  int
		height int
		format string
	}{
		{op: backend.OpResize, args: []any{50, 50}, width: 50, height: 50, format: "png"},
		{op: backend.OpScaleWidth, args: []any{100}, width: 100, height: 50, format: "png"},
		{op: backend.OpScaleHeight, args: []any{50}, width: 100, height: 50, format: "png"},
		{op: backend.OpFit, args: []any{50, 50}, width: 50, height: 25, format: "png"},
		{op: backend.OpFit, args: []any{400, 400}, width: 400, height: 200, format: "png"},
		{op: backend.OpFitMax, args: []any{400, 400}, width: 200, height: 100, format: "png"},
		{op: backend.OpFill, args: []any{50, 50}, width: 50, height: 50, format: "png"},
		{op: backend.OpPad, args: []any{50, 50}, width: 50, height: 50, format: "png"},
		{op: backend.OpConvert, args: []any{"jpg"}, width: 200, height: 100, format: "jpeg"},
		{op: backend.OpConvert, args: []any{"gif"}, width: 200, height: 100, format: "gif"},
		{op: backend.OpResize, args: []any{float64(30), "20"}, width: 30, height: 20, format: "png"},
	}
	for _, tc := range tests {
		t.Run(tc.op, func(t *testing.T) {
			out, err := b.Produce(ctx, src, tc.op, tc.args)
			require.NoError(t, err)
			config, format := decodeConfig(t, out)
			assert.Equal(t, tc.width, config.Width)
			assert.Equal(t, tc.height, config.Height)
			assert.Equal(t, tc.format, format)
		})
	}
}

func TestImageBackend_ProduceIsDeterministic(t *testing.T) {
	ctx := context.Background()
	b := backend.NewImageBackend(backend.DefaultConfig())
	src := (&countingSource{data: pngBytes(t, 64, 64)}).source("a.png")

	first, err := b.Produce(ctx, src, backend.OpFill, []any{10, 20})
	require.NoError(t, err)
	second, err := b.Produce(ctx, src, backend.OpFill, []any{10, 20})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestImageBackend_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	b := backend.NewImageBackend(backend.DefaultConfig())
	src := (&countingSource{data: pngBytes(t, 10, 10)}).source("a.png")

	for _, args := range [][]any{nil, {10}, {0, 10}, {"wide", 10}} {
		_, err := b.Produce(ctx, src, backend.OpResize, args)
		require.Error(t, err)
		_, ok := backend.AsFailure(err)
		assert.False(t, ok, "bad arguments are not memoized failures: %v", args)
	}
}

func TestImageBackend_NotApplicable(t *testing.T) {
	ctx := context.Background()
	b := backend.NewImageBackend(backend.DefaultConfig())

	text := (&countingSource{data: []byte("just some notes")}).source("docs/readme.txt")
	_, err := b.Produce(ctx, text, backend.OpFit, []any{10, 10})
	assert.ErrorIs(t, err, backend.ErrNotApplicable)

	img := (&countingSource{data: pngBytes(t, 10, 10)}).source("a.png")
	_, err = b.Produce(ctx, img, "Sepia", nil)
	assert.ErrorIs(t, err, backend.ErrNotApplicable)

	_, err = b.Produce(ctx, img, backend.OpConvert, []any{"webp"})
	assert.ErrorIs(t, err, backend.ErrNotApplicable)
}

func TestImageBackend_InvalidSourceIsRetried(t *testing.T) {
	ctx := context.Background()
	b := backend.NewImageBackend(backend.DefaultConfig(), backend.WithClock(clock.NewMock()))
	corrupt := &countingSource{data: []byte("\xff\xd8\xff\xe0 definitely not a jpeg")}
	src := corrupt.source("pets/dog.jpg")

	for i := 1; i <= 2; i++ {
		_, err := b.Produce(ctx, src, backend.OpResize, []any{100, 100})
		failure, ok := backend.AsFailure(err)
		require.True(t, ok)
		assert.Equal(t, backend.InvalidSource, failure.Reason)
		assert.True(t, failure.Until.IsZero())
		assert.EqualValues(t, i, corrupt.opened.Load())
	}
}

func TestImageBackend_MissingSourceBacksOff(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	b := backend.NewImageBackend(backend.DefaultConfig(), backend.WithClock(clk))
	missing := &countingSource{data: pngBytes(t, 20, 20), err: errors.New("connection reset")}
	src := missing.source("pets/dog.png")

	_, err := b.Produce(ctx, src, backend.OpFit, []any{10, 10})
	failure, ok := backend.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, backend.MissingSource, failure.Reason)
	assert.Equal(t, clk.Now().Add(5*time.Second), failure.Until)

	_, err = b.Produce(ctx, src, backend.OpFit, []any{10, 10})
	assert.ErrorIs(t, err, backend.ErrSuppressed)
	assert.EqualValues(t, 1, missing.opened.Load())

	clk.Add(6 * time.Second)
	_, err = b.Produce(ctx, src, backend.OpFit, []any{10, 10})
	failure, ok = backend.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, clk.Now().Add(10*time.Second), failure.Until)
	assert.EqualValues(t, 2, missing.opened.Load())

	clk.Add(11 * time.Second)
	missing.err = nil
	_, err = b.Produce(ctx, src, backend.OpFit, []any{10, 10})
	require.NoError(t, err)
	_, ok = b.Memo().Check(ctx, src.Key.WithVariant(mustVariant(t, backend.OpFit, 10, 10)))
	assert.False(t, ok)
}

func TestImageBackend_UnknownErrorCoolsDown(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMock()
	broken := func(src backend.Dimensions, _ []any) (backend.Plan, error) {
		return backend.Plan{
			Width: src.Width, Height: src.Height, Format: "bmp",
			Render: func(dst draw.Image, img image.Image) {},
		}, nil
	}
	b := backend.NewImageBackend(backend.DefaultConfig(), backend.WithClock(clk), backend.WithOperation("Bitmap", broken))
	data := &countingSource{data: pngBytes(t, 8, 8)}
	src := data.source("a.png")

	_, err := b.Produce(ctx, src, "Bitmap", nil)
	failure, ok := backend.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, backend.UnknownError, failure.Reason)
	assert.Equal(t, clk.Now().Add(300*time.Second), failure.Until)

	clk.Add(100 * time.Second)
	_, err = b.Produce(ctx, src, "Bitmap", nil)
	assert.ErrorIs(t, err, backend.ErrSuppressed)

	b.Flush(ctx)
	_, err = b.Produce(ctx, src, "Bitmap", nil)
	assert.NotErrorIs(t, err, backend.ErrSuppressed)
	assert.EqualValues(t, 2, data.opened.Load())
}

func TestImageBackend_DimensionsCached(t *testing.T) {
	ctx := context.Background()
	b := backend.NewImageBackend(backend.DefaultConfig())
	data := &countingSource{data: pngBytes(t, 30, 40)}
	src := data.source("a.png")

	for i := 0; i < 3; i++ {
		dims, ok := b.Dimensions(ctx, src)
		require.True(t, ok)
		assert.Equal(t, backend.Dimensions{Width: 30, Height: 40, Format: "png"}, dims)
	}
	assert.EqualValues(t, 1, data.opened.Load())

	_, err := b.Produce(ctx, src, backend.OpScaleWidth, []any{15})
	require.NoError(t, err)
	dims, ok := b.Dimensions(ctx, backend.Source{Key: src.Key.WithVariant(mustVariant(t, backend.OpScaleWidth, 15))})
	require.True(t, ok, "produced variants are cached without reading them back")
	assert.Equal(t, backend.Dimensions{Width: 15, Height: 20, Format: "png"}, dims)

	b.Flush(ctx)
	_, ok = b.Dimensions(ctx, backend.Source{Key: src.Key.WithVariant(mustVariant(t, backend.OpScaleWidth, 15))})
	assert.False(t, ok)
}

func TestImageBackend_IsNoop(t *testing.T) {
	ctx := context.Background()
	b := backend.NewImageBackend(backend.DefaultConfig())
	src := (&countingSource{data: pngBytes(t, 200, 100)}).source("a.png")

	tests := []struct {
		op   string
		args []any
		want bool
	}{
		{op: backend.OpResize, args: []any{200, 100}, want: true},
		{op: backend.OpResize, args: []any{100, 100}, want: false},
		{op: backend.OpScaleWidth, args: []any{200}, want: true},
		{op: backend.OpFit, args: []any{200, 300}, want: true},
		{op: backend.OpFitMax, args: []any{1000, 1000}, want: true},
		{op: backend.OpFitMax, args: []any{100, 100}, want: false},
		{op: backend.OpConvert, args: []any{"png"}, want: true},
		{op: backend.OpConvert, args: []any{"jpeg"}, want: false},
		{op: "Sepia", want: false},
		{op: backend.OpResize, args: []any{-1, 10}, want: false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, b.IsNoop(ctx, src, tc.op, tc.args), "%s%v", tc.op, tc.args)
	}
}

func mustVariant(t *testing.T, op string, args ...any) string {
	t.Helper()
	v, err := asset.EncodeVariant(op, args...)
	require.NoError(t, err)
	return v
}

func TestImageBackend_MaxDimension(t *testing.T) {
	ctx := context.Background()
	config := backend.DefaultConfig()
	config.MaxDimension = 100
	b := backend.NewImageBackend(config)
	src := (&countingSource{data: pngBytes(t, 10, 10)}).source("a.png")

	_, err := b.Produce(ctx, src, backend.OpResize, []any{101, 10})
	assert.ErrorIs(t, err, errdefs.ErrInvalidParameter)
	_, err = b.Produce(ctx, src, backend.OpResize, []any{100, 10})
	assert.NoError(t, err)
}
