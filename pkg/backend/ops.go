package backend

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/image/draw"

	"github.com/wuxler/ruasset/pkg/errdefs"
)

// Image formats known by the image backend.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatWEBP = "webp"
)

// Operation names registered by default.
const (
	OpResize      = "Resize"
	OpScaleWidth  = "ScaleWidth"
	OpScaleHeight = "ScaleHeight"
	OpFit         = "Fit"
	OpFitMax      = "FitMax"
	OpFill        = "Fill"
	OpPad         = "Pad"
	OpConvert     = "Convert"
)

// Plan is the outcome of an operation computed from the source metadata
// only, so that no-op manipulations are detected without decoding pixels.
type Plan struct {
	// Width and Height of the output canvas.
	Width, Height int
	// Format of the output.
	Format string
	// Render draws the source image onto the output canvas.
	Render func(dst draw.Image, src image.Image)
}

// Operation plans a manipulation of a source with the given metadata.
type Operation func(src Dimensions, args []any) (Plan, error)

// Noop reports whether the plan leaves the source unchanged.
func (p Plan) Noop(src Dimensions) bool {
	return p.Width == src.Width && p.Height == src.Height && p.Format == src.Format
}

// DefaultOperations returns the operations registered by NewImageBackend.
func DefaultOperations() map[string]Operation {
	return map[string]Operation{
		OpResize:      resize,
		OpScaleWidth:  scaleWidth,
		OpScaleHeight: scaleHeight,
		OpFit:         fit,
		OpFitMax:      fitMax,
		OpFill:        fill,
		OpPad:         pad,
		OpConvert:     convert,
	}
}

// outputFormat returns the format the source is re-encoded in. WebP has no
// encoder and falls back to PNG.
func outputFormat(format string) string {
	if format == FormatWEBP {
		return FormatPNG
	}
	return format
}

func intArgs(args []any, names ...string) ([]int, error) {
	if len(args) != len(names) {
		return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "expect %d arguments (%s), got %d",
			len(names), strings.Join(names, ", "), len(args))
	}
	values := make([]int, len(args))
	for i, arg := range args {
		v, err := cast.ToIntE(arg)
		if err != nil {
			return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "argument %s: %v", names[i], err)
		}
		if v <= 0 {
			return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "argument %s must be positive, got %d", names[i], v)
		}
		values[i] = v
	}
	return values, nil
}

func scaled(v int, ratio float64) int {
	return max(1, int(math.Round(float64(v)*ratio)))
}

func stretch(dst draw.Image, src image.Image) {
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}

func scalePlan(src Dimensions, width, height int) Plan {
	return Plan{Width: width, Height: height, Format: outputFormat(src.Format), Render: stretch}
}

func resize(src Dimensions, args []any) (Plan, error) {
	v, err := intArgs(args, "width", "height")
	if err != nil {
		return Plan{}, err
	}
	return scalePlan(src, v[0], v[1]), nil
}

func scaleWidth(src Dimensions, args []any) (Plan, error) {
	v, err := intArgs(args, "width")
	if err != nil {
		return Plan{}, err
	}
	return scalePlan(src, v[0], scaled(src.Height, float64(v[0])/float64(src.Width))), nil
}

func scaleHeight(src Dimensions, args []any) (Plan, error) {
	v, err := intArgs(args, "height")
	if err != nil {
		return Plan{}, err
	}
	return scalePlan(src, scaled(src.Width, float64(v[0])/float64(src.Height)), v[0]), nil
}

func fitRatio(src Dimensions, width, height int) float64 {
	return math.Min(float64(width)/float64(src.Width), float64(height)/float64(src.Height))
}

func fit(src Dimensions, args []any) (Plan, error) {
	v, err := intArgs(args, "width", "height")
	if err != nil {
		return Plan{}, err
	}
	ratio := fitRatio(src, v[0], v[1])
	return scalePlan(src, scaled(src.Width, ratio), scaled(src.Height, ratio)), nil
}

func fitMax(src Dimensions, args []any) (Plan, error) {
	v, err := intArgs(args, "width", "height")
	if err != nil {
		return Plan{}, err
	}
	ratio := math.Min(1, fitRatio(src, v[0], v[1]))
	return scalePlan(src, scaled(src.Width, ratio), scaled(src.Height, ratio)), nil
}

func fill(src Dimensions, args []any) (Plan, error) {
	v, err := intArgs(args, "width", "height")
	if err != nil {
		return Plan{}, err
	}
	width, height := v[0], v[1]
	ratio := math.Max(float64(width)/float64(src.Width), float64(height)/float64(src.Height))
	plan := scalePlan(src, width, height)
	plan.Render = func(dst draw.Image, img image.Image) {
		b := img.Bounds()
		cw := min(b.Dx(), int(math.Round(float64(width)/ratio)))
		ch := min(b.Dy(), int(math.Round(float64(height)/ratio)))
		x0 := b.Min.X + (b.Dx()-cw)/2
		y0 := b.Min.Y + (b.Dy()-ch)/2
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, image.Rect(x0, y0, x0+cw, y0+ch), draw.Src, nil)
	}
	return plan, nil
}

func pad(src Dimensions, args []any) (Plan, error) {
	v, err := intArgs(args, "width", "height")
	if err != nil {
		return Plan{}, err
	}
	width, height := v[0], v[1]
	ratio := fitRatio(src, width, height)
	sw, sh := min(width, scaled(src.Width, ratio)), min(height, scaled(src.Height, ratio))
	plan := scalePlan(src, width, height)
	background := color.Color(color.Transparent)
	if plan.Format == FormatJPEG {
		background = color.White
	}
	plan.Render = func(dst draw.Image, img image.Image) {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
		x0, y0 := (width-sw)/2, (height-sh)/2
		draw.CatmullRom.Scale(dst, image.Rect(x0, y0, x0+sw, y0+sh), img, img.Bounds(), draw.Over, nil)
	}
	return plan, nil
}

func convert(src Dimensions, args []any) (Plan, error) {
	if len(args) != 1 {
		return Plan{}, errdefs.Newf(errdefs.ErrInvalidParameter, "expect 1 argument (format), got %d", len(args))
	}
	format, err := cast.ToStringE(args[0])
	if err != nil {
		return Plan{}, errdefs.Newf(errdefs.ErrInvalidParameter, "argument format: %v", err)
	}
	switch format = strings.ToLower(format); format {
	case "jpg", FormatJPEG:
		format = FormatJPEG
	case FormatPNG, FormatGIF:
	default:
		return Plan{}, errdefs.NewE(ErrNotApplicable, errdefs.Newf(errdefs.ErrUnsupported, "convert to %q", format))
	}
	return Plan{
		Width:  src.Width,
		Height: src.Height,
		Format: format,
		Render: func(dst draw.Image, img image.Image) {
			draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		},
	}, nil
}
