package asset

import (
	"encoding/base32"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/wuxler/ruasset/pkg/errdefs"
)

const (
	// VariantChainSeparator joins the variant segments of a variant derived
	// from another variant.
	VariantChainSeparator = "_"
	// variantArgsSeparator separates the operation name and its encoded
	// arguments inside one segment.
	variantArgsSeparator = "-"
)

var (
	variantArgsEncoding = base32.HexEncoding.WithPadding(base32.NoPadding)

	operationPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	segmentPattern   = `[A-Za-z][A-Za-z0-9]*(?:-[0-9a-v]+)?`
	variantPattern   = regexp.MustCompile(`^` + segmentPattern + `(?:_` + segmentPattern + `)*$`)
)

// VariantSegment is one decoded manipulation in a variant chain.
type VariantSegment struct {
	Operation string
	Args      []any
}

// ValidVariant reports whether variant is made of encoded segments.
func ValidVariant(variant string) bool {
	return variantPattern.MatchString(variant)
}

// EncodeVariant encodes the operation with its arguments as a variant
// segment, e.g. ("Fit", 100, 100) gives "Fit-bcoj0c1c64o30n8".
func EncodeVariant(operation string, args ...any) (string, error) {
	if !operationPattern.MatchString(operation) {
		return "", errdefs.Newf(errdefs.ErrInvalidParameter, "invalid operation name %q", operation)
	}
	if len(args) == 0 {
		return operation, nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", errdefs.NewE(errdefs.ErrInvalidParameter, err)
	}
	return operation + variantArgsSeparator + strings.ToLower(variantArgsEncoding.EncodeToString(raw)), nil
}

// ChainVariant appends child to the parent variant.
func ChainVariant(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + VariantChainSeparator + child
}

// DecodeVariant decodes every segment of the variant chain, in order of
// application.
func DecodeVariant(variant string) ([]VariantSegment, error) {
	if !ValidVariant(variant) {
		return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid variant %q", variant)
	}
	parts := strings.Split(variant, VariantChainSeparator)
	segments := make([]VariantSegment, 0, len(parts))
	for _, part := range parts {
		op, encoded, found := strings.Cut(part, variantArgsSeparator)
		segment := VariantSegment{Operation: op}
		if found {
			raw, err := variantArgsEncoding.DecodeString(strings.ToUpper(encoded))
			if err != nil {
				return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid variant %q: %v", variant, err)
			}
			if err := json.Unmarshal(raw, &segment.Args); err != nil {
				return nil, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid variant %q: %v", variant, err)
			}
		}
		segments = append(segments, segment)
	}
	return segments, nil
}
