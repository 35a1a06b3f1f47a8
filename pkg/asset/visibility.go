package asset

import (
	"fmt"
	"strings"

	"github.com/wuxler/ruasset/pkg/errdefs"
)

// Visibility is the storage partition holding an original and its variants.
type Visibility int

const (
	// Absent means no partition holds the original.
	Absent Visibility = iota
	// Protected content is only served to viewers holding a grant.
	Protected
	// Public content is served to anyone.
	Public
)

// String implements fmt.Stringer.
func (v Visibility) String() string {
	switch v {
	case Absent:
		return "absent"
	case Protected:
		return "protected"
	case Public:
		return "public"
	}
	return fmt.Sprintf("visibility(%d)", int(v))
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	parsed, err := ParseVisibility(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVisibility parses the String form of a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absent":
		return Absent, nil
	case "protected":
		return Protected, nil
	case "public":
		return Public, nil
	}
	return Absent, errdefs.Newf(errdefs.ErrInvalidParameter, "unknown visibility %q", s)
}
