package asset

import (
	"path"
	"strings"

	"github.com/wuxler/ruasset/pkg/errdefs"
)

// VariantSeparator separates the file name and the variant in physical names
// like "dog__Fit-bcoj0c1c64o30n8.jpg".
const VariantSeparator = "__"

// BuildKey returns the ID "dir/<hash>/name__variant.ext" of the key. The ID
// is reversible with ParseKey.
func BuildKey(filename, hash, variant string) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	if !ValidHash(hash) {
		return "", errdefs.Newf(errdefs.ErrInvalidParameter, "invalid hash %q", hash)
	}
	if variant != "" && !ValidVariant(variant) {
		return "", errdefs.Newf(errdefs.ErrInvalidParameter, "invalid variant %q", variant)
	}
	dir, base := path.Split(filename)
	return dir + hash + "/" + VariantName(base, variant), nil
}

// ParseKey parses an ID built by BuildKey.
func ParseKey(id string) (Key, error) {
	idx := strings.LastIndex(id, "/")
	if idx < 0 {
		return Key{}, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid asset id %q: missing hash", id)
	}
	parent, physical := id[:idx], id[idx+1:]
	dir, hash := "", parent
	if i := strings.LastIndex(parent, "/"); i >= 0 {
		dir, hash = parent[:i+1], parent[i+1:]
	}
	if !ValidHash(hash) {
		return Key{}, errdefs.Newf(errdefs.ErrInvalidParameter, "invalid asset id %q: bad hash", id)
	}
	base, variant, err := SplitVariantName(physical)
	if err != nil {
		return Key{}, err
	}
	key := Key{Filename: dir + base, Hash: hash, Variant: variant}
	if err := ValidateFilename(key.Filename); err != nil {
		return Key{}, err
	}
	return key, nil
}

// VariantName returns the physical file name of the variant of base, e.g.
// ("dog.jpg", "Fit-xx") gives "dog__Fit-xx.jpg".
func VariantName(base, variant string) string {
	if variant == "" {
		return base
	}
	name, ext := SplitExt(base)
	return name + VariantSeparator + variant + ext
}

// SplitVariantName reverses VariantName.
func SplitVariantName(physical string) (base string, variant string, err error) {
	idx := strings.LastIndex(physical, VariantSeparator)
	if idx < 0 {
		return physical, "", nil
	}
	name, rest := physical[:idx], physical[idx+len(VariantSeparator):]
	variant, ext := rest, ""
	if dot := strings.Index(rest, "."); dot >= 0 {
		variant, ext = rest[:dot], rest[dot:]
	}
	if !ValidVariant(variant) {
		return "", "", errdefs.Newf(errdefs.ErrInvalidParameter, "invalid variant in %q", physical)
	}
	return name + ext, variant, nil
}

// SplitExt splits the base name into name and extension (with the leading
// dot). Dot files like ".env" have no extension.
func SplitExt(base string) (name string, ext string) {
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return base, ""
	}
	return base[:idx], base[idx:]
}

// ValidateFilename checks that filename is a clean, root relative path whose
// base name can not be confused with a variant name.
func ValidateFilename(filename string) error {
	switch {
	case filename == "":
		return errdefs.Newf(errdefs.ErrInvalidParameter, "empty filename")
	case strings.HasPrefix(filename, "/"):
		return errdefs.Newf(errdefs.ErrInvalidParameter, "filename %q must be relative", filename)
	case path.Clean(filename) != filename || strings.HasPrefix(filename, "../") || filename == "..":
		return errdefs.Newf(errdefs.ErrInvalidParameter, "filename %q is not clean", filename)
	case strings.HasSuffix(filename, "/"):
		return errdefs.Newf(errdefs.ErrInvalidParameter, "filename %q is a directory", filename)
	}
	if strings.Contains(path.Base(filename), VariantSeparator) {
		return errdefs.Newf(errdefs.ErrInvalidParameter, "filename %q must not contain %q", filename, VariantSeparator)
	}
	return nil
}

// SanitizeFilename turns an uploaded name into a valid filename: it trims
// the leading slashes, cleans the path and collapses runs of "_" in base
// names so they never contain the variant separator.
func SanitizeFilename(filename string) string {
	filename = strings.TrimLeft(strings.TrimSpace(filename), "/")
	if filename == "" {
		return ""
	}
	filename = path.Clean(filename)
	for strings.HasPrefix(filename, "../") {
		filename = strings.TrimPrefix(filename, "../")
	}
	dir, base := path.Split(filename)
	for strings.Contains(base, VariantSeparator) {
		base = strings.ReplaceAll(base, VariantSeparator, "_")
	}
	return dir + base
}
