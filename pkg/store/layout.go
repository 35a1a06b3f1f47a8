package store

import (
	"path"

	"github.com/wuxler/ruasset/pkg/asset"
)

// Layout maps keys to paths relative to a partition root.
type Layout interface {
	// Path returns the path of the key.
	Path(key asset.Key) string
	// Dir returns the directory holding the original and variants of ref.
	Dir(ref asset.Ref) string
	// Legacy reports whether different content versions of one filename
	// share the same path. A second version in the same partition is then
	// parked in the hash bucket of HashLayout.
	Legacy() bool
}

// HashLayout buckets every content version in its own directory named after
// the hash prefix: "pets/cd6357efdd/dog__Fit-bcoj0c1c64o30n8.jpg".
type HashLayout struct{}

// Path implements Layout.
func (HashLayout) Path(key asset.Key) string {
	dir, base := path.Split(key.Filename)
	return path.Join(dir, bucket(key.Hash), asset.VariantName(base, key.Variant))
}

// Dir implements Layout.
func (HashLayout) Dir(ref asset.Ref) string {
	return path.Join(path.Dir(ref.Filename), bucket(ref.Hash))
}

// Legacy implements Layout.
func (HashLayout) Legacy() bool { return false }

// LegacyLayout stores files next to each other without bucketing:
// "pets/dog__Fit-bcoj0c1c64o30n8.jpg". Only one version of a filename fits
// that name per partition.
type LegacyLayout struct{}

// Path implements Layout.
func (LegacyLayout) Path(key asset.Key) string {
	dir, base := path.Split(key.Filename)
	return path.Join(dir, asset.VariantName(base, key.Variant))
}

// Dir implements Layout.
func (LegacyLayout) Dir(ref asset.Ref) string {
	return path.Dir(ref.Filename)
}

// Legacy implements Layout.
func (LegacyLayout) Legacy() bool { return true }

// isBucket reports whether the directory name looks like a hash bucket.
func isBucket(name string) bool {
	return len(name) == asset.MinHashLength && asset.ValidHash(name)
}

func bucket(hash string) string {
	if len(hash) <= asset.MinHashLength {
		return hash
	}
	return hash[:asset.MinHashLength]
}
