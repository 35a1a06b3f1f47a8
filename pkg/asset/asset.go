// Package asset defines the identity of stored assets and their derived
// variants.
package asset

import "fmt"

// Key names one physical artifact: the content version Hash of the logical
// file Filename, optionally narrowed to a derived Variant. An empty Variant
// means the original bytes.
type Key struct {
	Filename string `json:"filename" yaml:"filename"`
	Hash     string `json:"hash" yaml:"hash"`
	Variant  string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

// NewKey is a shortcut to build a Key.
func NewKey(filename, hash, variant string) Key {
	return Key{Filename: filename, Hash: hash, Variant: variant}
}

// IsZero reports whether the key carries no physical content.
func (k Key) IsZero() bool {
	return k.Filename == "" || k.Hash == ""
}

// IsVariant reports whether the key names a derived artifact.
func (k Key) IsVariant() bool {
	return k.Variant != ""
}

// Original returns the key of the original artifact.
func (k Key) Original() Key {
	return Key{Filename: k.Filename, Hash: k.Hash}
}

// Ref returns the (filename, hash) pair shared by the original and all of
// its variants.
func (k Key) Ref() Ref {
	return Ref{Filename: k.Filename, Hash: k.Hash}
}

// WithVariant returns a copy of the key pointing at variant.
func (k Key) WithVariant(variant string) Key {
	k.Variant = variant
	return k
}

// String returns the key ID, or a debug form if the key is not valid.
func (k Key) String() string {
	id, err := BuildKey(k.Filename, k.Hash, k.Variant)
	if err != nil {
		return fmt.Sprintf("%s@%s#%s", k.Filename, k.Hash, k.Variant)
	}
	return id
}

// Ref identifies one content version of a logical file, ignoring variants.
type Ref struct {
	Filename string `json:"filename" yaml:"filename"`
	Hash     string `json:"hash" yaml:"hash"`
}

// Key returns the key of the original artifact.
func (r Ref) Key() Key {
	return Key{Filename: r.Filename, Hash: r.Hash}
}

// String returns "filename@hash".
func (r Ref) String() string {
	return r.Filename + "@" + r.Hash
}

// Container is implemented by everything that refers to one stored artifact,
// like records' file fields or derived variants.
type Container interface {
	// AssetKey returns the key of the artifact held by the container.
	AssetKey() Key
}

// KeyContainer adapts a plain Key to Container.
type KeyContainer Key

// AssetKey implements Container.
func (k KeyContainer) AssetKey() Key {
	return Key(k)
}
