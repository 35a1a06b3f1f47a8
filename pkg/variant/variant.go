// Package variant derives variants of stored assets on demand.
package variant

import (
	"github.com/wuxler/ruasset/pkg/asset"
)

// Variant is a derived artifact holding a back-reference to the container it
// was derived from. It is itself a container so manipulations chain.
type Variant struct {
	Key      asset.Key
	Original asset.Container
}

var _ asset.Container = (*Variant)(nil)

// AssetKey implements asset.Container.
func (v *Variant) AssetKey() asset.Key {
	return v.Key
}

// Root returns the first container of the chain that is not a variant.
func (v *Variant) Root() asset.Container {
	var c asset.Container = v
	for {
		parent, ok := c.(*Variant)
		if !ok || parent.Original == nil {
			return c
		}
		c = parent.Original
	}
}

// String implements fmt.Stringer.
func (v *Variant) String() string {
	return v.Key.String()
}
