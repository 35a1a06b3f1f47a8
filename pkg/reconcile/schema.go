package reconcile

import (
	"sync"

	"github.com/samber/lo"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/errdefs"
)

// FieldAccessor reads the assets referenced by one field of a record.
type FieldAccessor struct {
	// Name of the field, for diagnostics.
	Name string
	// Assets returns the containers held by the field of rec.
	Assets func(rec Record) []asset.Container
}

// TypeDescriptor declares the asset fields of a record type.
type TypeDescriptor struct {
	Name   string
	Fields []FieldAccessor
	// ArchiveAssetsOnDelete protects assets of deleted versioned records
	// instead of deleting them.
	ArchiveAssetsOnDelete bool
}

// Schema is the registry of record types owning assets.
type Schema struct {
	mu    sync.RWMutex
	types map[string]TypeDescriptor
}

// NewSchema returns a schema with the types registered.
func NewSchema(types ...TypeDescriptor) (*Schema, error) {
	s := &Schema{types: map[string]TypeDescriptor{}}
	for _, t := range types {
		if err := s.Register(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds the record type.
func (s *Schema) Register(t TypeDescriptor) error {
	if t.Name == "" {
		return errdefs.Newf(errdefs.ErrInvalidParameter, "record type without name")
	}
	for _, f := range t.Fields {
		if f.Assets == nil {
			return errdefs.Newf(errdefs.ErrInvalidParameter, "field %s.%s without accessor", t.Name, f.Name)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[t.Name]; ok {
		return errdefs.Newf(errdefs.ErrAlreadyExists, "record type %s", t.Name)
	}
	s.types[t.Name] = t
	return nil
}

// Lookup returns the descriptor of the record type.
func (s *Schema) Lookup(name string) (TypeDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[name]
	return t, ok
}

// HasAssetFields reports whether the record type declares asset fields.
func (s *Schema) HasAssetFields(rec Record) bool {
	t, ok := s.Lookup(rec.RecordType())
	return ok && len(t.Fields) > 0
}

// ArchiveAssetsOnDelete reports the archive policy of the record type.
func (s *Schema) ArchiveAssetsOnDelete(rec Record) bool {
	t, ok := s.Lookup(rec.RecordType())
	return ok && t.ArchiveAssetsOnDelete
}

// AssetRefs returns the distinct content versions referenced by the record,
// ignoring variants and empty fields.
func (s *Schema) AssetRefs(rec Record) []asset.Ref {
	if rec == nil {
		return nil
	}
	t, ok := s.Lookup(rec.RecordType())
	if !ok {
		return nil
	}
	var refs []asset.Ref
	for _, f := range t.Fields {
		for _, c := range f.Assets(rec) {
			if c == nil {
				continue
			}
			if key := c.AssetKey(); !key.IsZero() {
				refs = append(refs, key.Ref())
			}
		}
	}
	return lo.Uniq(refs)
}
