// Package store provides the content-addressed asset store with its public
// and protected partitions.
package store

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/errdefs"
)

//go:generate mockgen -destination=./mocks/mock_store.go -package=mocks github.com/wuxler/ruasset/pkg/store Store

// Store is the contract of an asset store. Every mutation of (filename, hash)
// applies to the original and all of its variants together.
type Store interface {
	// Write stores the content under filename and returns the key it was
	// stored as, which may differ from the request depending on the
	// conflict policy.
	Write(ctx context.Context, r io.Reader, filename string, options ...WriteOption) (asset.Key, error)
	// Read opens the stored bytes of the key.
	Read(ctx context.Context, key asset.Key) (io.ReadCloser, error)
	// Stat returns the information of the stored key.
	Stat(ctx context.Context, key asset.Key) (Info, error)
	// Exists reports whether the key is stored in any partition.
	Exists(ctx context.Context, key asset.Key) (bool, error)
	// Visibility returns the partition holding the original.
	Visibility(ctx context.Context, filename, hash string) (asset.Visibility, error)

	// Delete removes the original and all variants. Deleting absent content
	// is a no-op.
	Delete(ctx context.Context, filename, hash string) error
	// Publish moves the content into the public partition.
	Publish(ctx context.Context, filename, hash string) error
	// Protect moves the content into the protected partition.
	Protect(ctx context.Context, filename, hash string) error
	// SwapPublish publishes the content and protects every other content
	// version public under the same filename in one step.
	SwapPublish(ctx context.Context, filename, hash string) error
	// Rename moves the content to newFilename and returns the filename it
	// was finally stored as.
	Rename(ctx context.Context, filename, hash, newFilename string) (string, error)
	// Copy copies the content to newFilename and returns the filename it was
	// finally stored as.
	Copy(ctx context.Context, filename, hash, newFilename string) (string, error)

	// Grant allows the session of ctx to view protected content.
	Grant(ctx context.Context, filename, hash string) error
	// Revoke removes the grant of the session of ctx.
	Revoke(ctx context.Context, filename, hash string) error
	// CanView reports whether the session of ctx may view the content.
	CanView(ctx context.Context, filename, hash string) (bool, error)
}

// Info describes one stored artifact.
type Info struct {
	Key        asset.Key        `json:"key" yaml:"key"`
	Size       int64            `json:"size" yaml:"size"`
	ModTime    time.Time        `json:"mod_time" yaml:"mod_time"`
	Visibility asset.Visibility `json:"visibility" yaml:"visibility"`
}

// ConflictPolicy selects how Write resolves a filename already holding
// different content.
type ConflictPolicy int

const (
	// ConflictDefault lets the store pick the policy of its layout.
	ConflictDefault ConflictPolicy = iota
	// ConflictOverwrite replaces the stored content.
	ConflictOverwrite
	// ConflictRename stores the content under "name-vN.ext".
	ConflictRename
	// ConflictUseExisting keeps the stored content and returns its key.
	ConflictUseExisting
	// ConflictException fails with errdefs.ErrConflict.
	ConflictException
)

// String implements fmt.Stringer.
func (p ConflictPolicy) String() string {
	switch p {
	case ConflictDefault:
		return "default"
	case ConflictOverwrite:
		return "overwrite"
	case ConflictRename:
		return "rename"
	case ConflictUseExisting:
		return "use-existing"
	case ConflictException:
		return "exception"
	}
	return fmt.Sprintf("conflict(%d)", int(p))
}

// ParseConflictPolicy parses the String form of a ConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	for _, p := range []ConflictPolicy{ConflictDefault, ConflictOverwrite, ConflictRename, ConflictUseExisting, ConflictException} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return ConflictDefault, errdefs.Newf(errdefs.ErrInvalidParameter, "unknown conflict policy %q", s)
}

// WriteOption configures a Write call.
type WriteOption func(*WriteOptions)

// WriteOptions are the options of a Write call.
type WriteOptions struct {
	// Hash of the original. Required for variants, computed from the content
	// for originals when empty.
	Hash string
	// Variant to write, empty for originals.
	Variant string
	// Conflict policy, see ConflictPolicy.
	Conflict ConflictPolicy
	// Visibility of new originals. Zero value uses the store default.
	Visibility asset.Visibility
}

// WithHash sets the hash of the original.
func WithHash(hash string) WriteOption {
	return func(o *WriteOptions) { o.Hash = hash }
}

// WithVariant writes a variant of the original.
func WithVariant(variant string) WriteOption {
	return func(o *WriteOptions) { o.Variant = variant }
}

// WithConflict sets the conflict policy.
func WithConflict(policy ConflictPolicy) WriteOption {
	return func(o *WriteOptions) { o.Conflict = policy }
}

// WithVisibility sets the partition new originals are written to.
func WithVisibility(v asset.Visibility) WriteOption {
	return func(o *WriteOptions) { o.Visibility = v }
}

// MakeWriteOptions applies the options.
func MakeWriteOptions(options ...WriteOption) *WriteOptions {
	o := &WriteOptions{}
	for _, apply := range options {
		apply(o)
	}
	return o
}
