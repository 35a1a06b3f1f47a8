// Package backend produces the bytes of asset variants.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wuxler/ruasset/pkg/asset"
)

var (
	// ErrNotApplicable is returned when a manipulation does not apply to the
	// source, like resizing a PDF.
	ErrNotApplicable = errors.New("manipulation not applicable")
	// ErrSuppressed is wrapped by failures returned while a previous failure
	// of the same variant is cooling down.
	ErrSuppressed = errors.New("manipulation suppressed after recent failure")
)

//go:generate mockgen -destination=./mocks/mock_backend.go -package=mocks github.com/wuxler/ruasset/pkg/backend Backend

// Backend transforms the bytes of an asset into the bytes of one of its
// variants. Implementations must be deterministic for the same source,
// operation and arguments.
type Backend interface {
	// Produce applies the operation to the source. It returns
	// ErrNotApplicable when the operation does not apply, or a *Failure.
	Produce(ctx context.Context, src Source, op string, args []any) ([]byte, error)
	// Dimensions returns the metadata of the source, cached per
	// (hash, variant).
	Dimensions(ctx context.Context, src Source) (Dimensions, bool)
	// IsNoop reports whether applying the operation would leave the source
	// unchanged.
	IsNoop(ctx context.Context, src Source, op string, args []any) bool
	// Flush clears the failure memo and the dimension cache.
	Flush(ctx context.Context)
}

// Source is the input of a manipulation.
type Source struct {
	// Key of the artifact the manipulation starts from, either an original
	// or a variant.
	Key asset.Key
	// Open opens the bytes of the artifact.
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// Dimensions is the cheap to query metadata of an image.
type Dimensions struct {
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Format string `json:"format" yaml:"format"`
}

// String implements fmt.Stringer.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d %s", d.Width, d.Height, d.Format)
}

// Reason classifies a failed manipulation.
type Reason int

const (
	// InvalidSource means the source is not a valid instance of its media
	// type. Never memoized.
	InvalidSource Reason = iota + 1
	// MissingSource means the source could not be opened. Memoized with an
	// escalating cooldown.
	MissingSource
	// UnknownError is any other failure. Memoized with a fixed cooldown.
	UnknownError
)

// String implements fmt.Stringer.
func (r Reason) String() string {
	switch r {
	case InvalidSource:
		return "invalid source"
	case MissingSource:
		return "missing source"
	case UnknownError:
		return "unknown error"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Failure is the error of a failed manipulation.
type Failure struct {
	// Key is the key of the variant that failed.
	Key    asset.Key
	Reason Reason
	// Until is the end of the cooldown, zero when not memoized.
	Until time.Time
	Err   error
}

// Error implements error.
func (f *Failure) Error() string {
	return fmt.Sprintf("manipulate %s: %s: %v", f.Key, f.Reason, f.Err)
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure returns the *Failure in the error chain.
func AsFailure(err error) (*Failure, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}
