// Package xcache provides small generic key-value caches shared between
// goroutines.
package xcache

import (
	"context"
	"time"
)

// Cache is a key-value cache safe for concurrent use.
type Cache[T any] interface {
	// Get returns the value of the key.
	Get(ctx context.Context, key string, options ...Option[T]) (T, bool)
	// Set saves the value of the key.
	Set(ctx context.Context, key string, value T, options ...Option[T])
	// Delete removes the value of the key.
	Delete(ctx context.Context, key string)
	// Clear removes all the values.
	Clear(ctx context.Context)
}

// ValueLoader is a function that loads the value of the key.
type ValueLoader[T any] func(ctx context.Context, key string) (T, bool)

// Option is a function that sets options.
type Option[T any] func(*Options[T])

// Options is the options for Get or Set.
type Options[T any] struct {
	// Loader is called on Get when the key is missing. Values loaded
	// successfully are stored with TTL.
	Loader ValueLoader[T]
	// TTL overrides the default expiration of the value stored. Values with
	// a non-positive TTL are not stored at all.
	TTL *time.Duration
}

// WithLoader sets the value loader if not found.
func WithLoader[T any](loader ValueLoader[T]) Option[T] {
	return func(o *Options[T]) {
		o.Loader = loader
	}
}

// WithTTL sets the expiration of the value stored.
func WithTTL[T any](ttl time.Duration) Option[T] {
	return func(o *Options[T]) {
		o.TTL = &ttl
	}
}

// MakeOptions returns a new options.
func MakeOptions[T any](options ...Option[T]) *Options[T] {
	o := &Options[T]{}
	for _, apply := range options {
		apply(o)
	}
	if o.Loader == nil {
		o.Loader = func(_ context.Context, key string) (T, bool) {
			return zero[T](), false
		}
	}
	return o
}

// zero returns the zero value of T.
func zero[T any]() T {
	var v T
	return v
}

// ttlOr returns the TTL option or the fallback if unset.
func (o *Options[T]) ttlOr(fallback time.Duration) time.Duration {
	if o.TTL == nil {
		return fallback
	}
	return *o.TTL
}
