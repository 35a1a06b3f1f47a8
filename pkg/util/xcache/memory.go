package xcache

import (
	"context"
	"math"
	"time"

	"github.com/maypok86/otter"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the expiration used by NewMemory.
const DefaultTTL = time.Hour

// NewMemory returns a new cache implementation based on memory.
func NewMemory[T any]() Cache[T] {
	return NewMemoryWithTTL[T](DefaultTTL)
}

// NewMemoryWithTTL returns a new memory cache whose values expire after ttl
// unless overridden per Set with WithTTL.
func NewMemoryWithTTL[T any](ttl time.Duration) Cache[T] {
	capacity := math.MaxInt

	cache, err := otter.MustBuilder[string, T](capacity).
		WithVariableTTL().
		Build()
	if err != nil {
		panic(err)
	}
	return &memoryCacheImpl[T]{
		cache: cache,
		ttl:   ttl,
	}
}

type memoryCacheImpl[T any] struct {
	cache     otter.CacheWithVariableTTL[string, T]
	ttl       time.Duration
	loadGroup singleflight.Group
}

type loadResult[T any] struct {
	value T
	ok    bool
}

// Get returns the value of the key, calling the loader once for concurrent
// misses of the same key.
func (s *memoryCacheImpl[T]) Get(ctx context.Context, key string, options ...Option[T]) (T, bool) {
	o := MakeOptions(options...)
	v, ok := s.cache.Get(key)
	if ok {
		return v, true
	}
	loaded, _, _ := s.loadGroup.Do(key, func() (interface{}, error) {
		value, ok := o.Loader(ctx, key)
		if ok {
			s.set(key, value, o.ttlOr(s.ttl))
		}
		return loadResult[T]{value: value, ok: ok}, nil
	})
	result := loaded.(loadResult[T])
	if !result.ok {
		return zero[T](), false
	}
	return result.value, true
}

// Set saves the value of the key.
func (s *memoryCacheImpl[T]) Set(_ context.Context, key string, value T, options ...Option[T]) {
	o := MakeOptions(options...)
	s.set(key, value, o.ttlOr(s.ttl))
}

func (s *memoryCacheImpl[T]) set(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		s.cache.Delete(key)
		return
	}
	s.cache.Set(key, value, ttl)
}

// Delete removes the value of the key.
func (s *memoryCacheImpl[T]) Delete(_ context.Context, key string) {
	s.cache.Delete(key)
}

// Clear removes all the values.
func (s *memoryCacheImpl[T]) Clear(_ context.Context) {
	s.cache.Clear()
}
