// Package xlock provides read-write locks addressed by string keys.
package xlock

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Keyed hands out one *sync.RWMutex per key. Locks are created lazily and
// kept for the lifetime of the Keyed.
type Keyed struct {
	locks *xsync.MapOf[string, *sync.RWMutex]
}

// NewKeyed returns an empty Keyed lock set.
func NewKeyed() *Keyed {
	return &Keyed{locks: xsync.NewMapOf[string, *sync.RWMutex]()}
}

func (k *Keyed) get(key string) *sync.RWMutex {
	mu, _ := k.locks.LoadOrCompute(key, func() *sync.RWMutex {
		return &sync.RWMutex{}
	})
	return mu
}

// Lock acquires the write lock of key and returns the unlock function.
func (k *Keyed) Lock(key string) (unlock func()) {
	mu := k.get(key)
	mu.Lock()
	return mu.Unlock
}

// RLock acquires the read lock of key and returns the unlock function.
func (k *Keyed) RLock(key string) (unlock func()) {
	mu := k.get(key)
	mu.RLock()
	return mu.RUnlock
}

// Size returns the number of keys ever locked.
func (k *Keyed) Size() int {
	return k.locks.Size()
}
