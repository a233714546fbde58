package cache

import (
	"sync"
	"time"
)

// Synchronized guards a single AgedCache with one mutex so it can be shared
// between goroutines. Every operation may mutate the store (Get can evict),
// so there is no read lock.
type Synchronized[K comparable, V any] struct {
	mu    sync.Mutex
	inner *AgedCache[K, V]
}

// NewSynchronized constructs an AgedCache with opts and wraps it.
func NewSynchronized[K comparable, V any](opts ...Option) *Synchronized[K, V] {
	return &Synchronized[K, V]{inner: New[K, V](opts...)}
}

func (s *Synchronized[K, V]) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Put implements Store.Put.
func (s *Synchronized[K, V]) Put(key K, value V, retention time.Duration) error {
	unlock := s.lock()
	defer unlock()
	return s.inner.Put(key, value, retention)
}

// Get implements Store.Get.
func (s *Synchronized[K, V]) Get(key K) (V, bool) {
	unlock := s.lock()
	defer unlock()
	return s.inner.Get(key)
}

// Size implements Store.Size.
func (s *Synchronized[K, V]) Size() int {
	unlock := s.lock()
	defer unlock()
	return s.inner.Size()
}

// IsEmpty implements Store.IsEmpty.
func (s *Synchronized[K, V]) IsEmpty() bool {
	unlock := s.lock()
	defer unlock()
	return s.inner.IsEmpty()
}

// Ensure Synchronized implements Store at compile time.
var _ Store[any, any] = (*Synchronized[any, any])(nil)
