package cache

import (
	"reflect"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

var nopLogger = zap.NewNop()

// entry is either permanent or expiring. It is never modified once stored.
type entry[V any] struct {
	value     V
	expiring  bool
	createdAt int64 // unix millis
	ttl       int64 // millis
}

func (e *entry[V]) expiredAt(now int64) bool {
	return now-e.createdAt >= e.ttl
}

// AgedCache is an in-memory key-value store whose entries are either
// permanent or expire after a fixed retention. Expired entries are removed
// lazily: Put, Size and IsEmpty sweep the whole store, Get only checks the
// key it looks up. There is no background janitor.
//
// Keys whose dynamic value is not hashable (a slice inside an interface key,
// for example) are rejected by Put and never found by Get.
//
// AgedCache is not safe for concurrent use; see Synchronized.
type AgedCache[K comparable, V any] struct {
	clock   Clock
	logger  *zap.Logger
	entries *orderedmap.OrderedMap[K, *entry[V]]
}

// Option configures an AgedCache.
type Option func(*options)

type options struct {
	clock  Clock
	logger *zap.Logger
}

// WithClock sets the clock used for expiration. A nil clock keeps the
// default SystemClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets a logger for eviction debug messages.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an empty AgedCache.
func New[K comparable, V any](opts ...Option) *AgedCache[K, V] {
	o := options{clock: SystemClock{}, logger: nopLogger}
	for _, opt := range opts {
		opt(&o)
	}
	return &AgedCache[K, V]{
		clock:   o.clock,
		logger:  o.logger,
		entries: orderedmap.New[K, *entry[V]](),
	}
}

// Put implements Store.Put.
//
// Expired entries are swept first, so a key whose previous entry has expired
// can be inserted again. Put fails with an *InvalidArgumentError when key or
// value is nil or key is not hashable, and with a *DuplicateKeyError when key
// is still live. On failure nothing but the sweep has happened.
func (c *AgedCache[K, V]) Put(key K, value V, retention time.Duration) error {
	c.removeExpired()

	if isNil(key) || !hashable(key) {
		return &InvalidArgumentError{Field: "key"}
	}
	if isNil(value) {
		return &InvalidArgumentError{Field: "value"}
	}
	if _, ok := c.entries.Get(key); ok {
		return &DuplicateKeyError{Key: key}
	}

	e := &entry[V]{value: value}
	if retention != 0 {
		e.expiring = true
		e.createdAt = millis(c.clock)
		e.ttl = retentionMillis(retention)
	}
	c.entries.Set(key, e)
	return nil
}

// Get implements Store.Get.
func (c *AgedCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if !hashable(key) {
		return zero, false
	}
	e, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	if e.expiring && e.expiredAt(millis(c.clock)) {
		c.entries.Delete(key)
		c.logger.Debug("evicted expired entry on lookup", zap.Any("key", key))
		return zero, false
	}
	return e.value, true
}

// Size implements Store.Size.
func (c *AgedCache[K, V]) Size() int {
	c.removeExpired()
	return c.entries.Len()
}

// IsEmpty implements Store.IsEmpty.
func (c *AgedCache[K, V]) IsEmpty() bool {
	return c.Size() == 0
}

// removeExpired walks entries oldest first and drops every expired one.
// The clock is read once per expiring entry.
func (c *AgedCache[K, V]) removeExpired() {
	removed := 0
	for pair := c.entries.Oldest(); pair != nil; {
		next := pair.Next()
		if pair.Value.expiring && pair.Value.expiredAt(millis(c.clock)) {
			c.entries.Delete(pair.Key)
			removed++
		}
		pair = next
	}
	if removed > 0 {
		c.logger.Debug("swept expired entries", zap.Int("removed", removed), zap.Int("live", c.entries.Len()))
	}
}

// retentionMillis converts a non-zero retention to whole milliseconds,
// rounding sub-millisecond values away from zero so they stay expiring.
func retentionMillis(d time.Duration) int64 {
	ms := d.Milliseconds()
	switch {
	case ms == 0 && d > 0:
		return 1
	case ms == 0 && d < 0:
		return -1
	}
	return ms
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// hashable reports whether k can be used as a map key without panicking.
// Only interface-typed parts of K can hold unhashable values.
func hashable(k any) bool {
	if k == nil {
		return true
	}
	return reflect.ValueOf(k).Comparable()
}

var _ Store[string, any] = (*AgedCache[string, any])(nil)
