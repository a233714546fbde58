package cache

import "time"

// Store is the contract shared by AgedCache and its synchronized wrapper.
// There is no delete, update or enumeration: entries leave the store only
// by expiring.
type Store[K comparable, V any] interface {
	// Put sweeps expired entries and inserts value under key. A retention of
	// zero stores a permanent entry; any other retention stores an entry that
	// expires once that much time has elapsed since insertion.
	Put(key K, value V, retention time.Duration) error

	// Get returns the value and whether it was present and live. Only the
	// looked-up key is checked for expiration.
	Get(key K) (V, bool)

	// Size sweeps expired entries and returns the number of live entries.
	Size() int

	// IsEmpty reports whether Size() == 0.
	IsEmpty() bool
}
