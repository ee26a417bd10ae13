package cache

import "time"

// NoExpiration marks an entry that never expires, used for
// last-known-good snapshots kept as a stale fallback.
const NoExpiration time.Duration = -1

// Cache is a byte-oriented cache with per-entry TTL.
// Entries are replaced atomically on Set, never mutated in place.
type Cache interface {
	// Get retrieves data for the given keys.
	//
	// Returns:
	// - map[string][]byte: key->data map for found keys
	// - []string: list of missing keys
	// - error: execution error
	Get(keys []string) (map[string][]byte, []string, error)

	// Set stores data in cache with the specified TTL.
	// If ttl is 0, the cache's default expiration is used.
	Set(data map[string][]byte, ttl time.Duration) error

	// GetOne retrieves a single entry, reporting whether it was found
	GetOne(key string) ([]byte, bool)

	// SetOne stores a single entry with the specified TTL
	SetOne(key string, data []byte, ttl time.Duration) error

	// Delete removes entries by keys
	Delete(keys []string)
}
