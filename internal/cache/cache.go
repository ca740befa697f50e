package cache

import (
	"sync"
	"sync/atomic"
)

// Cache maps fingerprints to compiled values. Each key is compiled at most
// once; failed compilations are remembered and returned on every later
// lookup. Entries are never evicted: the key space of fixed-function
// fingerprints is small.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*cacheEntry[V]

	hits     atomic.Uint64
	compiles atomic.Uint64
	failures atomic.Uint64
}

// cacheEntry holds a compiled value or the error its compilation returned.
type cacheEntry[V any] struct {
	value V
	err   error
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*cacheEntry[V]),
	}
}

// Get retrieves a compiled value without compiling.
// Returns (value, true) if a successful entry exists, (zero, false)
// otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.err != nil {
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return entry.value, true
}

// GetOrCompile returns the cached value for key, compiling it on a miss.
//
// Hits take only the read lock. A miss takes the write lock, checks again
// and compiles under it, so concurrent callers of the same key wait for a
// single compilation. An error from compile is stored with the key and
// returned without calling compile again until Clear.
func (c *Cache[K, V]) GetOrCompile(key K, compile func() (V, error)) (V, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return entry.value, entry.err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have compiled it while we waited.
	if entry, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return entry.value, entry.err
	}

	value, err := compile()
	c.compiles.Add(1)
	if err != nil {
		c.failures.Add(1)
		var zero V
		value = zero
	}
	c.entries[key] = &cacheEntry[V]{value: value, err: err}
	return value, err
}

// Clear removes all entries from the cache. Counters are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*cacheEntry[V])
}

// Len returns the number of entries in the cache, failures included.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:      c.Len(),
		Hits:     c.hits.Load(),
		Compiles: c.compiles.Load(),
		Failures: c.failures.Load(),
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Hits is the number of lookups served from an existing entry.
	Hits uint64
	// Compiles is the number of times a compile function ran.
	Compiles uint64
	// Failures is the number of compilations that returned an error.
	Failures uint64
}
