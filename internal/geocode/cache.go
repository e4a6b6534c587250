package geocode

import (
	"fmt"
	"sync"
)

// Key builds the canonical cache/lookup query for a city and country.
func Key(city, country string) string {
	return fmt.Sprintf("%s, %s", city, country)
}

// Cache holds lookup results for the lifetime of the process. Failed
// lookups are stored as negative entries so the same query is never
// sent to the provider twice.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Location // nil value = known miss
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Location)}
}

// Get returns the cached location for query. ok reports whether the
// query has been seen before; loc is nil for negative entries.
func (c *Cache) Get(query string) (loc *Location, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok = c.entries[query]
	return loc, ok
}

// Put stores a successful lookup.
func (c *Cache) Put(query string, loc Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = &loc
}

// PutMiss stores a negative entry for a query that could not be resolved.
func (c *Cache) PutMiss(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = nil
}

// Len returns the number of cached entries, negative entries included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
