package weight

import (
	"sync"

	"campus_router/pkg/graph"
	"campus_router/pkg/profile"
)

// Cache lazily builds and retains one weighted view per profile. Concurrent
// first use of the same profile triggers exactly one Build; later callers
// block on the in-progress computation and share its result.
type Cache struct {
	g       *graph.Graph
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	wg   *Graph
}

// NewCache creates a cache over the given path graph.
func NewCache(g *graph.Graph) *Cache {
	return &Cache{g: g, entries: make(map[string]*cacheEntry)}
}

// Get returns the weighted view for p, building it on first use.
func (c *Cache) Get(p *profile.Profile) *Graph {
	c.mu.Lock()
	e, ok := c.entries[p.Name]
	if !ok {
		e = &cacheEntry{}
		c.entries[p.Name] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.wg = Build(c.g, p)
	})
	return e.wg
}
