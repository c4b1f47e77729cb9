package lookup

import (
	"context"
	"slices"
	"sync"

	"github.com/dgallion1/sententia/internal/morph"
)

// Cache memoizes answers per word form, including "unknown". Failures are
// not cached so a later analysis can retry them.
type Cache struct {
	next Lookup

	mu      sync.RWMutex
	entries map[string][]morph.CandidateParse
	hits    int
	misses  int
}

func NewCache(next Lookup) *Cache {
	return &Cache{next: next, entries: make(map[string][]morph.CandidateParse)}
}

func (c *Cache) Lookup(ctx context.Context, word string) ([]morph.CandidateParse, error) {
	c.mu.RLock()
	ps, ok := c.entries[word]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return slices.Clone(ps), nil
	}

	ps, err := c.next.Lookup(ctx, word)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.misses++
	if err != nil {
		return nil, err
	}
	c.entries[word] = ps
	return slices.Clone(ps), nil
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheStats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
