package asset

import (
	"fmt"
	"image"
	"sync"
)

// Resolver resolves an asset ID or name to a decoded image.
type Resolver interface {
	Resolve(key string) (*image.NRGBA, error)
}

// Cache is a concurrency-safe decoded-image cache over an Index.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
	load  func(string) (*image.NRGBA, error)
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
		load:  Load,
	}
}

// Resolve loads and caches an image by asset ID or name. Decode failures are
// cached too, so a broken file is read only once.
func (c *Cache) Resolve(key string) (*image.NRGBA, error) {
	e, ok := c.index.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("asset: %q not indexed", key)
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[e.ID]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := c.load(e.Path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[e.ID]; exists {
		return entry.img, entry.err
	}
	c.items[e.ID] = &cacheEntry{img: img, err: err}
	return img, err
}

// Index returns the backing index.
func (c *Cache) Index() *Index {
	return c.index
}
