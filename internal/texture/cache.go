package texture

import (
	"os"
	"sync"

	"mesh-tga-renderer/internal/tga"
)

// Resolver resolves a texture name to a decoded image, or nil.
// Returned images are shared and must not be modified.
type Resolver interface {
	Resolve(texName string) *tga.Image
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *tga.Image
	err error
}

// NewCache creates a texture cache. With a nil index, names are used as
// file paths directly.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve finds a texture by name through the index, falling back to the
// name as a path. Returns nil if it cannot be loaded.
func (c *Cache) Resolve(texName string) *tga.Image {
	path := texName
	if c.index != nil {
		if p, ok := c.index.ResolvePath(texName); ok {
			path = p
		}
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	img, _ := c.Load(path)
	return img
}

// Load decodes path once and returns the cached result, error included,
// on every later call.
func (c *Cache) Load(path string) (*tga.Image, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	img, err := Load(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

// Len returns the number of cached entries, failures included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
