package texture

import (
	"image"
	"sync"

	"mu-bmd-blender/internal/log"
)

// Resolver resolves a mesh texture reference to a decoded image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Render workers share one.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA // path → image, nil if decoding failed
	index *Index
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found or
// undecodable; failures are logged once per file.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	loaded, err := LoadTexture(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if img, exists := c.items[path]; exists {
		return img
	}
	if err != nil {
		log.Warn("texture unavailable", "name", texName, "err", err)
	}
	c.items[path] = loaded
	return loaded
}

// Len returns the number of cached paths, failed loads included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
