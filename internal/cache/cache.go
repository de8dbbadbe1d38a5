// Package cache provides tag-keyed read-through caching for query
// results. There is no TTL: entries live until a mutation invalidates
// their tag, so correctness depends entirely on writers invalidating
// the right tags.
package cache

import "sync"

// Cache stores one value per tag. A tag names a query result set, e.g.
// "orders" or "pendingOrders".
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]T)}
}

// Get retrieves the cached value for a tag.
func (c *Cache[T]) Get(tag string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[tag]
	return v, ok
}

// Set stores a value under a tag.
func (c *Cache[T]) Set(tag string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tag] = data
}

// Invalidate drops the entry for a tag, if any.
func (c *Cache[T]) Invalidate(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tag)
}

// Clear drops every entry.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]T)
}

// Size returns the number of cached entries.
func (c *Cache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Registry fans invalidation out to typed caches by tag name, so that
// mutation code (and the HTTP tags parameter) can invalidate without
// knowing which cache holds a tag.
type Registry struct {
	mu    sync.Mutex
	hooks map[string][]func()
}

func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string][]func())}
}

// Register adds an invalidation hook for a tag.
func (r *Registry) Register(tag string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[tag] = append(r.hooks[tag], fn)
}

// Invalidate runs the hooks for each named tag. Unknown tags are
// ignored.
func (r *Registry) Invalidate(tags ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tag := range tags {
		for _, fn := range r.hooks[tag] {
			fn()
		}
	}
}

// Bind clears the whole typed cache whenever any of the tags fires. A
// typed cache may key entries however it likes (e.g. one entry per
// month), so tag invalidation cannot target individual keys.
func Bind[T any](r *Registry, c *Cache[T], tags ...string) {
	for _, tag := range tags {
		r.Register(tag, c.Clear)
	}
}
