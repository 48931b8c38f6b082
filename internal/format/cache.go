package format

import "sync"

// Cache holds compiled specs keyed by name. The lock guards only the
// insert/lookup path; evaluation of a compiled spec takes no lock because
// all state it needs is passed as arguments.
type Cache struct {
	mu       sync.RWMutex
	compiled map[string]*Compiled
}

// NewCache creates an empty compile cache.
func NewCache() *Cache {
	return &Cache{
		compiled: make(map[string]*Compiled),
	}
}

// GetOrCompile retrieves a cached compiled spec or compiles and caches it.
// Thread-safe via RWMutex: multiple readers or single writer.
func (c *Cache) GetOrCompile(spec Spec) (*Compiled, error) {
	// Optimistic read path - the spec is likely already compiled.
	c.mu.RLock()
	compiled, found := c.compiled[spec.Name]
	c.mu.RUnlock()

	if found {
		return compiled, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring the write lock.
	if compiled, found := c.compiled[spec.Name]; found {
		return compiled, nil
	}

	compiled, err := Compile(spec)
	if err != nil {
		return nil, err
	}

	c.compiled[spec.Name] = compiled
	return compiled, nil
}

// Lookup returns a previously compiled spec by name.
func (c *Cache) Lookup(name string) (*Compiled, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	compiled, found := c.compiled[name]
	return compiled, found
}
