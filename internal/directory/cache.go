package directory

import (
	"strings"
	"sync"
	"time"
)

// Cache holds the current code to name mapping. Replace swaps the whole
// mapping under the write lock; readers take a View and never block a sync
// for longer than the swap.
type Cache struct {
	mu         sync.RWMutex
	names      map[string]string
	keys       []string
	replacedAt time.Time
}

// View is an immutable snapshot of the cache.
type View struct {
	names map[string]string
	keys  []string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{names: map[string]string{}}
}

// Replace installs entries as the complete directory. Names are trimmed. A
// repeated code keeps its first position and a later non-empty name.
func (c *Cache) Replace(entries []Entry) {
	names := make(map[string]string, len(entries))
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		code := strings.TrimSpace(entry.Code)
		if code == "" {
			continue
		}
		name := strings.TrimSpace(entry.Name)
		if existing, ok := names[code]; ok {
			if name == "" {
				name = existing
			}
		} else {
			keys = append(keys, code)
		}
		names[code] = name
	}

	c.mu.Lock()
	c.names = names
	c.keys = keys
	c.replacedAt = time.Now()
	c.mu.Unlock()
}

// Snapshot returns the current view. The view stays valid after later
// replacements.
func (c *Cache) Snapshot() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{names: c.names, keys: c.keys}
}

// Len reports the number of codes in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keys)
}

// ReplacedAt reports when the cache was last replaced; zero when never.
func (c *Cache) ReplacedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.replacedAt
}

// Lookup returns the name for code and whether code is present.
func (v View) Lookup(code string) (string, bool) {
	name, ok := v.names[code]
	return name, ok
}

// Keys returns the codes in insertion order. Callers must not modify it.
func (v View) Keys() []string {
	return v.keys
}

// Len reports the number of codes in the view.
func (v View) Len() int {
	return len(v.keys)
}

// Entries returns a copy of the view as entries in insertion order.
func (v View) Entries() []Entry {
	out := make([]Entry, 0, len(v.keys))
	for _, code := range v.keys {
		out = append(out, Entry{Code: code, Name: v.names[code]})
	}
	return out
}
