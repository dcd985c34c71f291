package sessionbridge

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

// MemoryCache is an in-process cache with per-key expiry. It is only
// shared between hostnames served by the same process.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

var (
	_ interfaces.CacheProvider = (*MemoryCache)(nil)
	_ interfaces.TakingCache   = (*MemoryCache)(nil)
)

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key), nil
}

// Take returns the live value under key and removes it.
func (c *MemoryCache) Take(_ context.Context, key string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value := c.lookup(key)
	delete(c.entries, key)
	return value, nil
}

// lookup drops expired entries. Callers hold mu.
func (c *MemoryCache) lookup(key string) any {
	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	return entry.value
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == nil {
		delete(c.entries, key)
		return nil
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = entry
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
