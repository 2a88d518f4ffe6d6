package memory

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/f2expert/f2expert-sub001/domain/ports"
)

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// Cache is a process-local ports.CachePort used when no Redis URL is set.
// Values are stored as JSON so callers see the same decoding as with Redis.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: map[string]cacheEntry{}}
}

func (c *Cache) GetJSON(ctx context.Context, key string, target any) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
		return ports.ErrCacheMiss
	}
	return json.Unmarshal(entry.data, target)
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := cacheEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

// DeletePattern matches keys with path.Match, which shares Redis's
// "*" and "?" globs for keys without slashes.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return nil
}

func (c *Cache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key = "lock:" + key
	if entry, ok := c.entries[key]; ok && (entry.expiresAt.IsZero() || time.Now().Before(entry.expiresAt)) {
		return false, nil
	}
	c.entries[key] = cacheEntry{data: []byte("1"), expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (c *Cache) ReleaseLock(ctx context.Context, key string) error {
	return c.Delete(ctx, "lock:"+key)
}
