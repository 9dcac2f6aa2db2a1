package analytics

import (
	"context"
	"sync"
	"time"
)

// Cache stores widget data by request cache key.
type Cache interface {
	Get(ctx context.Context, key string) (WidgetData, bool)
	Set(ctx context.Context, key string, data WidgetData, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// MemoryCache is an in-process TTL cache that evicts the least recently used entry when full.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*cacheItem
	maxSize int
	now     func() time.Time
}

type cacheItem struct {
	value      WidgetData
	expiration time.Time
	accessTime time.Time
}

func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryCache{
		items:   make(map[string]*cacheItem),
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (WidgetData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return WidgetData{}, false
	}
	now := c.now()
	if now.After(item.expiration) {
		delete(c.items, key)
		return WidgetData{}, false
	}
	item.accessTime = now
	return item.value, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, data WidgetData, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictLRU()
	}
	now := c.now()
	c.items[key] = &cacheItem{value: data, expiration: now.Add(ttl), accessTime: now}
}

func (c *MemoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge drops expired entries. It is run periodically by the scheduler.
func (c *MemoryCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.expiration) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

func (c *MemoryCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range c.items {
		if oldestKey == "" || item.accessTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.accessTime
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
