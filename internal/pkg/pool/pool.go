package pool

import (
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
)

// BigCache wraps bigcache behind a []byte interface.
// Serialization stays in the service layer; this layer only stores bytes,
// so cache entries add no GC pressure.
type BigCache struct {
	cache *bigcache.BigCache
}

// NewBigCache creates a bigcache instance.
// capacityMB is the hard cache size in MB.
func NewBigCache(capacityMB int, expiration time.Duration) (*BigCache, error) {
	config := bigcache.DefaultConfig(expiration)
	config.HardMaxCacheSize = capacityMB
	config.MaxEntrySize = 512 * 1024 // 512KB max entry

	cache, err := bigcache.NewBigCache(config)
	if err != nil {
		return nil, err
	}

	return &BigCache{cache: cache}, nil
}

// Get returns raw bytes; the caller deserializes.
func (c *BigCache) Get(key string) ([]byte, bool) {
	data, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores raw bytes; the caller serializes.
func (c *BigCache) Set(key string, value []byte) error {
	return c.cache.Set(key, value)
}

// Remove deletes a key
func (c *BigCache) Remove(key string) error {
	return c.cache.Delete(key)
}

// Flush clears all entries
func (c *BigCache) Flush() error {
	return c.cache.Reset()
}

// Close releases the cache
func (c *BigCache) Close() error {
	return c.cache.Close()
}

// SimpleCache map-backed L1 cache with a crude capacity bound.
// When full it drops everything rather than tracking recency; entries are
// cheap to rebuild from L2/DB and the map never grows past cap.
type SimpleCache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
	cap  int
}

// NewCache creates a SimpleCache holding at most cap entries.
func NewCache[K comparable, V any](cap int) *SimpleCache[K, V] {
	if cap <= 0 {
		cap = 1024
	}
	return &SimpleCache[K, V]{
		data: make(map[K]V, cap),
		cap:  cap,
	}
}

func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *SimpleCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) >= c.cap {
		if _, exists := c.data[key]; !exists {
			c.data = make(map[K]V, c.cap)
		}
	}
	c.data[key] = value
}

func (c *SimpleCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *SimpleCache[K, V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[K]V, c.cap)
}

// Len reports the current entry count.
func (c *SimpleCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
