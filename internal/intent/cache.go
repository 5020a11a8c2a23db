package intent

import (
	"sync"

	"github.com/aura-assist/aura-backend/internal/types"
)

const cacheKeyMaxLen = 50

// resultCache is a small bounded cache of classification results keyed by the
// cleaned transcript. When full, the oldest entry is evicted. A single mutex
// guards it; the critical sections are map lookups, so contention is not a
// concern at this size.
type resultCache struct {
	mu      sync.Mutex
	maxSize int
	order   []string
	entries map[string]types.IntentData
}

func newResultCache(maxSize int) *resultCache {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &resultCache{
		maxSize: maxSize,
		entries: make(map[string]types.IntentData, maxSize),
	}
}

// cacheKey normalizes and bounds the transcript so pathological inputs cannot
// grow the key space without limit.
func cacheKey(clean string) string {
	if len(clean) > cacheKeyMaxLen {
		return clean[:cacheKeyMaxLen]
	}
	return clean
}

func (c *resultCache) Get(key string) (types.IntentData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[key]
	return result, ok
}

func (c *resultCache) Put(key string, result types.IntentData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = result
		return
	}
	if len(c.entries) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = result
}

func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
