// Package resultcache memoizes extraction results at the MCP-serving
// edge: repeated tool calls against the same email text within the TTL
// window skip the CRF pipeline entirely.
package resultcache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a cached result stays valid.
const DefaultTTL = 10 * time.Minute

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 20 * time.Minute

// Cache memoizes a value type V by the email text and confidence
// threshold that produced it.
type Cache[V any] struct {
	c *gocache.Cache
}

// New constructs a Cache with ttl (DefaultTTL if zero).
func New[V any](ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[V]{c: gocache.New(ttl, DefaultCleanupInterval)}
}

// Get returns the cached value for text and threshold, if present and
// unexpired.
func (c *Cache[V]) Get(text string, threshold float64) (V, bool) {
	var zero V
	raw, ok := c.c.Get(key(text, threshold))
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

// Set stores value for text and threshold under the cache's default TTL.
func (c *Cache[V]) Set(text string, threshold float64, value V) {
	c.c.SetDefault(key(text, threshold), value)
}

// ItemCount reports how many entries are currently cached, expired or
// not.
func (c *Cache[V]) ItemCount() int { return c.c.ItemCount() }

// Flush empties the cache.
func (c *Cache[V]) Flush() { c.c.Flush() }

func key(text string, threshold float64) string {
	sum := sha256.Sum256([]byte(text))
	// Two-decimal-place resolution distinguishes any threshold a caller
	// would plausibly pass while keeping the key stable across repeated
	// calls with the same float value.
	scaled := int64(threshold*100 + 0.5)
	return hex.EncodeToString(sum[:]) + ":" + strconv.FormatInt(scaled, 10)
}
