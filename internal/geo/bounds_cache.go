package geo

import (
	"log"
	"sync"
	"time"

	"zlecenia/internal/domain/listing"
)

const (
	cacheTTL        = 5 * time.Minute
	cacheMaxEntries = 10
)

type cacheEntry struct {
	key        string
	bounds     Bounds
	data       []listing.Listing
	insertedAt time.Time
}

// BoundsCache remembers recently fetched listing sets per viewport rectangle
// so that panning inside an already-fetched area skips the database.
//
// Eviction is deliberately FIFO (oldest-inserted first), not LRU, and a hit
// requires the cached rectangle to fully contain the request; a merely
// overlapping viewport is a miss. Both behaviors are intentional simplicity
// trade-offs and are relied on by callers.
type BoundsCache struct {
	mu      sync.Mutex
	entries []cacheEntry
	now     func() time.Time
	logger  *log.Logger
}

func NewBoundsCache(logger *log.Logger) *BoundsCache {
	return &BoundsCache{now: time.Now, logger: logger}
}

// Get returns cached listings for the requested rectangle, post-filtered to
// the exact bounds. Expired entries encountered during the scan are removed.
func (c *BoundsCache) Get(bounds Bounds) ([]listing.Listing, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	alive := c.entries[:0]
	for _, e := range c.entries {
		if now.Sub(e.insertedAt) < cacheTTL {
			alive = append(alive, e)
		}
	}
	c.entries = alive

	for _, e := range c.entries {
		if !e.bounds.Contains(bounds) {
			continue
		}
		out := make([]listing.Listing, 0, len(e.data))
		for _, l := range e.data {
			if !l.HasCoordinates() {
				continue
			}
			if bounds.ContainsPoint(*l.Latitude, *l.Longitude) {
				out = append(out, l)
			}
		}
		if c.logger != nil {
			c.logger.Printf("[BoundsCache] HIT key=%s listings=%d", e.key, len(out))
		}
		return out, true
	}
	return nil, false
}

// Put stores a fetched listing set under the rounded rectangle key. Inserting
// beyond the capacity evicts the single oldest-inserted entry.
func (c *BoundsCache) Put(bounds Bounds, data []listing.Listing) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := bounds.Key()
	for i, e := range c.entries {
		if e.key == key {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}

	c.entries = append(c.entries, cacheEntry{
		key:        key,
		bounds:     bounds,
		data:       data,
		insertedAt: c.now(),
	})
	if len(c.entries) > cacheMaxEntries {
		evicted := c.entries[0]
		c.entries = c.entries[1:]
		if c.logger != nil {
			c.logger.Printf("[BoundsCache] EVICT key=%s", evicted.key)
		}
	}
}

// Len reports the current entry count.
func (c *BoundsCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
