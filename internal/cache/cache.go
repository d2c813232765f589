package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/assistravel/casedesk/internal/metrics"
)

const snapshotKey = "dashboard:metrics"

// Cache holds the last computed dashboard snapshot. Entries never expire on
// a timer; the snapshot is recomputed only on explicit invalidation, which
// happens after each successful mutation.
type Cache interface {
	Get() (*metrics.Snapshot, bool)
	Set(snap *metrics.Snapshot)
	Invalidate()
	Stats() Stats
}

type Stats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

type SnapshotCache struct {
	cache *gocache.Cache
	mu    sync.RWMutex
	stats Stats
}

func NewCache() Cache {
	return &SnapshotCache{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *SnapshotCache) Get() (*metrics.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(snapshotKey); found {
		if snap, ok := data.(*metrics.Snapshot); ok {
			c.stats.Hits++
			return snap, true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *SnapshotCache) Set(snap *metrics.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Set(snapshotKey, snap, gocache.NoExpiration)
}

func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(snapshotKey)
}

func (c *SnapshotCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.cache.ItemCount()
	return stats
}
