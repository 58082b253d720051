package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/epeers/riskflow/internal/models"
)

// MemoryCache memoizes fetched price histories for the life of the process.
// Entries are keyed by (ticker, start, end) and never expire; a maxEntries
// bound evicts the oldest entry once reached.
type MemoryCache struct {
	histories  map[string]historyEntry
	mu         sync.RWMutex
	maxEntries int
	seq        uint64
	hits       atomic.Int64
	misses     atomic.Int64
}

type historyEntry struct {
	data *models.PriceHistory
	seq  uint64 // insertion order
}

// NewMemoryCache creates a new in-memory cache. maxEntries <= 0 means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		histories:  make(map[string]historyEntry),
		maxEntries: maxEntries,
	}
}

// HistoryKey builds the cache key for a ticker and date range
func HistoryKey(ticker string, startDate, endDate time.Time) string {
	return strings.ToUpper(ticker) + "|" + startDate.Format("2006-01-02") + "|" + endDate.Format("2006-01-02")
}

// GetHistory retrieves a cached price history if available
func (c *MemoryCache) GetHistory(ticker string, startDate, endDate time.Time) (*models.PriceHistory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.histories[HistoryKey(ticker, startDate, endDate)]
	if !exists {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.data, true
}

// SetHistory caches a price history
func (c *MemoryCache) SetHistory(ticker string, startDate, endDate time.Time, data *models.PriceHistory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := HistoryKey(ticker, startDate, endDate)
	if _, exists := c.histories[key]; !exists && c.maxEntries > 0 && len(c.histories) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.seq++
	c.histories[key] = historyEntry{
		data: data,
		seq:  c.seq,
	}
}

func (c *MemoryCache) evictOldestLocked() {
	var oldestKey string
	var oldest uint64
	for k, e := range c.histories {
		if oldestKey == "" || e.seq < oldest {
			oldestKey = k
			oldest = e.seq
		}
	}
	delete(c.histories, oldestKey)
}

// Stats returns the hit and miss counters and the current size
func (c *MemoryCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits.Load(), c.misses.Load(), len(c.histories)
}
