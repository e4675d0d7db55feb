package engine

import "sync"

// cacheKey identifies a report. version changes whenever any tenant or
// transaction data changes, so stale entries are never hit again.
type cacheKey struct {
	scopeID string
	month   string
	version int64
}

type reportCache struct {
	entries map[cacheKey]*Report
	mu      sync.RWMutex
}

func newReportCache() *reportCache {
	return &reportCache{entries: make(map[cacheKey]*Report)}
}

func (c *reportCache) get(key cacheKey) (*Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	report, ok := c.entries[key]
	return report, ok
}

// put stores report and drops entries recorded under older versions.
func (c *reportCache) put(key cacheKey, report *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.version < key.version {
			delete(c.entries, k)
		}
	}
	c.entries[key] = report
}

func (c *reportCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
