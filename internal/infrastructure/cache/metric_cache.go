package cache

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kpihub/backend/internal/domain/metric"
)

// DefaultMetricResultTTL bounds how long a computed result may be served
// from cache
const DefaultMetricResultTTL = 5 * time.Minute

// metricResultEntry represents a cached computation with expiration
type metricResultEntry struct {
	result    metric.Result
	expiresAt time.Time
}

// MetricResultCache keeps computed metric results so repeated dashboard
// reads skip recomputation. Keys carry the workspace dataset version, so a
// mutation invalidates its entries by construction; the TTL only bounds
// memory growth.
type MetricResultCache struct {
	mu        sync.RWMutex
	entries   map[string]metricResultEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMetricResultCache creates a metric result cache and starts a background
// goroutine that sweeps expired entries
func NewMetricResultCache(ttl time.Duration) *MetricResultCache {
	if ttl <= 0 {
		ttl = DefaultMetricResultTTL
	}
	c := &MetricResultCache{
		entries:  make(map[string]metricResultEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// ResultKey builds the cache key for one computation. Parameters are folded
// in sorted order so equivalent requests share an entry.
func ResultKey(workspaceID uuid.UUID, version int, name string, params metric.Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(workspaceID.String())
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(version))
	b.WriteByte(':')
	b.WriteString(name)
	for _, k := range keys {
		b.WriteByte(':')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Get returns the cached result for the key if present and not expired
func (c *MetricResultCache) Get(key string) (metric.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return metric.Result{}, false
	}
	return e.result, true
}

// Set stores a computed result under the key
func (c *MetricResultCache) Set(key string, result metric.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = metricResultEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *MetricResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times.
func (c *MetricResultCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *MetricResultCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *MetricResultCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
