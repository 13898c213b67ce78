package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"billgen/internal/bill"
)

// ResultKey identifies a computation by workbook content and premium inputs.
func ResultKey(workbook []byte, premiumPercent float64, premiumType bill.PremiumType, previousBill float64) string {
	h := sha256.New()
	h.Write(workbook)
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(premiumPercent, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(premiumType))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(previousBill, 'g', -1, 64)))
	return hex.EncodeToString(h.Sum(nil))
}

type cacheEntry struct {
	result   *bill.Result
	storedAt time.Time
}

// ResultCache memoizes engine results for a bounded time. Cached results are
// shared between callers and must not be modified.
type ResultCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	group      singleflight.Group
	now        func() time.Time
}

// NewResultCache creates a cache. A non-positive ttl or maxEntries disables it.
func NewResultCache(ttl time.Duration, maxEntries int) *ResultCache {
	return &ResultCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
		now:        time.Now,
	}
}

func (c *ResultCache) enabled() bool { return c != nil && c.ttl > 0 && c.maxEntries > 0 }

// GetOrCompute returns the cached result for key or runs compute once,
// even when called concurrently for the same key. hit reports a cache hit.
func (c *ResultCache) GetOrCompute(key string, compute func() (*bill.Result, error)) (res *bill.Result, hit bool, err error) {
	if !c.enabled() {
		res, err = compute()
		return res, false, err
	}
	if res, ok := c.get(key); ok {
		return res, true, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		res, err := compute()
		if err != nil {
			return nil, err
		}
		c.put(key, res)
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*bill.Result), false, nil
}

func (c *ResultCache) get(key string) (*bill.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.result, true
}

func (c *ResultCache) put(key string, res *bill.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{result: res, storedAt: c.now()}
}

func (c *ResultCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey, oldest = k, e.storedAt
		}
	}
	delete(c.entries, oldestKey)
}

// Purge drops expired entries and returns how many were removed.
func (c *ResultCache) Purge() int {
	if !c.enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
