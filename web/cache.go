// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"sync"
	"time"

	"github.com/Santipap250/configdoctor/diag"
)

type cacheEntry struct {
	report  *diag.Report
	expires time.Time
}

// reportCache remembers analyze reports by dump fingerprint so repeated
// submissions of the same configuration reuse one report until the TTL
// runs out. A zero ttl or size disables it.
type reportCache struct {
	mux     sync.Mutex
	ttl     time.Duration
	size    int
	entries map[string]cacheEntry
}

func newReportCache(ttl time.Duration, size int) *reportCache {
	return &reportCache{
		ttl:     ttl,
		size:    size,
		entries: make(map[string]cacheEntry),
	}
}

func (c *reportCache) enabled() bool {
	return c.ttl > 0 && c.size > 0
}

func (c *reportCache) get(key string) (*diag.Report, bool) {
	if !c.enabled() {
		return nil, false
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}

	return entry.report, true
}

func (c *reportCache) put(key string, report *diag.Report) {
	if !c.enabled() {
		return
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.size {
		c.evictOldest()
	}

	c.entries[key] = cacheEntry{report: report, expires: time.Now().Add(c.ttl)}
}

// evictOldest drops the entry closest to expiry. Caller holds the lock.
func (c *reportCache) evictOldest() {
	var oldestKey string
	var oldest time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.expires.Before(oldest) {
			oldestKey, oldest = key, entry.expires
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *reportCache) len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.entries)
}
