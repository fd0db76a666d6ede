package server

import (
	"sync"
	"time"
)

// ScanCache tracks how fresh the engine's current scan is, so repeated
// hint_scan calls within the TTL reuse the live session instead of
// rescanning and relabelling the page.
type ScanCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	timestamp time.Time
	valid     bool
	now       func() time.Time
}

// NewScanCache creates a new cache. A ttl of 0 disables caching.
func NewScanCache(ttl time.Duration) *ScanCache {
	return &ScanCache{ttl: ttl, now: time.Now}
}

// Fresh reports whether the last scan is within the TTL and nothing has
// invalidated it since.
func (c *ScanCache) Fresh() bool {
	if c.ttl == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid && c.now().Sub(c.timestamp) < c.ttl
}

// Mark records a scan that just happened.
func (c *ScanCache) Mark() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timestamp = c.now()
	c.valid = true
}

// Invalidate forgets the last scan.
func (c *ScanCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
