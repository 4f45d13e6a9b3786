// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"sync"
	"time"
)

// resultCache memoizes evaluations by exact (index, changed) pair key.
//
// Invalidation is wholesale: once the TTL elapses the entire map is
// dropped on the next access. Evaluation is cheap, so correctness of
// invalidation timing matters more than cache density.
//
// Thread Safety: safe for concurrent use.
type resultCache struct {
	mu      sync.Mutex
	entries map[string]Result
	resetAt time.Time
	ttl     time.Duration
	clock   func() time.Time
}

func newResultCache(ttl time.Duration, clock func() time.Time) *resultCache {
	if clock == nil {
		clock = time.Now
	}
	return &resultCache{
		entries: make(map[string]Result),
		resetAt: clock(),
		ttl:     ttl,
		clock:   clock,
	}
}

// get returns the cached result for key, expiring the whole cache
// first when the TTL window has passed.
func (c *resultCache) get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
	res, ok := c.entries[key]
	return res, ok
}

func (c *resultCache) put(key string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
	c.entries[key] = res
}

// invalidate drops every entry immediately.
func (c *resultCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Result)
	c.resetAt = c.clock()
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// expireLocked clears the map when the window has elapsed.
// Callers must hold mu.
func (c *resultCache) expireLocked() {
	if c.ttl <= 0 {
		return
	}
	if c.clock().Sub(c.resetAt) >= c.ttl {
		c.entries = make(map[string]Result)
		c.resetAt = c.clock()
	}
}
