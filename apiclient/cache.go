// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/danielhkuo/hibah-admin/auth"
)

type cacheEntry struct {
	data    []byte
	expires time.Time
}

// queryCache holds GET bodies grouped by resource so a mutation can drop
// everything under its resource at once. A negative ttl disables caching.
//
// Each resource carries a generation bumped by invalidate. A GET reads the
// generation before it goes out and put drops the body if the resource was
// invalidated in between, so a response older than a mutation never lands.
type queryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]map[string]cacheEntry
	gens    map[string]uint64
	now     func() time.Time
}

func newQueryCache(ttl time.Duration) *queryCache {
	return &queryCache{
		ttl:     ttl,
		entries: make(map[string]map[string]cacheEntry),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

// cacheKey scopes entries to the caller's token; reviewers and admins see
// different data for the same path.
func cacheKey(ctx context.Context, path string, query url.Values) string {
	key := path + "?" + query.Encode()
	if s, ok := auth.SessionFrom(ctx); ok && s.Token != "" {
		key = auth.Sign("cache", s.Token) + " " + key
	}
	return key
}

func (c *queryCache) get(resource, key string) ([]byte, bool) {
	if c.ttl < 0 {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[resource][key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.data, true
}

func (c *queryCache) generation(resource string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[resource]
}

// put stores data unless resource was invalidated after gen was read.
func (c *queryCache) put(resource, key string, gen uint64, data []byte) {
	if c.ttl < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[resource] != gen {
		return
	}

	bucket, ok := c.entries[resource]
	if !ok {
		bucket = make(map[string]cacheEntry)
		c.entries[resource] = bucket
	}
	bucket[key] = cacheEntry{data: data, expires: c.now().Add(c.ttl)}
}

func (c *queryCache) invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, resource)
	c.gens[resource]++
}
