// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package cache provides a thread-safe in-memory TTL cache with hit/miss
// statistics. Instances are constructed explicitly and injected into the
// recommendation engine; there is no package-level singleton, so tests can
// substitute a fresh cache per test.
package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/BenGiese22/should-i-race-this/internal/metrics"
)

// Entry represents a cached item with expiration.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a mutex-guarded map with lazy TTL expiry on read and an optional
// background sweep. Safe for concurrent use by multiple in-flight requests.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	statsMu sync.RWMutex
	stats   Stats
	done    chan struct{}
	once    sync.Once
}

// Stats is a copyable snapshot of the cache performance counters. The
// counters are guarded by the cache itself, so the snapshot carries no lock
// and can be embedded in response payloads directly.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	TotalKeys   int64     `json:"total_keys"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// sweepInterval is how often the background sweep removes expired entries.
// Lazy expiry on read makes the sweep a memory-bound concern, not a
// correctness one.
const sweepInterval = 5 * time.Minute

// New creates a cache whose entries default to the given TTL. A background
// sweep goroutine runs until Close is called.
//
//	c := cache.New(15 * time.Minute)
//	defer c.Close()
//	c.Set("racing-opportunities:2026w34", snapshot)
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		done:    make(chan struct{}),
		stats: Stats{
			LastCleanup: time.Now(),
		},
	}

	go c.sweepLoop()

	return c
}

// Get retrieves a value by key. An expired entry behaves as a miss and is
// evicted on the spot.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss(key)
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss(key)
		c.recordEviction()
		return nil, false
	}

	c.recordHit(key)
	return entry.Data, true
}

// Set stores a value with the cache's default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL, overwriting any existing
// entry under the same key.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}

	keys := int64(len(c.entries))
	c.statsMu.Lock()
	c.stats.TotalKeys = keys
	c.statsMu.Unlock()
	metrics.CacheEntries.Set(float64(keys))
}

// Delete removes a single entry. This is the default invalidation path: a
// schedule resync clears its own key without touching unrelated entries.
// Safe to call with a non-existent key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	c.recordEviction()
}

// Clear removes every entry. Reserved for explicit "force" invalidation;
// per-key Delete is the normal path.
func (c *Cache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = 0
	c.statsMu.Unlock()
	metrics.CacheEvictions.Add(float64(evictions))
	metrics.CacheEntries.Set(0)
}

// Close stops the background sweep. The cache remains usable afterwards;
// expiry then happens only lazily on read.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// GetStats returns a snapshot of the performance counters.
func (c *Cache) GetStats() Stats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()

	return c.stats
}

// HitRate returns the hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// sweepLoop periodically removes expired entries until Close.
func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep removes all expired entries.
func (c *Cache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	evictions := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evictions++
		}
	}

	keys := int64(len(c.entries))
	c.statsMu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = keys
	c.stats.LastCleanup = now
	c.statsMu.Unlock()
	metrics.CacheEvictions.Add(float64(evictions))
	metrics.CacheEntries.Set(float64(keys))
}

func (c *Cache) recordHit(key string) {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
	metrics.CacheHits.WithLabelValues(cacheType(key)).Inc()
}

func (c *Cache) recordMiss(key string) {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
	metrics.CacheMisses.WithLabelValues(cacheType(key)).Inc()
}

func (c *Cache) recordEviction() {
	c.statsMu.Lock()
	c.stats.Evictions++
	c.statsMu.Unlock()
	metrics.CacheEvictions.Inc()
}

// cacheType derives the bounded metric label from the key's prefix, e.g.
// "global-stats:139:266" -> "global-stats".
func cacheType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}

// GenerateKey builds a deterministic cache key from a prefix and
// parameters. Parameters are serialized and hashed so semantically equal
// inputs always map to the same key.
//
//	key := cache.GenerateKey("global-stats", pair)
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to a plain formatted key
		return fmt.Sprintf("%s:%v", prefix, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}
