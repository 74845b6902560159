package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

const (
	workspaceCacheTTL  = 5 * time.Minute
	negativeCacheTTL   = 30 * time.Second
	maxCacheEntries    = 10000
	cacheCleanupPeriod = 60 * time.Second
)

// negativeSentinel is stored in workspaceID to indicate a cached lookup failure.
const negativeSentinel = "\x00negative"

// errCachedNotFound is returned for negative cache hits.
var errCachedNotFound = errors.New("workspace not found (cached)")

type cachedWorkspace struct {
	workspaceID string
	fetchedAt   time.Time
}

// isNegative returns true if this entry represents a cached lookup failure.
func (cw cachedWorkspace) isNegative() bool {
	return cw.workspaceID == negativeSentinel
}

// ttl returns the appropriate TTL for this entry.
func (cw cachedWorkspace) ttl() time.Duration {
	if cw.isNegative() {
		return negativeCacheTTL
	}
	return workspaceCacheTTL
}

// hashKey returns a hex-encoded SHA-256 hash of the API key so raw keys
// are never stored in memory.
func hashKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
}

// CachedWorkspaceLookup wraps a WorkspaceLookup with a bounded in-memory cache.
type CachedWorkspaceLookup struct {
	inner WorkspaceLookup
	mu    sync.RWMutex
	cache map[string]cachedWorkspace
}

// NewCachedWorkspaceLookup creates a caching wrapper around the given WorkspaceLookup.
// The provided context controls the lifetime of the background eviction goroutine.
func NewCachedWorkspaceLookup(ctx context.Context, inner WorkspaceLookup) *CachedWorkspaceLookup {
	c := &CachedWorkspaceLookup{
		inner: inner,
		cache: make(map[string]cachedWorkspace),
	}
	go c.evictLoop(ctx)
	return c
}

// evictLoop periodically removes expired entries from the cache.
func (c *CachedWorkspaceLookup) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for k, v := range c.cache {
				if now.Sub(v.fetchedAt) >= v.ttl() {
					delete(c.cache, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

// GetWorkspaceByAPIKey returns a cached workspace ID or delegates to the inner lookup.
// Failed lookups are negatively cached for 30s to prevent brute-force DB hammering.
func (c *CachedWorkspaceLookup) GetWorkspaceByAPIKey(ctx context.Context, apiKey string) (string, error) {
	hk := hashKey(apiKey)

	// Read path — RLock for concurrent cache hits.
	c.mu.RLock()
	entry, ok := c.cache[hk]
	if ok && time.Since(entry.fetchedAt) < entry.ttl() {
		c.mu.RUnlock()
		if entry.isNegative() {
			return "", errCachedNotFound
		}
		return entry.workspaceID, nil
	}
	c.mu.RUnlock()

	// Cache miss or expired — fetch from inner.
	workspaceID, err := c.inner.GetWorkspaceByAPIKey(ctx, apiKey)
	if err != nil {
		// Negative cache: store failed lookup with short TTL.
		c.mu.Lock()
		c.cache[hk] = cachedWorkspace{workspaceID: negativeSentinel, fetchedAt: time.Now()}
		c.mu.Unlock()
		return "", err
	}

	c.mu.Lock()
	if len(c.cache) >= maxCacheEntries {
		// Evict expired entries, then trim if still over limit.
		now := time.Now()
		for k, v := range c.cache {
			if now.Sub(v.fetchedAt) >= v.ttl() {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < maxCacheEntries {
				break
			}
			delete(c.cache, k)
		}
	}
	c.cache[hk] = cachedWorkspace{workspaceID: workspaceID, fetchedAt: time.Now()}
	c.mu.Unlock()

	return workspaceID, nil
}
