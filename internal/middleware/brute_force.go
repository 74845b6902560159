package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	lockoutThreshold = 5
	failureWindow    = 15 * time.Minute
	lockoutDuration  = 5 * time.Minute
	guardSweepPeriod = 60 * time.Second
	guardMaxRecords  = 10000
)

type authFailure struct {
	count     int
	firstSeen time.Time
	lockedAt  time.Time
}

// BruteForceGuard tracks failed authentication attempts per API key hash and
// locks out keys that fail repeatedly within the tracking window.
type BruteForceGuard struct {
	mu       sync.Mutex
	failures map[string]*authFailure
	log      *logrus.Logger
}

// NewBruteForceGuard creates a guard and starts a background sweep goroutine
// that stops when ctx is cancelled.
func NewBruteForceGuard(ctx context.Context, log *logrus.Logger) *BruteForceGuard {
	g := &BruteForceGuard{
		failures: make(map[string]*authFailure),
		log:      log,
	}
	go g.sweep(ctx)
	return g
}

// IsBlocked reports whether the given API key is currently locked out.
func (g *BruteForceGuard) IsBlocked(apiKey string) bool {
	kh := hashKey(apiKey)
	g.mu.Lock()
	defer g.mu.Unlock()

	f, ok := g.failures[kh]
	if !ok {
		return false
	}
	return !f.lockedAt.IsZero() && time.Since(f.lockedAt) < lockoutDuration
}

// RecordFailure records a failed authentication attempt for the given API key.
func (g *BruteForceGuard) RecordFailure(apiKey string) {
	kh := hashKey(apiKey)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	f, ok := g.failures[kh]
	if !ok {
		g.failures[kh] = &authFailure{count: 1, firstSeen: now}
		return
	}

	// Start a fresh window once the old one has expired.
	if now.Sub(f.firstSeen) > failureWindow {
		f.count = 1
		f.firstSeen = now
		f.lockedAt = time.Time{}
		return
	}

	f.count++
	if f.count >= lockoutThreshold {
		f.lockedAt = now
		g.log.WithField("key_hash", kh[:16]+"...").Warn("api key locked out after repeated auth failures")
	}
}

// ResetKey clears failure tracking for a key (call on successful auth).
func (g *BruteForceGuard) ResetKey(apiKey string) {
	kh := hashKey(apiKey)
	g.mu.Lock()
	delete(g.failures, kh)
	g.mu.Unlock()
}

func (g *BruteForceGuard) sweep(ctx context.Context) {
	ticker := time.NewTicker(guardSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			g.mu.Lock()
			for k, f := range g.failures {
				expired := !f.lockedAt.IsZero() && now.Sub(f.lockedAt) >= lockoutDuration
				stale := now.Sub(f.firstSeen) >= failureWindow
				if expired || stale {
					delete(g.failures, k)
				}
			}
			if over := len(g.failures) - guardMaxRecords; over > 0 {
				g.evictOldest(over)
			}
			g.mu.Unlock()
		}
	}
}

// evictOldest removes n entries with the oldest firstSeen times.
// Caller must hold g.mu.
func (g *BruteForceGuard) evictOldest(n int) {
	type entry struct {
		key  string
		seen time.Time
	}
	entries := make([]entry, 0, len(g.failures))
	for k, f := range g.failures {
		entries = append(entries, entry{k, f.firstSeen})
	}
	for range n {
		oldest := 0
		for i := 1; i < len(entries); i++ {
			if entries[i].seen.Before(entries[oldest].seen) {
				oldest = i
			}
		}
		delete(g.failures, entries[oldest].key)
		entries[oldest] = entries[len(entries)-1]
		entries = entries[:len(entries)-1]
	}
}

// BruteForceMiddleware returns middleware that rejects requests from
// locked-out API keys before they reach the auth lookup.
func BruteForceMiddleware(guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			c.Next()
			return
		}
		if guard.IsBlocked(apiKey) {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many failed authentication attempts")
			c.Abort()
			return
		}
		c.Next()
	}
}
