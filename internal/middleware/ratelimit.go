// Package middleware provides HTTP middleware for the lineage service.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// maxTrackedClients bounds the visitor table so an address scan cannot
	// exhaust memory.
	maxTrackedClients = 100_000

	visitorIdleCutoff  = 10 * time.Minute
	limiterSweepPeriod = 5 * time.Minute
)

// visitor tracks the remaining request allowance for one client address.
// The allowance refills continuously at the limiter's rate, so fractional
// credit accumulates even between closely spaced requests.
type visitor struct {
	allowance float64
	seen      time.Time
}

// RateLimiter throttles requests per client IP using continuously refilling
// allowances. A fresh client starts with a full burst.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     float64
	burst    float64

	now func() time.Time // replaced in tests
}

// NewRateLimiter creates a limiter allowing ratePerSec sustained requests
// with bursts up to burst. Idle visitors are swept until ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     float64(ratePerSec),
		burst:    float64(burst),
		now:      time.Now,
	}
	go rl.sweepLoop(ctx)

	return rl
}

// take consumes one unit of allowance for ip. The second return reports
// whether the limiter had room to track the client at all.
func (rl *RateLimiter) take(ip string) (allowed, tracked bool) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		if len(rl.visitors) >= maxTrackedClients {
			rl.pruneLocked(now)
			if len(rl.visitors) >= maxTrackedClients {
				return false, false
			}
		}

		v = &visitor{allowance: rl.burst}
		rl.visitors[ip] = v
	} else {
		v.allowance += now.Sub(v.seen).Seconds() * rl.rate
		if v.allowance > rl.burst {
			v.allowance = rl.burst
		}
	}

	v.seen = now

	if v.allowance < 1 {
		return false, true
	}

	v.allowance--

	return true, true
}

// pruneLocked drops visitors idle past the cutoff. Callers hold rl.mu.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.seen) > visitorIdleCutoff {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			rl.pruneLocked(rl.now())
			rl.mu.Unlock()
		}
	}
}

// retryAfter estimates the seconds until one unit of allowance refills.
func (rl *RateLimiter) retryAfter() string {
	secs := int(1 / rl.rate)
	if secs < 1 {
		secs = 1
	}

	return strconv.Itoa(secs)
}

// Handler returns Gin middleware that applies the limiter per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// c.ClientIP() is safe from X-Forwarded-For spoofing because
		// SetTrustedProxies(nil) in router.go disables proxy header trust.
		allowed, tracked := rl.take(c.ClientIP())
		if allowed {
			c.Next()

			return
		}

		c.Header("Retry-After", rl.retryAfter())
		if !tracked {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")

			return
		}

		respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
	}
}
