package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter enforces one request per client per window, keyed off the
// X-Client-ID header. Entries not seen for sweepAfter (ten windows) are
// dropped by a sweep that runs on a request at most once per sweepInterval
// (twenty windows), so a long-running process with a churning client
// population doesn't grow clients without bound.
type RateLimiter struct {
	clients map[string]time.Time
	mu      sync.Mutex
	limit   time.Duration

	sweepAfter    time.Duration
	lastSweep     time.Time
	sweepInterval time.Duration
}

func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:       make(map[string]time.Time),
		limit:         limit,
		sweepAfter:    limit * 10,
		sweepInterval: limit * 20,
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader("X-Client-ID")
		if clientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Client-ID header required"})
			c.Abort()
			return
		}
		now := time.Now()
		r.mu.Lock()
		last, exists := r.clients[clientID]
		if exists && now.Sub(last) < r.limit {
			r.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		r.clients[clientID] = now
		r.sweepLocked(now)
		r.mu.Unlock()
		c.Next()
	}
}

// sweepLocked drops entries that have aged out of the window, amortized
// across requests rather than run on a background timer. Caller holds r.mu.
func (r *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < r.sweepInterval {
		return
	}
	r.lastSweep = now
	for id, seen := range r.clients {
		if now.Sub(seen) > r.sweepAfter {
			delete(r.clients, id)
		}
	}
}
