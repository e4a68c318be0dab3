package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doPing(r *gin.Engine, clientID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterRequiresClientIDHeader(t *testing.T) {
	rl := NewRateLimiter(50 * time.Millisecond)
	r := newTestRouter(rl)

	w := doPing(r, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimiterBlocksWithinWindow(t *testing.T) {
	rl := NewRateLimiter(50 * time.Millisecond)
	r := newTestRouter(rl)

	w1 := doPing(r, "alice")
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := doPing(r, "alice")
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestRateLimiterAllowsAfterWindowElapses(t *testing.T) {
	rl := NewRateLimiter(10 * time.Millisecond)
	r := newTestRouter(rl)

	require.Equal(t, http.StatusOK, doPing(r, "bob").Code)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doPing(r, "bob").Code)
}

func TestRateLimiterTracksClientsIndependently(t *testing.T) {
	rl := NewRateLimiter(50 * time.Millisecond)
	r := newTestRouter(rl)

	require.Equal(t, http.StatusOK, doPing(r, "alice").Code)
	assert.Equal(t, http.StatusOK, doPing(r, "bob").Code)
}

func TestRateLimiterSweepsStaleEntries(t *testing.T) {
	rl := NewRateLimiter(time.Millisecond)
	now := time.Now()
	rl.clients["stale"] = now.Add(-time.Hour)
	rl.lastSweep = now.Add(-time.Hour)

	rl.mu.Lock()
	rl.sweepLocked(now)
	_, stillPresent := rl.clients["stale"]
	rl.mu.Unlock()

	assert.False(t, stillPresent, "entries older than sweepAfter should be evicted")
}
