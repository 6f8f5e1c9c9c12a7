package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRateLimit_BurstThenReject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(1, 2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusTooManyRequests, do())
}

func TestRateLimit_SweepEvictsStaleVisitors(t *testing.T) {
	l := newIPLimiter(1, 1)
	require.True(t, l.allow("10.0.0.1"))
	require.Len(t, l.visitors, 1)

	// Age the visitor and the last sweep past their windows; the next
	// call evicts the stale entry inline.
	l.mu.Lock()
	l.visitors["10.0.0.1"].lastSeen = time.Now().Add(-2 * visitorTTL)
	l.lastSweep = time.Now().Add(-2 * sweepInterval)
	l.mu.Unlock()

	require.True(t, l.allow("10.0.0.2"))
	l.mu.Lock()
	_, stale := l.visitors["10.0.0.1"]
	_, fresh := l.visitors["10.0.0.2"]
	l.mu.Unlock()
	require.False(t, stale)
	require.True(t, fresh)
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(1, 1))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))
	// A different client keeps its own bucket.
	require.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}
