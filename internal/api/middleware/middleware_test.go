package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestDeduplicator(t *testing.T) {
	t.Parallel()

	d := NewDeduplicator(time.Second)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	var bodies []string
	r := gin.New()
	r.Use(d.Handler())
	handler := func(c *gin.Context) {
		raw, _ := c.GetRawData()
		bodies = append(bodies, string(raw))
		c.Status(http.StatusOK)
	}
	r.POST("/x", handler)
	r.GET("/x", handler)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", `{"a":1}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/x", `{"a":1}`).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", `{"a":2}`).Code, "different body")
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code, "GET is never deduplicated")

	now = now.Add(1500 * time.Millisecond)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", `{"a":1}`).Code, "window elapsed")

	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`, "", "", `{"a":1}`}, bodies, "body is restored for the handler")
}

func TestDeduplicator_DefaultWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, NewDeduplicator(0).window)
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2, time.Hour)
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "limits are per client")
}

func TestRateLimiter_SubSecondWindow(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2000, time.Microsecond)
	require.NotEqual(t, rate.Inf, rl.limit)
	assert.InDelta(t, 2e9, float64(rl.limit), 1)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	for i := 0; i < 2000; i++ {
		require.True(t, rl.Allow("1.1.1.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("1.1.1.1"), "burst exhausted without elapsed time")
	assert.Equal(t, 1, rl.retryAfter())
}

func TestRateLimiter_PrunesIdleClients(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2000; i++ {
		rl.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	assert.Len(t, rl.limiters, 2000)

	now = now.Add(30 * time.Second)
	rl.Allow("192.168.0.1")
	assert.Len(t, rl.limiters, 2001, "clients seen within the window are kept")

	now = now.Add(time.Minute)
	rl.Allow("192.168.0.2")
	assert.Len(t, rl.limiters, 1)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/x", "").Code)

	w := serve(r, http.MethodGet, "/x", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestBodySizeLimit(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(BodySizeLimit(16))
	r.POST("/x", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/x", `{"a":1}`).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, http.MethodPost, "/x", strings.Repeat("x", 64)).Code)

	// 未宣告 Content-Length 時由 MaxBytesReader 攔下
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("x", 64)))
	req.ContentLength = -1
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		c.Status(http.StatusOK)
	})
	r.GET("/late-write", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": context.Cause(c.Request.Context()).Error()})
	})

	w := serve(r, http.MethodGet, "/slow", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "GATEWAY_TIMEOUT")

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/fast", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, http.MethodGet, "/late-write", "").Code, "handler response wins")
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(Recovery(), Logger())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
