package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/recipe-backend/internal/observability"
)

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	rl := NewRateLimiter(0.001, 2, m)

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.1.1.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request %d: got=%d want=%d", i, codes[i], want[i])
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.2.2.2:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client throttled: %d", rec.Code)
	}

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(scrape.Body.String(), "recipe_rate_limit_rejects_total 1") {
		t.Fatalf("rate limit reject not counted:\n%s", scrape.Body.String())
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0, 0, nil)

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d throttled with limiter disabled", i)
		}
	}
}

func TestRateLimiterEvictsIdleClientsOncePerTTL(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	rl := NewRateLimiter(10, 1, nil)
	rl.now = func() time.Time { return now }
	rl.lastSweep = start

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		rl.allow(ip)
	}

	// Clients are idle past the TTL but a sweep ran a second ago.
	rl.lastSweep = start.Add(limiterIdleTTL)
	now = start.Add(limiterIdleTTL + time.Second)
	rl.allow("10.0.0.4")
	if got := len(rl.clients); got != 4 {
		t.Fatalf("swept before ttl elapsed since last sweep: clients=%d", got)
	}

	now = start.Add(2 * limiterIdleTTL)
	rl.allow("10.0.0.4")
	if got := len(rl.clients); got != 1 {
		t.Fatalf("idle clients kept: clients=%d", got)
	}
	if _, ok := rl.clients["10.0.0.4"]; !ok {
		t.Fatalf("active client evicted")
	}
	if !rl.lastSweep.Equal(now) {
		t.Fatalf("lastSweep=%v want=%v", rl.lastSweep, now)
	}
}
