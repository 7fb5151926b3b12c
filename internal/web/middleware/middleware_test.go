package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jusunglee/josa/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLimit = 5

func newTestLimiter(t *testing.T) *IPRateLimiter {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRateLimiter(ctx, testLimit, time.Minute)
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := newTestLimiter(t)
	for i := 0; i < testLimit; i++ {
		require.True(t, rl.Allow("10.0.0.1"), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "request beyond limit should be denied")
}

func TestRateLimiterIsolatesIPs(t *testing.T) {
	rl := newTestLimiter(t)
	for j := 0; j < testLimit; j++ {
		rl.Allow("10.0.0.1")
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "different IP should not be affected")
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	rl := newTestLimiter(t)
	clock := time.Now()
	rl.now = func() time.Time { return clock }

	for j := 0; j < testLimit; j++ {
		rl.Allow("10.0.0.1")
	}
	require.False(t, rl.Allow("10.0.0.1"))

	clock = clock.Add(time.Minute + time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "should allow after old entries expire")
}

func TestRateLimiterCleanupDropsExpiredIPs(t *testing.T) {
	rl := newTestLimiter(t)
	clock := time.Now()
	rl.now = func() time.Time { return clock }

	rl.Allow("10.0.0.1")
	clock = clock.Add(2 * time.Minute)
	rl.Allow("10.0.0.2")
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.requests, "10.0.0.1")
	assert.Contains(t, rl.requests, "10.0.0.2")
}

func TestRateLimiterConcurrentAccess(t *testing.T) {
	rl := newTestLimiter(t)
	var wg sync.WaitGroup
	allowed := make([]int, 10)

	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ip := fmt.Sprintf("10.0.0.%d", i)
			for j := 0; j < testLimit+2; j++ {
				if rl.Allow(ip) {
					allowed[i]++
				}
			}
		}()
	}
	wg.Wait()

	for i, count := range allowed {
		assert.Equal(t, testLimit, count, "10.0.0.%d should have exactly %d allowed requests", i, testLimit)
	}
}

func TestThrottle(t *testing.T) {
	rl := newTestLimiter(t)
	clock := time.Now()
	rl.now = func() time.Time { return clock }
	h := Throttle(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	before := testutil.ToFloat64(metrics.RateLimitHits)
	var rec *httptest.ResponseRecorder
	for i := 0; i < testLimit+1; i++ {
		clock = clock.Add(time.Second)
		rec = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/josa", nil)
		req.Header.Set("X-Real-IP", "192.0.2.7")
		h.ServeHTTP(rec, req)
		if i < testLimit {
			require.Equal(t, http.StatusOK, rec.Code)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitHits))
	// The first request was 5s before the refused one, so it expires in 55s.
	assert.Equal(t, "55", rec.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestReserveReportsWait(t *testing.T) {
	rl := newTestLimiter(t)
	clock := time.Now()
	rl.now = func() time.Time { return clock }

	for j := 0; j < testLimit; j++ {
		ok, wait := rl.Reserve("10.0.0.1")
		require.True(t, ok)
		require.Zero(t, wait)
	}
	clock = clock.Add(20 * time.Second)
	ok, wait := rl.Reserve("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, wait)
}

func TestObserve(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Observe("batch", log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"x"}`))
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues("batch", http.MethodPost, "422")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/josa/batch", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "josa request", line["msg"])
	assert.Equal(t, "batch", line["endpoint"])
	assert.EqualValues(t, 422, line["status"])
	assert.EqualValues(t, 13, line["bytes"])
	assert.Equal(t, "INFO", line["level"])
}

func TestCacheAnswers(t *testing.T) {
	h := CacheAnswers(time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/josa", nil))
	assert.Equal(t, "public, max-age=3600, immutable", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/josa/batch", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	CORS(nil)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	h := CORS([]string{"https://example.com"})(ok)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://example.com")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.4:5555"
	assert.Equal(t, "198.51.100.4", ClientIP(req))

	req.Header.Set("X-Real-IP", " 203.0.113.9 ")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
