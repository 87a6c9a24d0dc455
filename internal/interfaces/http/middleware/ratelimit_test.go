package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestTokenBucketLimiter_BurstThenRefill(t *testing.T) {
	l := NewTokenBucketLimiter(1, 2, 0)
	defer l.Stop()
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	ok, info := l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 2, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.False(t, ok)

	// Other keys have their own bucket.
	ok, _ = l.Allow("b")
	assert.True(t, ok)

	now = now.Add(time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 2, l.BucketCount())
}

func TestTokenBucketLimiter_Cleanup(t *testing.T) {
	l := NewTokenBucketLimiter(1, 1, 0)
	l.cleanupInterval = time.Minute
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.Allow("a")
	require.Equal(t, 1, l.BucketCount())

	now = now.Add(2 * time.Minute)
	l.cleanup()
	assert.Equal(t, 0, l.BucketCount())
}

func TestTokenBucketLimiter_StopTwice(t *testing.T) {
	l := NewTokenBucketLimiter(1, 1, 10*time.Millisecond)
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}

func TestTokenBucketLimiter_Concurrent(t *testing.T) {
	l := NewTokenBucketLimiter(0, 10, 0)
	defer l.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("shared"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}

func TestIsRefreshRequest(t *testing.T) {
	cases := map[string]bool{
		"/api/data":               false,
		"/api/data?refresh=true":  true,
		"/api/data?refresh=TRUE":  true,
		"/api/data?refresh=1":     true,
		"/api/data?refresh=yes":   true,
		"/api/data?refresh=false": false,
		"/api/data?refresh=":      false,
	}
	for target, want := range cases {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, IsRefreshRequest(r), target)
	}
}

func TestRateLimit_RefreshOnly(t *testing.T) {
	l := NewTokenBucketLimiter(0, 1, 0)
	defer l.Stop()
	var refreshed []bool
	h := RateLimit(l, RefreshOnly())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshed = append(refreshed, IsRefreshRequest(r))
		w.WriteHeader(http.StatusOK)
	}))

	do := func(target string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		r.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	w := do("/api/data?refresh=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Empty(t, w.Header().Get("Retry-After"))

	// Over the limit the refresh is served as a cached read.
	w = do("/api/data?refresh=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, []bool{true, false}, refreshed)

	// Cached reads are never throttled.
	for i := 0; i < 5; i++ {
		w = do("/api/data")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_RejectsWithoutDowngrade(t *testing.T) {
	l := NewTokenBucketLimiter(0, 1, 0)
	defer l.Stop()
	h := RateLimit(l, RateLimitConfig{})(okHandler())

	do := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/data", nil)
		r.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, do().Code)
	w := do()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "COMMON_012", body.Code)
	assert.NotEmpty(t, body.Error)
}

func TestWithoutRefresh(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/data?refresh=true&x=1", nil)
	r2 := WithoutRefresh(r)
	assert.False(t, IsRefreshRequest(r2))
	assert.Equal(t, "1", r2.URL.Query().Get("x"))
	assert.True(t, IsRefreshRequest(r))
}

func TestRateLimit_DefaultKeyFunc(t *testing.T) {
	l := NewTokenBucketLimiter(0, 1, 0)
	defer l.Stop()
	h := RateLimit(l, RateLimitConfig{})(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code, addr)
	}
	assert.Equal(t, 2, l.BucketCount())
}
