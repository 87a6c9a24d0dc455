package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/internal/infrastructure/cache"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/handlers"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/middleware"
	"github.com/turtacn/EnviroLens/internal/testutil"
)

type stubDataService struct {
	refreshes atomic.Int32
	panicMsg  string
}

func (s *stubDataService) Data(_ context.Context, refresh bool) ([]byte, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if refresh {
		s.refreshes.Add(1)
	}
	return []byte(`{"recommendations":["r"]}`), nil
}

func (s *stubDataService) Dataset(_ context.Context, name string) ([]byte, error) {
	return []byte(`{"insights":["` + name + `"]}`), nil
}

func newTestRouter(t *testing.T, svc handlers.DataService, limiter middleware.RateLimiter) (http.Handler, prometheus.MetricsCollector) {
	t.Helper()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, logging.NewNopLogger())
	require.NoError(t, err)
	static, err := handlers.NewStaticHandler("")
	require.NoError(t, err)
	cors := middleware.DefaultCORSConfig()
	logger := testutil.NewMockLogger()

	return NewRouter(RouterConfig{
		DataHandler:      handlers.NewDataHandler(svc, logger),
		HealthHandler:    handlers.NewHealthHandler("test", nil, handlers.PingChecker("cache", cache.NewMemoryStore())),
		StaticHandler:    static,
		Version:          "test",
		CORS:             &cors,
		Logging:          middleware.DefaultLoggingConfig(),
		RefreshLimiter:   limiter,
		Metrics:          prometheus.NewAppMetrics(collector),
		MetricsCollector: collector,
		Logger:           logger,
	}), collector
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter_Routes(t *testing.T) {
	router, _ := newTestRouter(t, &stubDataService{}, nil)

	cases := []struct {
		path string
		code int
	}{
		{"/", http.StatusOK},
		{"/static/dashboard.js", http.StatusOK},
		{"/api/data", http.StatusOK},
		{"/api/data/water_quality", http.StatusOK},
		{"/api/vercel", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/unknown", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := serve(router, http.MethodGet, tc.path)
		assert.Equal(t, tc.code, w.Code, tc.path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), tc.path)
	}
}

func TestNewRouter_NotFoundJSON(t *testing.T) {
	router, _ := newTestRouter(t, &stubDataService{}, nil)
	w := serve(router, http.MethodGet, "/does/not/exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found","code":"COMMON_005"}`, w.Body.String())
}

func TestNewRouter_MethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t, &stubDataService{}, nil)
	w := serve(router, http.MethodPost, "/api/data")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNewRouter_PanicBecomesJSON500(t *testing.T) {
	router, _ := newTestRouter(t, &stubDataService{panicMsg: "kaboom"}, nil)
	w := serve(router, http.MethodGet, "/api/data")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body middleware.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "kaboom", body.Error)
}

func TestNewRouter_RefreshLimited(t *testing.T) {
	svc := &stubDataService{}
	limiter := middleware.NewTokenBucketLimiter(0, 2, 0)
	defer limiter.Stop()
	router, _ := newTestRouter(t, svc, limiter)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/data?refresh=true").Code)
	}
	// An over-limit refresh is answered from the cache.
	w := serve(router, http.MethodGet, "/api/data?refresh=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"recommendations":["r"]}`, w.Body.String())
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/data").Code)
	assert.Equal(t, int32(2), svc.refreshes.Load())
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, &stubDataService{}, nil)
	r := httptest.NewRequest(http.MethodOptions, "/api/data", nil)
	r.Header.Set("Origin", "https://example.org")
	r.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_MetricsUseRoutePattern(t *testing.T) {
	router, _ := newTestRouter(t, &stubDataService{}, nil)
	serve(router, http.MethodGet, "/api/data/mineral_extraction")

	w := serve(router, http.MethodGet, "/metrics")
	assert.Contains(t, w.Body.String(), `path="/api/data/{dataset}"`)
	assert.NotContains(t, w.Body.String(), `path="/api/data/mineral_extraction"`)
}

func TestNewRouter_NilHandlers(t *testing.T) {
	router := NewRouter(RouterConfig{})
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/data").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/vercel").Code)
}
