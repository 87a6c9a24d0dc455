package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/EnviroLens/internal/infrastructure/cache"
)

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }

func serveHealth(h *HealthHandler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthHandler_Liveness(t *testing.T) {
	w := serveHealth(NewHealthHandler("1.2.3", nil), "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestHealthHandler_ReadinessNoCheckers(t *testing.T) {
	w := serveHealth(NewHealthHandler("dev", nil), "/readyz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestHealthHandler_ReadinessHealthy(t *testing.T) {
	h := NewHealthHandler("dev", nil, PingChecker("cache", cache.NewMemoryStore()))
	w := serveHealth(h, "/readyz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "healthy", resp.Components["cache"].Status)
}

func TestHealthHandler_ReadinessUnhealthy(t *testing.T) {
	h := NewHealthHandler("dev", nil,
		PingChecker("cache", cache.NewMemoryStore()),
		PingChecker("redis", failingPinger{err: errors.New("connection refused")}),
	)
	w := serveHealth(h, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["redis"].Status)
	assert.Equal(t, "connection refused", resp.Components["redis"].Error)
	assert.Equal(t, "healthy", resp.Components["cache"].Status)
}
