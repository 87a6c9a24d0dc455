package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/EnviroLens/internal/config"
)

func corsRequest(h http.Handler, method, origin string, preflight bool) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "/api/data", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	if preflight {
		r.Header.Set("Access-Control-Request-Method", http.MethodGet)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestCORS_DefaultAllowsAnyOrigin(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	w := corsRequest(h, http.MethodGet, "https://dashboard.example.org", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	w := corsRequest(h, http.MethodOptions, "https://a.example.org", true)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))

	// OPTIONS without the preflight header reaches the handler.
	w = corsRequest(h, http.MethodOptions, "https://a.example.org", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())
	w := corsRequest(h, http.MethodGet, "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfigFrom_Restricted(t *testing.T) {
	cfg := CORSConfigFrom(config.CORSConfig{
		AllowedOrigins: []string{"https://envirolens.my", "*.gov.my"},
		MaxAge:         600,
	})
	assert.True(t, cfg.AllowWildcard)
	assert.Equal(t, 600, cfg.MaxAge)
	h := CORS(cfg)(okHandler())

	w := corsRequest(h, http.MethodGet, "https://envirolens.my", false)
	assert.Equal(t, "https://envirolens.my", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(h, http.MethodGet, "https://data.gov.my", false)
	assert.Equal(t, "https://data.gov.my", w.Header().Get("Access-Control-Allow-Origin"))

	w = corsRequest(h, http.MethodGet, "https://evil.example", false)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}
