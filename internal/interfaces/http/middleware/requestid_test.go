package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func captureRequestID(t *testing.T, header string) (seen, echoed string) {
	t.Helper()
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ContextGetRequestID(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set(RequestIDHeader, header)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return seen, w.Header().Get(RequestIDHeader)
}

func TestRequestID_Propagates(t *testing.T) {
	seen, echoed := captureRequestID(t, "abc-123.x_y")
	assert.Equal(t, "abc-123.x_y", seen)
	assert.Equal(t, "abc-123.x_y", echoed)
}

func TestRequestID_GeneratesWhenMissingOrInvalid(t *testing.T) {
	for _, in := range []string{"", "has space", "<script>", strings.Repeat("a", 65)} {
		seen, echoed := captureRequestID(t, in)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err, in)
		assert.Equal(t, seen, echoed)
	}
}

func TestContextGetRequestID_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ContextGetRequestID(r.Context()))
}
