package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
)

// ErrorBody is the JSON error shape of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteError writes {"error": msg, "code": code} with status.
func WriteError(w http.ResponseWriter, status int, msg, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: msg, Code: code})
}

// Recoverer turns a handler panic into a logged 500 JSON response.
func Recoverer(logger logging.Logger) func(http.Handler) http.Handler {
	logger = logging.OrDefault(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic while serving request",
					logging.String("path", r.URL.Path),
					logging.String("request_id", ContextGetRequestID(r.Context())),
					logging.Any("panic", rec),
					logging.String("stack", string(debug.Stack())))
				WriteError(w, http.StatusInternalServerError, fmt.Sprint(rec), "")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

//Personal.AI order the ending
