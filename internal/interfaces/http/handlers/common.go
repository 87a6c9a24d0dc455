// Package handlers implements the EnviroLens HTTP endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/middleware"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

// writeJSON writes data as JSON with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeRaw writes an already-encoded JSON body unchanged, so cached payloads
// stay byte-identical across responses.
func writeRaw(w http.ResponseWriter, statusCode int, body []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// writeError writes the standard {"error", "code"} body.
func writeError(w http.ResponseWriter, statusCode int, msg string, code errors.ErrorCode) {
	c := string(code)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		c = ""
	}
	middleware.WriteError(w, statusCode, msg, c)
}

// writeAppError maps err onto an HTTP status through its error code.  5xx
// responses are logged.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	msg := err.Error()
	var ae *errors.AppError
	if errors.As(err, &ae) && ae.Message != "" {
		msg = ae.Message
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			logging.String("path", r.URL.Path),
			logging.String("code", string(code)),
			logging.String("request_id", middleware.ContextGetRequestID(r.Context())),
			logging.Err(err))
	}
	writeError(w, status, msg, code)
}

// NotFound is the JSON 404 fallback for unmatched routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, errors.DefaultMessageForCode(errors.CodeNotFound), errors.CodeNotFound)
}

// MethodNotAllowed is the JSON 405 fallback.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed", errors.CodeInvalidParam)
}

//Personal.AI order the ending
