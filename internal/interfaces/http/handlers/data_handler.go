package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/middleware"
)

// DataService produces the encoded dashboard payload.
type DataService interface {
	Data(ctx context.Context, refresh bool) ([]byte, error)
	Dataset(ctx context.Context, name string) ([]byte, error)
}

// DataHandler serves the analytics payload.
type DataHandler struct {
	svc    DataService
	logger logging.Logger
}

// NewDataHandler creates a DataHandler.
func NewDataHandler(svc DataService, logger logging.Logger) *DataHandler {
	return &DataHandler{svc: svc, logger: logging.OrDefault(logger)}
}

// RegisterRoutes mounts the data endpoints on r.
func (h *DataHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/data", h.All)
	r.Get("/api/data/{dataset}", h.One)
}

// All handles GET /api/data[?refresh=true].
func (h *DataHandler) All(w http.ResponseWriter, r *http.Request) {
	refresh := middleware.IsRefreshRequest(r)
	body, err := h.svc.Data(r.Context(), refresh)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

// One handles GET /api/data/{dataset}.
func (h *DataHandler) One(w http.ResponseWriter, r *http.Request) {
	body, err := h.svc.Dataset(r.Context(), chi.URLParam(r, "dataset"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeRaw(w, http.StatusOK, body)
}

//Personal.AI order the ending
