package handlers

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// DashboardPage is the file served at "/".
const DashboardPage = "dashboard.html"

//go:embed assets
var embeddedAssets embed.FS

// StaticHandler serves the dashboard page and its assets, from dir when set
// and from the embedded copy otherwise.
type StaticHandler struct {
	files fs.FS
}

// NewStaticHandler creates a StaticHandler.  A non-empty dir must exist.
func NewStaticHandler(dir string) (*StaticHandler, error) {
	if dir == "" {
		sub, err := fs.Sub(embeddedAssets, "assets")
		if err != nil {
			return nil, err
		}
		return &StaticHandler{files: sub}, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: dir, Err: fs.ErrInvalid}
	}
	return &StaticHandler{files: os.DirFS(filepath.Clean(dir))}, nil
}

// RegisterRoutes mounts "/" and "/static/*".
func (h *StaticHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.files))))
}

// Index serves the dashboard page.
func (h *StaticHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(h.files, DashboardPage)
	if err != nil {
		NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

//Personal.AI order the ending
