package handlers

import "net/http"

// StatusResponse is the fixed payload of GET /api/vercel.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// Status reports that the API process is up.  It never touches datasets.
func Status(version string) http.HandlerFunc {
	resp := StatusResponse{
		Status:  "ok",
		Message: "EnviroLens API is running",
		Version: version,
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

//Personal.AI order the ending
