package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"departure-window-service/internal/platform/obs"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("req_id=%s encode failed: method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

// writeError renders the single-field error body every endpoint uses.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
