package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"departure-window-service/internal/api/dto"
	"departure-window-service/internal/ports"
)

type GeocodeHandler struct {
	Geocoder ports.Geocoder
}

// Resolve validates a free-form address against the geocoding collaborator.
// Used by clients to confirm an address before running an optimization.
func (h *GeocodeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.GeocodeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	result, err := h.Geocoder.Geocode(r.Context(), req.Address)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrInvalidAddress):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ports.ErrNoGeocodeResult):
			writeError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Printf("geocode failed: %v", err)
			writeError(w, r, http.StatusBadGateway, "geocoding provider unavailable")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{
		FormattedAddress: result.FormattedAddress,
		Lat:              result.Location.Lat,
		Lng:              result.Location.Lng,
	})
}
