package api

import (
	"net/http"

	"departure-window-service/internal/api/handlers"
	"departure-window-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(optimizer handlers.DepartureOptimizer, geocoder ports.Geocoder) http.Handler {
	mux := http.NewServeMux()

	departureHandler := &handlers.DepartureHandler{Optimizer: optimizer}
	geocodeHandler := &handlers.GeocodeHandler{Geocoder: geocoder}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/departures", departureHandler.Optimize)
	mux.HandleFunc("/geocode", geocodeHandler.Resolve)

	// Request IDs are assigned first so the access log can report them.
	return requestIDMiddleware(loggingMiddleware(mux))
}
