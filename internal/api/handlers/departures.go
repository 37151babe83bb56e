package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"departure-window-service/internal/api/dto"
	"departure-window-service/internal/domain"
	"departure-window-service/internal/ports"
	"departure-window-service/internal/services"
)

// DepartureOptimizer is the slice of the optimizer the handler depends on.
type DepartureOptimizer interface {
	OptimizeDeparture(ctx context.Context, req services.OptimizeRequest) (*domain.OptimizationResult, error)
}

type DepartureHandler struct {
	Optimizer DepartureOptimizer
}

// Optimize runs the departure-time search for one origin/destination pair
// and a departure window given as "HH:MM" bounds.
func (h *DepartureHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.DepartureRequest

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

	result, err := h.Optimizer.OptimizeDeparture(r.Context(), services.OptimizeRequest{
		Origin:            req.Origin,
		Destination:       req.Destination,
		EarliestDeparture: req.EarliestDeparture,
		LatestArrival:     req.LatestArrival,
	})
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	res := dto.DepartureResponse{
		Optimal: toOptionResponse(result.Optimal),
		Options: make([]dto.DepartureOptionResponse, 0, len(result.Options)),
	}
	for _, opt := range result.Options {
		res.Options = append(res.Options, toOptionResponse(opt))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// writeOptimizeError maps optimizer failures onto HTTP statuses. Top-level
// failure messages are rendered verbatim; only unrecognized errors are hidden
// behind a generic 500.
func writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalidTime *domain.ErrInvalidTimeOfDay
	switch {
	case errors.As(err, &invalidTime),
		errors.Is(err, ports.ErrInvalidAddress),
		errors.Is(err, services.ErrArrivalNotAfterDeparture),
		errors.Is(err, services.ErrDepartureInPast),
		errors.Is(err, services.ErrWindowTooShort):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrNoViableDeparture):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var allFailed *services.AllSamplesFailedError
	if errors.As(err, &allFailed) {
		writeError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	log.Printf("optimize departure failed: %v", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func toOptionResponse(opt domain.DepartureOption) dto.DepartureOptionResponse {
	return dto.DepartureOptionResponse{
		DepartAt:         domain.FormatClock24(opt.DepartAt),
		DepartAtDisplay:  domain.FormatClock(opt.DepartAt),
		ArriveAt:         domain.FormatClock24(opt.ArriveAt),
		ArriveAtDisplay:  domain.FormatClock(opt.ArriveAt),
		DurationSeconds:  opt.DurationSeconds,
		DistanceMeters:   opt.DistanceMeters,
		TrafficCondition: opt.Condition.String(),
	}
}
