package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"departure-window-service/internal/api/dto"
	"departure-window-service/internal/domain"
	"departure-window-service/internal/services"
)

type stubOptimizer struct {
	result *domain.OptimizationResult
	err    error
}

func (s *stubOptimizer) OptimizeDeparture(ctx context.Context, req services.OptimizeRequest) (*domain.OptimizationResult, error) {
	return s.result, s.err
}

func postDepartures(t *testing.T, opt DepartureOptimizer, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := &DepartureHandler{Optimizer: opt}
	req := httptest.NewRequest(http.MethodPost, "/departures", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)
	return rec
}

const validBody = `{"origin":"A","destination":"B","earliest_departure":"08:00","latest_arrival":"09:00"}`

func TestDepartureHandlerSuccess(t *testing.T) {
	depart := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)
	optimal := domain.DepartureOption{
		DepartAt:        depart,
		ArriveAt:        depart.Add(25 * time.Minute),
		DurationSeconds: 1500,
		DistanceMeters:  24000,
		Condition:       domain.TrafficLight,
	}

	rec := postDepartures(t, &stubOptimizer{
		result: &domain.OptimizationResult{
			Optimal: optimal,
			Options: []domain.DepartureOption{optimal},
		},
	}, validBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res dto.DepartureResponse
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if res.Optimal.DepartAt != "08:15" {
		t.Errorf("optimal depart_at = %q, want 08:15", res.Optimal.DepartAt)
	}
	if res.Optimal.DepartAtDisplay != "08:15 AM" {
		t.Errorf("optimal depart_at_display = %q, want 08:15 AM", res.Optimal.DepartAtDisplay)
	}
	if res.Optimal.TrafficCondition != "light" {
		t.Errorf("traffic_condition = %q, want light", res.Optimal.TrafficCondition)
	}
	if len(res.Options) != 1 {
		t.Errorf("options = %d, want 1", len(res.Options))
	}
}

func TestDepartureHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", services.ErrWindowTooShort, http.StatusBadRequest},
		{"past departure", services.ErrDepartureInPast, http.StatusBadRequest},
		{"no viable options", services.ErrNoViableDeparture, http.StatusUnprocessableEntity},
		{"all samples failed", &services.AllSamplesFailedError{Count: 4}, http.StatusBadGateway},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := postDepartures(t, &stubOptimizer{err: c.err}, validBody)
			if rec.Code != c.want {
				t.Fatalf("status = %d, want %d", rec.Code, c.want)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			// The top-level failure message is rendered verbatim.
			if body["error"] != c.err.Error() {
				t.Errorf("error = %q, want %q", body["error"], c.err.Error())
			}
		})
	}
}

func TestDepartureHandlerRejectsBadJSON(t *testing.T) {
	rec := postDepartures(t, &stubOptimizer{}, `{"origin":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDepartureHandlerRejectsUnknownFields(t *testing.T) {
	rec := postDepartures(t, &stubOptimizer{}, `{"origin":"A","unknown_field":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDepartureHandlerMethodNotAllowed(t *testing.T) {
	h := &DepartureHandler{Optimizer: &stubOptimizer{}}
	req := httptest.NewRequest(http.MethodGet, "/departures", nil)
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
