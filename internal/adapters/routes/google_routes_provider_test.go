package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/ports"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GoogleRoutesProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewGoogleRoutesProvider("test-key", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.routesBaseURL = srv.URL
	p.geocodeBaseURL = srv.URL
	return p
}

func TestNewGoogleRoutesProviderRequiresKey(t *testing.T) {
	_, err := NewGoogleRoutesProvider("  ", nil)
	if !errors.Is(err, ports.ErrMissingCredentials) {
		t.Fatalf("error = %v, want ErrMissingCredentials", err)
	}
}

func TestEstimateTravelTimeRequestShape(t *testing.T) {
	depart := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)

	var captured computeRoutesRequest
	var gotMask, gotKey string

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotMask = r.Header.Get("X-Goog-FieldMask")
		gotKey = r.Header.Get("X-Goog-Api-Key")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{{"duration": "1500s", "distanceMeters": 24000}},
		})
	})

	est, err := p.EstimateTravelTime(context.Background(), "  123 Main   St ", "456 Oak Ave", depart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotMask != computeRoutesFieldMask {
		t.Errorf("field mask = %q, want %q", gotMask, computeRoutesFieldMask)
	}
	if captured.Origin.Address != "123 Main St" {
		t.Errorf("origin = %q, want whitespace-normalized address", captured.Origin.Address)
	}
	if captured.DepartureTime != depart.Format(time.RFC3339) {
		t.Errorf("departureTime = %q, want absolute RFC3339 %q", captured.DepartureTime, depart.Format(time.RFC3339))
	}
	if captured.TravelMode != "DRIVE" || captured.RoutingPreference != "TRAFFIC_AWARE" {
		t.Errorf("mode/preference = %q/%q", captured.TravelMode, captured.RoutingPreference)
	}
	if captured.ComputeAlternativeRoutes {
		t.Error("computeAlternativeRoutes must be false")
	}

	if est.DurationSeconds != 1500 {
		t.Errorf("duration = %d, want 1500", est.DurationSeconds)
	}
	if est.DistanceMeters != 24000 {
		t.Errorf("distance = %d, want 24000", est.DistanceMeters)
	}
	// No advisory data present: conservative default.
	if est.Condition != domain.TrafficModerate {
		t.Errorf("condition = %v, want moderate", est.Condition)
	}
}

func TestEstimateTravelTimeClassifiesAdvisory(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{{
				"duration":       "900s",
				"distanceMeters": 8000,
				"travelAdvisory": map[string]any{
					"speedReadingIntervals": []map[string]any{
						{"speed": "NORMAL"},
						{"speed": "SLOW"},
						{"speed": "SLOW"},
						{"speed": "SLOW"},
					},
				},
			}},
		})
	})

	est, err := p.EstimateTravelTime(context.Background(), "A", "B", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.Condition != domain.TrafficHeavy {
		t.Errorf("condition = %v, want heavy (3/4 slow)", est.Condition)
	}
}

func TestEstimateTravelTimeEmptyAddresses(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty addresses")
	})

	_, err := p.EstimateTravelTime(context.Background(), "", "B", time.Now())
	if !errors.Is(err, ports.ErrInvalidAddress) {
		t.Fatalf("error = %v, want ErrInvalidAddress", err)
	}
}

func TestEstimateTravelTimeNoRoute(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"routes": []any{}})
	})

	_, err := p.EstimateTravelTime(context.Background(), "A", "B", time.Now())
	if !errors.Is(err, ports.ErrNoRoute) {
		t.Fatalf("error = %v, want ErrNoRoute", err)
	}
}

func TestEstimateTravelTimeMalformedDuration(t *testing.T) {
	cases := []string{"", "1500", "s", "abc s"}

	for _, dur := range cases {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"routes": []map[string]any{{"duration": dur, "distanceMeters": 100}},
			})
		})

		_, err := p.EstimateTravelTime(context.Background(), "A", "B", time.Now())
		if !errors.Is(err, ports.ErrMalformedResponse) {
			t.Errorf("duration %q: error = %v, want ErrMalformedResponse", dur, err)
		}
	}
}

func TestEstimateTravelTimeAuthFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "API key invalid", http.StatusForbidden)
	})

	_, err := p.EstimateTravelTime(context.Background(), "A", "B", time.Now())
	if !errors.Is(err, ports.ErrMissingCredentials) {
		t.Fatalf("error = %v, want ErrMissingCredentials", err)
	}
}

func TestEstimateTravelTimeTransportFailure(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := p.EstimateTravelTime(context.Background(), "A", "B", time.Now())
	if !errors.Is(err, ports.ErrProviderUnavailable) {
		t.Fatalf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestEstimateTravelTimeRetriesTransientFailures(t *testing.T) {
	attempts := 0
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"routes": []map[string]any{{"duration": "600s", "distanceMeters": 5000}},
		})
	})

	est, err := p.EstimateTravelTime(context.Background(), "A", "B", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if est.DurationSeconds != 600 {
		t.Errorf("duration = %d, want 600", est.DurationSeconds)
	}
}

func TestGeocode(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "1600 Amphitheatre Pkwy" {
			t.Errorf("address param = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "OK",
			"results": []map[string]any{{
				"formatted_address": "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
				"geometry": map[string]any{
					"location": map[string]any{"lat": 37.4224, "lng": -122.0842},
				},
			}},
		})
	})

	res, err := p.Geocode(context.Background(), "1600  Amphitheatre Pkwy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Location.Lat != 37.4224 || res.Location.Lng != -122.0842 {
		t.Errorf("location = %+v", res.Location)
	}
}

func TestGeocodeZeroResults(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "ZERO_RESULTS", "results": []any{}})
	})

	_, err := p.Geocode(context.Background(), "nowhere at all")
	if !errors.Is(err, ports.ErrNoGeocodeResult) {
		t.Fatalf("error = %v, want ErrNoGeocodeResult", err)
	}
}
