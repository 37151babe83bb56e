package routes

import (
	"context"
	"fmt"
	"time"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/ports"
)

// MockSample scripts one (origin, destination, departure) estimator response.
// Depart is the canonical 24-hour "HH:MM" clock of the departure instant.
type MockSample struct {
	Origin      string
	Destination string
	Depart      string
	Seconds     int
	Meters      int
	Condition   domain.TrafficCondition
	Err         error
}

// MockTravelTimeProvider serves scripted estimates for tests and records
// every call it receives.
type MockTravelTimeProvider struct {
	m     map[string]MockSample
	calls []time.Time
}

func NewMockTravelTimeProvider(samples []MockSample) *MockTravelTimeProvider {
	m := make(map[string]MockSample, len(samples))
	for _, s := range samples {
		m[s.Origin+"|"+s.Destination+"|"+s.Depart] = s
	}
	return &MockTravelTimeProvider{m: m}
}

func (p *MockTravelTimeProvider) EstimateTravelTime(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
) (ports.TravelEstimate, error) {
	p.calls = append(p.calls, departAt)

	key := origin + "|" + destination + "|" + domain.FormatClock24(departAt)
	s, ok := p.m[key]
	if !ok {
		return ports.TravelEstimate{}, fmt.Errorf("missing sample %q", key)
	}
	if s.Err != nil {
		return ports.TravelEstimate{}, s.Err
	}

	return ports.TravelEstimate{
		DurationSeconds: s.Seconds,
		DistanceMeters:  s.Meters,
		Condition:       s.Condition,
	}, nil
}

// Calls returns the departure instants queried so far, in call order.
func (p *MockTravelTimeProvider) Calls() []time.Time {
	return p.calls
}
