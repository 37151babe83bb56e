package ports

import (
	"context"
	"errors"
	"time"

	"departure-window-service/internal/domain"
)

// TravelEstimate is the predicted travel time, distance and traffic condition
// for one (origin, destination, departure) query.
type TravelEstimate struct {
	DurationSeconds int
	DistanceMeters  int
	Condition       domain.TrafficCondition
}

// Provider failure classes. Callers distinguish them with errors.Is; the
// optimizer treats them all as "this sample failed" but the API layer may
// message them differently.
var (
	// ErrInvalidAddress reports a missing or empty input address.
	ErrInvalidAddress = errors.New("origin and destination must be non-empty")

	// ErrMissingCredentials reports absent or rejected provider credentials.
	ErrMissingCredentials = errors.New("routing provider credentials missing or invalid")

	// ErrNoRoute reports that the provider found no route between the endpoints.
	ErrNoRoute = errors.New("no route found between origin and destination")

	// ErrMalformedResponse reports a provider response missing required fields.
	ErrMalformedResponse = errors.New("malformed routing provider response")

	// ErrProviderUnavailable reports a transport-level failure (network,
	// timeout, upstream 5xx, open circuit).
	ErrProviderUnavailable = errors.New("routing provider unavailable")
)

// Contract for querying predicted travel time at a specific departure instant.
type TravelTimeProvider interface {
	// EstimateTravelTime returns the travel estimate for departing from origin
	// toward destination at departAt. The departure is an absolute instant,
	// not a daily-recurring time of day.
	EstimateTravelTime(ctx context.Context, origin, destination string, departAt time.Time) (TravelEstimate, error)
}
