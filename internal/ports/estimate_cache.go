package ports

import (
	"context"
	"time"
)

// Port: a boundary for caching travel estimates. Estimates are keyed by
// (origin, destination, departure minute) because traffic predictions are
// time-specific, and entries expire because predictions go stale.
//
// A false second return value means "miss"; errors are reserved for backend
// failures, which callers are expected to tolerate by falling through to the
// provider.
type EstimateCache interface {
	Get(ctx context.Context, origin, destination string, departAt time.Time) (TravelEstimate, bool, error)
	Put(ctx context.Context, origin, destination string, departAt time.Time, estimate TravelEstimate) error
}

// Port: a boundary for caching geocode lookups keyed by normalized address.
type GeocodeCache interface {
	Get(ctx context.Context, address string) (GeocodeResult, bool, error)
	Put(ctx context.Context, address string, result GeocodeResult) error
}
