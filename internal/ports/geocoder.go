package ports

import (
	"context"
	"errors"

	"departure-window-service/internal/domain"
)

// ErrNoGeocodeResult reports that an address resolved to zero matches.
// Distinct from transport failure so callers can message it as user error.
var ErrNoGeocodeResult = errors.New("no geocode results for address")

// GeocodeResult is a resolved address.
type GeocodeResult struct {
	FormattedAddress string
	Location         domain.Coordinates
}

// Contract for resolving a free-form address to a canonical location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
}
