package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/platform/obs"
	"departure-window-service/internal/ports"
)

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-form address via the Maps Geocoding API.
// A "ZERO_RESULTS" status is surfaced as ErrNoGeocodeResult, distinct from
// transport failures, so callers can treat it as user input error.
func (p *GoogleRoutesProvider) Geocode(
	ctx context.Context,
	address string,
) (_ ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "routes.Geocode")(&err)

	norm := p.normalize(address)
	if norm == "" {
		return ports.GeocodeResult{}, fmt.Errorf("geocode: %w", ports.ErrInvalidAddress)
	}

	endpoint := p.geocodeBaseURL + "/maps/api/geocode/json"

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, http.MethodGet, endpoint, "", nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("address", norm)
		q.Set("key", p.apiKey)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.GeocodeResult{}, p.mapTransportError(err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("%w: decode geocode response: %v", ports.ErrMalformedResponse, err)
	}

	switch decoded.Status {
	case "OK":
	case "ZERO_RESULTS":
		return ports.GeocodeResult{}, fmt.Errorf("%w: %q", ports.ErrNoGeocodeResult, norm)
	case "REQUEST_DENIED":
		return ports.GeocodeResult{}, fmt.Errorf("%w: geocode status %s", ports.ErrMissingCredentials, decoded.Status)
	default:
		return ports.GeocodeResult{}, fmt.Errorf("%w: geocode status %s", ports.ErrProviderUnavailable, decoded.Status)
	}

	if len(decoded.Results) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("%w: %q", ports.ErrNoGeocodeResult, norm)
	}

	first := decoded.Results[0]
	return ports.GeocodeResult{
		FormattedAddress: first.FormattedAddress,
		Location: domain.Coordinates{
			Lat: first.Geometry.Location.Lat,
			Lng: first.Geometry.Location.Lng,
		},
	}, nil
}
