package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"departure-window-service/internal/platform/obs"
	"departure-window-service/internal/ports"

	"github.com/sony/gobreaker/v2"
)

// computeRoutesFieldMask limits the response to the fields the adapter
// consumes. The Routes API rejects requests without a mask.
const computeRoutesFieldMask = "routes.duration,routes.distanceMeters,routes.travelAdvisory"

// GoogleRoutesProvider implements TravelTimeProvider against the Google
// Routes API (computeRoutes) and Geocoder against the Maps Geocoding API.
//
// It coordinates:
//   - Address normalization
//   - Traffic-aware travel time queries at absolute departure instants
//   - Traffic condition classification via a pluggable policy
//   - External API calls with retry/backoff behind a circuit breaker
//
// The provider is safe for concurrent use.
type GoogleRoutesProvider struct {
	session        *http.Client
	breaker        *gobreaker.CircuitBreaker[*http.Response]
	apiKey         string
	routesBaseURL  string
	geocodeBaseURL string
	classify       Classifier
}

// ProviderOption is a functional option for configuring a GoogleRoutesProvider.
type ProviderOption func(*GoogleRoutesProvider)

// WithHTTPClient overrides the default HTTP client (and its per-call timeout).
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *GoogleRoutesProvider) {
		p.session = client
	}
}

// WithBaseURLs overrides the upstream endpoints. Empty values keep the
// defaults.
func WithBaseURLs(routesURL, geocodeURL string) ProviderOption {
	return func(p *GoogleRoutesProvider) {
		if routesURL != "" {
			p.routesBaseURL = routesURL
		}
		if geocodeURL != "" {
			p.geocodeBaseURL = geocodeURL
		}
	}
}

func NewGoogleRoutesProvider(apiKey string, classify Classifier, opts ...ProviderOption) (*GoogleRoutesProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("new routes provider: %w", ports.ErrMissingCredentials)
	}

	if classify == nil {
		classify = ClassifyTraffic
	}

	provider := &GoogleRoutesProvider{
		session:        &http.Client{Timeout: 10 * time.Second},
		breaker:        newRoutesBreaker("google-routes"),
		apiKey:         apiKey,
		routesBaseURL:  "https://routes.googleapis.com",
		geocodeBaseURL: "https://maps.googleapis.com",
		classify:       classify,
	}

	for _, opt := range opts {
		opt(provider)
	}

	return provider, nil
}

// normalize ensures consistent request and cache keys by collapsing whitespace.
func (p *GoogleRoutesProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type waypoint struct {
	Address string `json:"address"`
}

type routeModifiers struct {
	AvoidTolls    bool `json:"avoidTolls"`
	AvoidHighways bool `json:"avoidHighways"`
	AvoidFerries  bool `json:"avoidFerries"`
}

type computeRoutesRequest struct {
	Origin                   waypoint       `json:"origin"`
	Destination              waypoint       `json:"destination"`
	TravelMode               string         `json:"travelMode"`
	RoutingPreference        string         `json:"routingPreference"`
	DepartureTime            string         `json:"departureTime"`
	ComputeAlternativeRoutes bool           `json:"computeAlternativeRoutes"`
	RouteModifiers           routeModifiers `json:"routeModifiers"`
	LanguageCode             string         `json:"languageCode"`
	Units                    string         `json:"units"`
}

type speedReadingInterval struct {
	StartPolylinePointIndex int    `json:"startPolylinePointIndex"`
	EndPolylinePointIndex   int    `json:"endPolylinePointIndex"`
	Speed                   string `json:"speed"`
}

type travelAdvisory struct {
	SpeedReadingIntervals []speedReadingInterval `json:"speedReadingIntervals"`
}

type computeRoutesResponse struct {
	Routes []struct {
		Duration       string          `json:"duration"`
		DistanceMeters int             `json:"distanceMeters"`
		TravelAdvisory *travelAdvisory `json:"travelAdvisory"`
	} `json:"routes"`
}

// EstimateTravelTime queries predicted travel time for departing at the given
// absolute instant. The departure is serialized as RFC3339 because the
// upstream interprets timestamps as absolute points, not daily-recurring
// times of day.
func (p *GoogleRoutesProvider) EstimateTravelTime(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
) (_ ports.TravelEstimate, err error) {
	defer obs.Time(ctx, "routes.EstimateTravelTime")(&err)

	normOrigin := p.normalize(origin)
	normDestination := p.normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.TravelEstimate{}, fmt.Errorf("estimate travel time: %w", ports.ErrInvalidAddress)
	}

	bodyObj := computeRoutesRequest{
		Origin:            waypoint{Address: normOrigin},
		Destination:       waypoint{Address: normDestination},
		TravelMode:        "DRIVE",
		RoutingPreference: "TRAFFIC_AWARE",
		DepartureTime:     departAt.Format(time.RFC3339),
		RouteModifiers: routeModifiers{
			AvoidTolls:    false,
			AvoidHighways: false,
			AvoidFerries:  false,
		},
		LanguageCode: "en-US",
		Units:        "IMPERIAL",
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("marshal compute routes request: %w", err)
	}

	endpoint := p.routesBaseURL + "/directions/v2:computeRoutes"

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return p.newRequest(ctx, http.MethodPost, endpoint, computeRoutesFieldMask, body)
	})
	if err != nil {
		return ports.TravelEstimate{}, p.mapTransportError(err)
	}
	defer resp.Body.Close()

	var decoded computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("%w: decode compute routes response: %v", ports.ErrMalformedResponse, err)
	}

	if len(decoded.Routes) == 0 {
		return ports.TravelEstimate{}, fmt.Errorf(
			"%w: %q -> %q", ports.ErrNoRoute, normOrigin, normDestination,
		)
	}

	route := decoded.Routes[0]

	seconds, err := parseDurationSeconds(route.Duration)
	if err != nil {
		return ports.TravelEstimate{}, fmt.Errorf("%w: %v", ports.ErrMalformedResponse, err)
	}

	var readings []SpeedReading
	if route.TravelAdvisory != nil {
		readings = make([]SpeedReading, 0, len(route.TravelAdvisory.SpeedReadingIntervals))
		for _, iv := range route.TravelAdvisory.SpeedReadingIntervals {
			readings = append(readings, SpeedReading{Speed: iv.Speed})
		}
	}

	return ports.TravelEstimate{
		DurationSeconds: seconds,
		DistanceMeters:  route.DistanceMeters,
		Condition:       p.classify(readings),
	}, nil
}

// parseDurationSeconds parses the Routes API duration encoding: a decimal
// count of seconds with a trailing "s" unit (e.g. "1500s").
func parseDurationSeconds(s string) (int, error) {
	trimmed := strings.TrimSuffix(s, "s")
	if trimmed == "" || trimmed == s {
		return 0, fmt.Errorf("missing or unitless duration %q", s)
	}

	seconds, err := strconv.Atoi(trimmed)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	return seconds, nil
}

// mapTransportError folds transport-layer failures into the typed provider
// error classes the caller can branch on.
func (p *GoogleRoutesProvider) mapTransportError(err error) error {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ports.ErrMissingCredentials, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ports.ErrNoRoute, err)
		}
	}
	return fmt.Errorf("%w: %v", ports.ErrProviderUnavailable, err)
}
