package routes

import (
	"context"
	"log"
	"time"

	"departure-window-service/internal/ports"
)

// CachingProvider decorates a TravelTimeProvider with an estimate cache.
// Cache failures degrade to a provider call (reads) or a log line (writes);
// they never fail the lookup.
type CachingProvider struct {
	Inner ports.TravelTimeProvider
	Cache ports.EstimateCache
}

func NewCachingProvider(inner ports.TravelTimeProvider, cache ports.EstimateCache) *CachingProvider {
	return &CachingProvider{Inner: inner, Cache: cache}
}

func (c *CachingProvider) EstimateTravelTime(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
) (ports.TravelEstimate, error) {
	if c.Cache != nil {
		cached, ok, err := c.Cache.Get(ctx, origin, destination, departAt)
		if err != nil {
			log.Printf("estimate cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	estimate, err := c.Inner.EstimateTravelTime(ctx, origin, destination, departAt)
	if err != nil {
		return ports.TravelEstimate{}, err
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, origin, destination, departAt, estimate); err != nil {
			log.Printf("estimate cache write failed: %v", err)
		}
	}

	return estimate, nil
}
