package routes

import (
	"context"
	"log"

	"departure-window-service/internal/ports"
)

// CachingGeocoder decorates a Geocoder with a geocode cache. Same degradation
// policy as CachingProvider: cache trouble falls through to the upstream.
type CachingGeocoder struct {
	Inner ports.Geocoder
	Cache ports.GeocodeCache
}

func NewCachingGeocoder(inner ports.Geocoder, cache ports.GeocodeCache) *CachingGeocoder {
	return &CachingGeocoder{Inner: inner, Cache: cache}
}

func (c *CachingGeocoder) Geocode(ctx context.Context, address string) (ports.GeocodeResult, error) {
	if c.Cache != nil {
		cached, ok, err := c.Cache.Get(ctx, address)
		if err != nil {
			log.Printf("geocode cache read failed: %v", err)
		} else if ok {
			return cached, nil
		}
	}

	result, err := c.Inner.Geocode(ctx, address)
	if err != nil {
		return ports.GeocodeResult{}, err
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, address, result); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return result, nil
}
