package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisEstimateCache stores travel estimates in Redis with a TTL, for
// deployments where several instances share one cache. Expiry is delegated
// to Redis itself.
type RedisEstimateCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisEstimateCache(client *redis.Client, ttl time.Duration) *RedisEstimateCache {
	return &RedisEstimateCache{Client: client, TTL: ttl}
}

type estimateEntry struct {
	DurationSeconds int    `json:"duration_seconds"`
	DistanceMeters  int    `json:"distance_meters"`
	Condition       string `json:"condition"`
}

func estimateKey(origin, destination string, departAt time.Time) string {
	return fmt.Sprintf("est:%s|%s|%d", origin, destination, departMinute(departAt))
}

func (c *RedisEstimateCache) Get(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
) (ports.TravelEstimate, bool, error) {
	if c.Client == nil {
		return ports.TravelEstimate{}, false, errors.New("estimate cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, estimateKey(origin, destination, departAt)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.TravelEstimate{}, false, nil
	}
	if err != nil {
		return ports.TravelEstimate{}, false, fmt.Errorf("get estimate cache: %w", err)
	}

	var entry estimateEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return ports.TravelEstimate{}, false, fmt.Errorf("get estimate cache: decode entry: %w", err)
	}

	return ports.TravelEstimate{
		DurationSeconds: entry.DurationSeconds,
		DistanceMeters:  entry.DistanceMeters,
		Condition:       domain.ParseTrafficCondition(entry.Condition),
	}, true, nil
}

func (c *RedisEstimateCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
	estimate ports.TravelEstimate,
) error {
	if c.Client == nil {
		return errors.New("estimate cache: redis client is nil")
	}

	raw, err := json.Marshal(estimateEntry{
		DurationSeconds: estimate.DurationSeconds,
		DistanceMeters:  estimate.DistanceMeters,
		Condition:       estimate.Condition.String(),
	})
	if err != nil {
		return fmt.Errorf("insert estimate cache: encode entry: %w", err)
	}

	if err := c.Client.Set(ctx, estimateKey(origin, destination, departAt), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert estimate cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}

// RedisGeocodeCache stores resolved addresses in Redis. Geocode results are
// stable, so entries are written without expiry.
type RedisGeocodeCache struct {
	Client *redis.Client
}

func NewRedisGeocodeCache(client *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client}
}

type geocodeEntry struct {
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

func (c *RedisGeocodeCache) Get(ctx context.Context, address string) (ports.GeocodeResult, bool, error) {
	if c.Client == nil {
		return ports.GeocodeResult{}, false, errors.New("geocode cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, "geo:"+address).Result()
	if errors.Is(err, redis.Nil) {
		return ports.GeocodeResult{}, false, nil
	}
	if err != nil {
		return ports.GeocodeResult{}, false, fmt.Errorf("get geocode cache: %w", err)
	}

	var entry geocodeEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return ports.GeocodeResult{}, false, fmt.Errorf("get geocode cache: decode entry: %w", err)
	}

	return ports.GeocodeResult{
		FormattedAddress: entry.FormattedAddress,
		Location:         domain.Coordinates{Lat: entry.Lat, Lng: entry.Lng},
	}, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, address string, result ports.GeocodeResult) error {
	if c.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	raw, err := json.Marshal(geocodeEntry{
		FormattedAddress: result.FormattedAddress,
		Lat:              result.Location.Lat,
		Lng:              result.Location.Lng,
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode entry: %w", err)
	}

	if err := c.Client.Set(ctx, "geo:"+address, raw, 0).Err(); err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", address, err)
	}

	return nil
}
