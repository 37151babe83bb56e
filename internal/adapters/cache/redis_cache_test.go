package cache

import (
	"context"
	"testing"
	"time"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestRedisEstimateCachePutGet(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisEstimateCache(client, 10*time.Minute)

	depart := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)
	want := ports.TravelEstimate{
		DurationSeconds: 1500,
		DistanceMeters:  24000,
		Condition:       domain.TrafficHeavy,
	}

	if _, ok, err := c.Get(context.Background(), "A", "B", depart); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(context.Background(), "A", "B", depart, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(context.Background(), "A", "B", depart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRedisEstimateCacheKeysByDepartureMinute(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisEstimateCache(client, 10*time.Minute)

	depart := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)
	est := ports.TravelEstimate{DurationSeconds: 900}

	if err := c.Put(context.Background(), "A", "B", depart, est); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same minute, different second: still a hit.
	if _, ok, _ := c.Get(context.Background(), "A", "B", depart.Add(30*time.Second)); !ok {
		t.Error("expected hit within the same departure minute")
	}

	// A different departure minute is a different prediction.
	if _, ok, _ := c.Get(context.Background(), "A", "B", depart.Add(15*time.Minute)); ok {
		t.Error("expected miss for a different departure minute")
	}
}

func TestRedisEstimateCacheExpires(t *testing.T) {
	srv, client := newTestRedis(t)
	c := NewRedisEstimateCache(client, time.Minute)

	depart := time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)
	if err := c.Put(context.Background(), "A", "B", depart, ports.TravelEstimate{DurationSeconds: 900}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(context.Background(), "A", "B", depart); err != nil || ok {
		t.Fatalf("expected miss after TTL, got ok=%v err=%v", ok, err)
	}
}

func TestRedisGeocodeCachePutGet(t *testing.T) {
	_, client := newTestRedis(t)
	c := NewRedisGeocodeCache(client)

	want := ports.GeocodeResult{
		FormattedAddress: "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
		Location:         domain.Coordinates{Lat: 37.4224, Lng: -122.0842},
	}

	if err := c.Put(context.Background(), "1600 Amphitheatre Pkwy", want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := c.Get(context.Background(), "1600 Amphitheatre Pkwy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
