package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/platform/obs"
	"departure-window-service/internal/ports"
)

// SQLEstimateCache is a Postgres-backed cache for travel estimates keyed by
// (origin, destination, departure minute). Keys are expected to be consistent
// (e.g., already normalized) by the caller. Entries expire after TTL because
// traffic predictions go stale.
type SQLEstimateCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLEstimateCache(db *sql.DB, ttl time.Duration) *SQLEstimateCache {
	return &SQLEstimateCache{DB: db, TTL: ttl}
}

func (s *SQLEstimateCache) Get(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
) (_ ports.TravelEstimate, _ bool, err error) {
	defer obs.Time(ctx, "estimate.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.TravelEstimate{}, false, errors.New("estimate cache: db is nil")
	}

	if origin == "" || destination == "" {
		return ports.TravelEstimate{}, false, errors.New("get estimate cache: origin and destination must not be empty")
	}

	q := `
	SELECT duration_seconds, distance_meters, condition
    FROM estimate_cache
    WHERE origin = $1
        AND destination = $2
        AND depart_minute = $3
        AND expires_at >= $4;
	`

	var (
		seconds   int
		meters    int
		condition string
	)
	row := s.DB.QueryRowContext(ctx, q, origin, destination, departMinute(departAt), time.Now().Unix())
	if err := row.Scan(&seconds, &meters, &condition); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.TravelEstimate{}, false, nil
		}
		return ports.TravelEstimate{}, false, fmt.Errorf("get estimate cache: scan row: %w", err)
	}

	return ports.TravelEstimate{
		DurationSeconds: seconds,
		DistanceMeters:  meters,
		Condition:       domain.ParseTrafficCondition(condition),
	}, true, nil
}

func (s *SQLEstimateCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
	estimate ports.TravelEstimate,
) (err error) {
	defer obs.Time(ctx, "estimate.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("estimate cache: db is nil")
	}

	if origin == "" || destination == "" {
		return errors.New("insert estimate cache: origin and destination must not be empty")
	}

	q := `
	INSERT INTO estimate_cache (
        origin,
        destination,
        depart_minute,
        duration_seconds,
        distance_meters,
        condition,
        expires_at
    )
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (origin, destination, depart_minute) DO UPDATE SET
        duration_seconds = EXCLUDED.duration_seconds,
        distance_meters = EXCLUDED.distance_meters,
        condition = EXCLUDED.condition,
        expires_at = EXCLUDED.expires_at;
	`

	expiresAt := time.Now().Add(s.TTL).Unix()
	_, err = s.DB.ExecContext(
		ctx, q,
		origin, destination, departMinute(departAt),
		estimate.DurationSeconds, estimate.DistanceMeters, estimate.Condition.String(),
		expiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert estimate cache %q -> %q: %w", origin, destination, err)
	}

	return nil
}
