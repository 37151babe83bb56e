package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/ports"
)

// SQLite backed cache for travel estimates, used for local runs.
// Keys are expected to be consistent (e.g., already normalized)
// by the caller.
type SqliteEstimateCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSqliteEstimateCache(db *sql.DB, ttl time.Duration) *SqliteEstimateCache {
	return &SqliteEstimateCache{DB: db, TTL: ttl}
}

func (s *SqliteEstimateCache) Get(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
) (ports.TravelEstimate, bool, error) {
	if s.DB == nil {
		return ports.TravelEstimate{}, false, errors.New("estimate cache: db is nil")
	}

	if origin == "" || destination == "" {
		return ports.TravelEstimate{}, false, errors.New("get estimate cache: origin and destination must not be empty")
	}

	q := `
	SELECT duration_seconds, distance_meters, condition
    FROM estimate_cache
    WHERE origin = ?
        AND destination = ?
        AND depart_minute = ?
        AND expires_at >= ?;
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

func (s *SqliteEstimateCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	departAt time.Time,
	estimate ports.TravelEstimate,
) error {
	if s.DB == nil {
		return errors.New("estimate cache: db is nil")
	}

	if origin == "" || destination == "" {
		return errors.New("insert estimate cache: origin and destination must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO estimate_cache (
        origin,
        destination,
        depart_minute,
        duration_seconds,
        distance_meters,
        condition,
        expires_at
    )
    VALUES (?, ?, ?, ?, ?, ?, ?);
	`

	expiresAt := time.Now().Add(s.TTL).Unix()
	_, err := s.DB.ExecContext(
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
