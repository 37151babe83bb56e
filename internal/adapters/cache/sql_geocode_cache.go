package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/platform/obs"
	"departure-window-service/internal/ports"
)

// SQLGeocodeCache is a Postgres-backed cache mapping normalized addresses to
// resolved locations. Geocode results are stable, so entries do not expire.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) Get(
	ctx context.Context,
	address string,
) (_ ports.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.GeocodeResult{}, false, errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return ports.GeocodeResult{}, false, errors.New("get geocode cache: address must not be empty")
	}

	q := `
	SELECT formatted_address, lat, lng
    FROM geocode_cache
    WHERE address = $1;
	`

	var (
		formatted string
		lat, lng  float64
	)
	row := s.DB.QueryRowContext(ctx, q, address)
	if err := row.Scan(&formatted, &lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.GeocodeResult{}, false, nil
		}
		return ports.GeocodeResult{}, false, fmt.Errorf("get geocode cache: scan row: %w", err)
	}

	return ports.GeocodeResult{
		FormattedAddress: formatted,
		Location:         domain.Coordinates{Lat: lat, Lng: lng},
	}, true, nil
}

func (s *SQLGeocodeCache) Put(
	ctx context.Context,
	address string,
	result ports.GeocodeResult,
) (err error) {
	defer obs.Time(ctx, "geocode.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	q := `
	INSERT INTO geocode_cache (address, formatted_address, lat, lng)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (address) DO UPDATE SET
        formatted_address = EXCLUDED.formatted_address,
        lat = EXCLUDED.lat,
        lng = EXCLUDED.lng;
	`

	if _, err := s.DB.ExecContext(ctx, q, address, result.FormattedAddress, result.Location.Lat, result.Location.Lng); err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", address, err)
	}

	return nil
}
