package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/ports"
)

// SQLite backed cache mapping normalized addresses to resolved locations,
// used for local runs.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

func (s *SqliteGeocodeCache) Get(
	ctx context.Context,
	address string,
) (ports.GeocodeResult, bool, error) {
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
    WHERE address = ?;
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

func (s *SqliteGeocodeCache) Put(
	ctx context.Context,
	address string,
	result ports.GeocodeResult,
) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("insert geocode cache: address must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (address, formatted_address, lat, lng)
    VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, address, result.FormattedAddress, result.Location.Lat, result.Location.Lng); err != nil {
		return fmt.Errorf("insert geocode cache %q: %w", address, err)
	}

	return nil
}
