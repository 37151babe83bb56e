package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InitSchema creates the cache tables. The DDL is portable between SQLite
// (local runs) and Postgres (shared deployments via dbtool).
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createEstimateCacheQuery := `
	CREATE TABLE IF NOT EXISTS estimate_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        depart_minute BIGINT NOT NULL,
        duration_seconds INTEGER NOT NULL,
        distance_meters INTEGER NOT NULL,
        condition TEXT NOT NULL,
        expires_at BIGINT NOT NULL,
        PRIMARY KEY (origin, destination, depart_minute)
    );
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        formatted_address TEXT NOT NULL,
        lat REAL NOT NULL,
        lng REAL NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_estimate_cache_expires_at
    ON estimate_cache(expires_at);
	`

	statements := []string{
		createEstimateCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PruneExpired deletes estimate rows whose TTL has elapsed. Geocode entries
// are address-keyed and do not expire.
func PruneExpired(db *sql.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("prune expired: DB is nil")
	}

	res, err := db.Exec(`DELETE FROM estimate_cache WHERE expires_at < $1;`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune expired: delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune expired: rows affected: %w", err)
	}

	return n, nil
}
