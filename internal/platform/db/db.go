package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the shared Postgres cache database. Pool limits are sized
// for a cache workload: short point reads and single-row upserts.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("open db: verify postgres connection: %w", err)
	}

	return db, nil
}
