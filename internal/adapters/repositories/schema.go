package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Initialize the Postgres schema backing the search and route caches.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createSearchCacheQuery := `
	CREATE TABLE IF NOT EXISTS search_cache (
        query TEXT NOT NULL,
        result_count INTEGER NOT NULL,
        rank INTEGER NOT NULL,
        name TEXT,
        lon DOUBLE PRECISION,
        lat DOUBLE PRECISION,
        cached_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (query, rank)
    );
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        mode TEXT NOT NULL,
        distance_meters DOUBLE PRECISION NOT NULL,
        geometry JSONB NOT NULL,
        cached_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (origin, destination, mode)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_search_cache_cached_at
    ON search_cache(cached_at);
	`

	statements := []string{
		createSearchCacheQuery,
		createRouteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PurgeExpired removes cache rows cached before cutoff and reports how many went.
func PurgeExpired(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	if db == nil {
		return 0, errors.New("purge cache: DB is nil")
	}

	var total int64
	for _, table := range []string{"search_cache", "route_cache"} {
		res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE cached_at < $1;", cutoff)
		if err != nil {
			return total, fmt.Errorf("purge cache: %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("purge cache: %s rows affected: %w", table, err)
		}
		total += n
	}

	return total, nil
}
