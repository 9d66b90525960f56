package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLSearchCache is a SQL-backed cache mapping normalized queries to
// ordered suggestion lists. Rows older than TTL are treated as misses.
type SQLSearchCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLSearchCache(db *sql.DB, ttl time.Duration) *SQLSearchCache {
	return &SQLSearchCache{DB: db, TTL: ttl}
}

// Fetch the cached suggestions for query.
func (s *SQLSearchCache) Get(
	ctx context.Context,
	query string,
) (_ []domain.Place, _ bool, err error) {
	defer obs.Time(ctx, "search.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("search cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, errors.New("get search cache: query must not be empty")
	}

	q := `
	SELECT result_count, rank, name, lon, lat
    FROM search_cache
    WHERE query = $1
        AND cached_at > $2
    ORDER BY rank;
	`

	rows, err := s.DB.QueryContext(ctx, q, query, s.cutoff())
	if err != nil {
		return nil, false, fmt.Errorf("get search cache: query search_cache table: %w", err)
	}
	defer rows.Close()

	found := false
	out := []domain.Place{}
	for rows.Next() {
		var count int
		var rank sql.NullInt64
		var name sql.NullString
		var lon, lat sql.NullFloat64
		if err := rows.Scan(&count, &rank, &name, &lon, &lat); err != nil {
			return nil, false, fmt.Errorf("get search cache: scan rows: %w", err)
		}
		found = true
		// A cached empty result is stored as a single row with NULL place columns.
		if count == 0 || !name.Valid {
			continue
		}
		out = append(out, domain.Place{
			Name:        name.String,
			Coordinates: domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("get search cache: row iteration: %w", err)
	}

	return out, found, nil
}

// Store the suggestion list for query, replacing any previous entry.
func (s *SQLSearchCache) Put(ctx context.Context, query string, places []domain.Place) error {
	if s.DB == nil {
		return errors.New("search cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert search cache: query must not be empty")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert search cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM search_cache WHERE query = $1;`, query); err != nil {
		return fmt.Errorf("insert search cache: clear %q: %w", query, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO search_cache (query, result_count, rank, name, lon, lat, cached_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7);
	`)
	if err != nil {
		return fmt.Errorf("insert search cache: db prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	if len(places) == 0 {
		if _, err := stmt.ExecContext(ctx, query, 0, 0, nil, nil, nil, now); err != nil {
			return fmt.Errorf("insert search cache query=%q: %w", query, err)
		}
	}
	for i, p := range places {
		if _, err := stmt.ExecContext(ctx, query, len(places), i, p.Name, p.Coordinates.Lon, p.Coordinates.Lat, now); err != nil {
			return fmt.Errorf("insert search cache query=%q rank=%d: %w", query, i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert search cache commit: %w", err)
	}

	return nil
}

func (s *SQLSearchCache) cutoff() time.Time {
	if s.TTL <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().Add(-s.TTL)
}
