package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"map-distance-service/internal/ports"
	"time"

	"github.com/paulmach/orb"
)

// SQLRouteCache is a SQL-backed cache for start->end routing results per mode.
// Geometry is stored as a JSON array of [lon, lat] points.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl}
}

// Fetch a cached route.
func (s *SQLRouteCache) Get(
	ctx context.Context,
	key ports.RouteKey,
) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT distance_meters, geometry
    FROM route_cache
    WHERE origin = $1
        AND destination = $2
        AND mode = $3
        AND cached_at > $4;
	`

	var meters float64
	var raw []byte
	err = s.DB.QueryRowContext(ctx, q, key.Start.String(), key.End.String(), string(key.Mode), s.cutoff()).
		Scan(&meters, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var line orb.LineString
	if err := json.Unmarshal(raw, &line); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode geometry: %w", err)
	}

	return domain.Route{Geometry: line, DistanceMeters: meters}, true, nil
}

// Store a routing result.
func (s *SQLRouteCache) Put(ctx context.Context, key ports.RouteKey, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	raw, err := json.Marshal(route.Geometry)
	if err != nil {
		return fmt.Errorf("insert route cache: encode geometry: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (origin, destination, mode, distance_meters, geometry, cached_at)
    VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (origin, destination, mode) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		geometry = EXCLUDED.geometry,
		cached_at = EXCLUDED.cached_at;
	`, key.Start.String(), key.End.String(), string(key.Mode), route.DistanceMeters, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert route cache %s -> %s (%s): %w", key.Start, key.End, key.Mode, err)
	}

	return nil
}

func (s *SQLRouteCache) cutoff() time.Time {
	if s.TTL <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().Add(-s.TTL)
}
