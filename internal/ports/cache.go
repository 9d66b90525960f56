package ports

import (
	"context"
	"map-distance-service/internal/domain"
)

// SearchCache stores suggestion lists keyed by normalized query.
// Keys are expected to be consistent (already normalized) by the caller.
type SearchCache interface {
	// ok is false on a miss.
	Get(ctx context.Context, query string) (places []domain.Place, ok bool, err error)
	Put(ctx context.Context, query string, places []domain.Place) error
}

// RouteKey identifies a routing request.
type RouteKey struct {
	Start domain.Coordinates
	End   domain.Coordinates
	Mode  domain.Mode
}

// RouteCache stores routing responses.
type RouteCache interface {
	Get(ctx context.Context, key RouteKey) (route domain.Route, ok bool, err error)
	Put(ctx context.Context, key RouteKey, route domain.Route) error
}
