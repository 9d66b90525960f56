package lookup

import (
	"context"
	"log/slog"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/metrics"
	"map-distance-service/internal/ports"
)

// CachingRouter wraps a Router with a RouteCache. Only successful routes
// are cached; "no route" and transport failures always go back upstream.
type CachingRouter struct {
	next  ports.Router
	cache ports.RouteCache
}

func NewCachingRouter(next ports.Router, cache ports.RouteCache) *CachingRouter {
	return &CachingRouter{next: next, cache: cache}
}

func (r *CachingRouter) Route(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	mode domain.Mode,
) (domain.Route, error) {
	key := ports.RouteKey{Start: start, End: end, Mode: mode}

	if r.cache != nil {
		route, ok, err := r.cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "route cache read failed", "start", start, "end", end, "mode", mode, "err", err)
		case ok:
			metrics.CacheHits.WithLabelValues("route").Inc()
			return route, nil
		default:
			metrics.CacheMisses.WithLabelValues("route").Inc()
		}
	}

	route, err := r.next.Route(ctx, start, end, mode)
	if err != nil {
		return domain.Route{}, err
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, key, route); err != nil {
			slog.WarnContext(ctx, "route cache write failed", "start", start, "end", end, "mode", mode, "err", err)
		}
	}

	return route, nil
}
