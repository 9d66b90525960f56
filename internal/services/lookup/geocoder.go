package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/metrics"
	"map-distance-service/internal/ports"
	"strings"

	"golang.org/x/sync/singleflight"
)

// CachingGeocoder wraps a Geocoder with a SearchCache.
//
// It coordinates:
//   - Query normalization (case and whitespace) for consistent cache keys
//   - Cache reads before remote calls, cache writes after them
//   - Collapsing identical concurrent lookups into one remote call
//
// Cache failures are logged and bypassed; they never fail a search.
type CachingGeocoder struct {
	next  ports.Geocoder
	cache ports.SearchCache
	group singleflight.Group
}

func NewCachingGeocoder(next ports.Geocoder, cache ports.SearchCache) *CachingGeocoder {
	return &CachingGeocoder{next: next, cache: cache}
}

// normalize collapses whitespace and folds case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (g *CachingGeocoder) Search(ctx context.Context, query string) ([]domain.Place, error) {
	key := normalize(query)
	if key == "" {
		return []domain.Place{}, nil
	}

	if g.cache != nil {
		places, ok, err := g.cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.WarnContext(ctx, "search cache read failed", "query", key, "err", err)
		case ok:
			metrics.CacheHits.WithLabelValues("search").Inc()
			return places, nil
		default:
			metrics.CacheMisses.WithLabelValues("search").Inc()
		}
	}

	ch := g.group.DoChan(key, func() (any, error) {
		return g.fetch(ctx, key, query)
	})

	var places []domain.Place
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		// The leader's context may have been cancelled while ours is still live.
		if res.Err != nil && errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
			v, err := g.fetch(ctx, key, query)
			if err != nil {
				return nil, fmt.Errorf("caching geocoder: %w", err)
			}
			places = v.([]domain.Place)
			break
		}
		if res.Err != nil {
			return nil, fmt.Errorf("caching geocoder: %w", res.Err)
		}
		places = res.Val.([]domain.Place)
	}

	out := make([]domain.Place, len(places))
	copy(out, places)
	return out, nil
}

func (g *CachingGeocoder) fetch(ctx context.Context, key, query string) (any, error) {
	places, err := g.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if err := g.cache.Put(ctx, key, places); err != nil {
			slog.WarnContext(ctx, "search cache write failed", "query", key, "err", err)
		}
	}
	return places, nil
}
