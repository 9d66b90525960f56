package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"map-distance-service/internal/ports"
	"time"

	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
)

const routeKeyPrefix = "mapsearch:route:"

// RedisRouteCache stores routes as JSON values with a TTL.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

type cachedRoute struct {
	Geometry       orb.LineString `json:"geometry"`
	DistanceMeters float64        `json:"distance_meters"`
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func redisRouteKey(k ports.RouteKey) string {
	return routeKeyPrefix + string(k.Mode) + ":" + k.Start.String() + ";" + k.End.String()
}

func (r *RedisRouteCache) Get(ctx context.Context, key ports.RouteKey) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if r.Client == nil {
		return domain.Route{}, false, errors.New("redis route cache: client is nil")
	}

	raw, err := r.Client.Get(ctx, redisRouteKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get redis route cache: %w", err)
	}

	var cr cachedRoute
	if err := json.Unmarshal(raw, &cr); err != nil {
		return domain.Route{}, false, fmt.Errorf("get redis route cache: decode: %w", err)
	}

	return domain.Route{Geometry: cr.Geometry, DistanceMeters: cr.DistanceMeters}, true, nil
}

func (r *RedisRouteCache) Put(ctx context.Context, key ports.RouteKey, route domain.Route) error {
	if r.Client == nil {
		return errors.New("redis route cache: client is nil")
	}

	raw, err := json.Marshal(cachedRoute{Geometry: route.Geometry, DistanceMeters: route.DistanceMeters})
	if err != nil {
		return fmt.Errorf("put redis route cache: encode: %w", err)
	}

	if err := r.Client.Set(ctx, redisRouteKey(key), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("put redis route cache: %w", err)
	}

	return nil
}
