package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

const searchKeyPrefix = "mapsearch:search:"

// RedisSearchCache stores suggestion lists as JSON values with a TTL.
type RedisSearchCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSearchCache(client *redis.Client, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{Client: client, TTL: ttl}
}

func (r *RedisSearchCache) Get(ctx context.Context, query string) (_ []domain.Place, _ bool, err error) {
	defer obs.Time(ctx, "search.cache.redis.Get")(&err)

	if r.Client == nil {
		return nil, false, errors.New("redis search cache: client is nil")
	}

	raw, err := r.Client.Get(ctx, searchKeyPrefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get redis search cache %q: %w", query, err)
	}

	var places []domain.Place
	if err := json.Unmarshal(raw, &places); err != nil {
		return nil, false, fmt.Errorf("get redis search cache %q: decode: %w", query, err)
	}
	if places == nil {
		places = []domain.Place{}
	}

	return places, true, nil
}

func (r *RedisSearchCache) Put(ctx context.Context, query string, places []domain.Place) error {
	if r.Client == nil {
		return errors.New("redis search cache: client is nil")
	}
	if places == nil {
		places = []domain.Place{}
	}

	raw, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("put redis search cache %q: encode: %w", query, err)
	}

	if err := r.Client.Set(ctx, searchKeyPrefix+query, raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("put redis search cache %q: %w", query, err)
	}

	return nil
}
