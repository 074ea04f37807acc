// Package cache provides the Redis-backed build-result cache behind the
// usecase's ResultCache port. Entries are keyed by search-parameter hash
// and expire after the configured TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"

	"github.com/awardroute/itinerary-engine/internal/usecase"
)

// cachedBuild wraps a build result for Redis round-tripping.
type cachedBuild struct {
	Result usecase.BuildResult `json:"result"`
}

// MarshalBinary implements encoding.BinaryMarshaler for the Redis client.
func (c *cachedBuild) MarshalBinary() ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for the Redis client.
func (c *cachedBuild) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, c)
}

// ResultStore is a usecase.ResultCache backed by Redis.
type ResultStore struct {
	inner *gocache.Cache[*cachedBuild]
	ttl   time.Duration
}

// NewResultStore creates a ResultStore over the given Redis client.
func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))
	return &ResultStore{
		inner: gocache.New[*cachedBuild](redisStore),
		ttl:   ttl,
	}
}

// Get implements usecase.ResultCache. Misses surface as (nil, nil),
// transport errors as (nil, err); the builder treats errors as misses.
func (s *ResultStore) Get(ctx context.Context, key string) (*usecase.BuildResult, error) {
	cached, err := s.inner.Get(ctx, key)
	if err != nil {
		notFound := &store.NotFound{}
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	if cached == nil {
		return nil, nil
	}
	return &cached.Result, nil
}

// Set implements usecase.ResultCache.
func (s *ResultStore) Set(ctx context.Context, key string, result *usecase.BuildResult) error {
	return s.inner.Set(ctx, key, &cachedBuild{Result: *result}, store.WithExpiration(s.ttl))
}

// Ensure ResultStore implements the port at compile time.
var _ usecase.ResultCache = (*ResultStore)(nil)
