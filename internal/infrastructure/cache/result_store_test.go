package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardroute/itinerary-engine/internal/usecase"
)

// stubStore is an in-memory store.StoreInterface standing in for the
// Redis store. Misses are wrapped the way the Redis store wraps them.
type stubStore struct {
	values map[string]any
	getErr error
}

func newStubStore() *stubStore {
	return &stubStore{values: map[string]any{}}
}

func (s *stubStore) Get(_ context.Context, key any) (any, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.values[key.(string)]
	if !ok {
		return nil, store.NotFoundWithCause(redis.Nil)
	}
	return v, nil
}

func (s *stubStore) GetWithTTL(ctx context.Context, key any) (any, time.Duration, error) {
	v, err := s.Get(ctx, key)
	return v, 0, err
}

func (s *stubStore) Set(_ context.Context, key any, value any, _ ...store.Option) error {
	s.values[key.(string)] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, key any) error {
	delete(s.values, key.(string))
	return nil
}

func (s *stubStore) Invalidate(context.Context, ...store.InvalidateOption) error { return nil }

func (s *stubStore) Clear(context.Context) error { return nil }

func (s *stubStore) GetType() string { return "stub" }

func newTestStore(st store.StoreInterface) *ResultStore {
	return &ResultStore{inner: gocache.New[*cachedBuild](st), ttl: time.Minute}
}

func TestResultStore_GetMissReturnsNilNil(t *testing.T) {
	s := newTestStore(newStubStore())

	result, err := s.Get(context.Background(), "absent")

	assert.NoError(t, err, "a miss is not an error")
	assert.Nil(t, result)
}

func TestResultStore_GetTransportErrorSurfaces(t *testing.T) {
	st := newStubStore()
	st.getErr = errors.New("connection refused")
	s := newTestStore(st)

	result, err := s.Get(context.Background(), "key")

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestResultStore_SetThenGet(t *testing.T) {
	s := newTestStore(newStubStore())
	stored := &usecase.BuildResult{Stats: usecase.BuildStats{Itineraries: 4}}

	require.NoError(t, s.Set(context.Background(), "build-key", stored))

	got, err := s.Get(context.Background(), "build-key")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.Stats.Itineraries)
}
