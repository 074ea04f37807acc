package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/awardroute/itinerary-engine/internal/domain"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/logger"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/timeutil"
	"github.com/awardroute/itinerary-engine/internal/usecase"
	"github.com/awardroute/itinerary-engine/test/mock"
	"github.com/awardroute/itinerary-engine/test/testutil"
)

// buildFixtureRequest assembles a two-leg pool (JFK-LHR-CDG) plus a direct
// JFK-CDG flight, with a skeleton covering the connecting route.
func buildFixtureRequest(t *testing.T) usecase.BuildRequest {
	t.Helper()
	dep := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	first := testutil.Flight("BA112", "JFK", "LHR", dep, dep.Add(7*time.Hour))
	second := testutil.Flight("BA304", "LHR", "CDG", dep.Add(9*time.Hour), dep.Add(10*time.Hour))
	direct := testutil.Flight("AF7", "JFK", "CDG", dep, dep.Add(7*time.Hour+30*time.Minute))

	return usecase.BuildRequest{
		Pool: testutil.Pool(
			testutil.Group("JFK", "LHR", "2026-05-01", domain.AllianceOneworld, first),
			testutil.Group("LHR", "CDG", "2026-05-01", domain.AllianceOneworld, second),
			testutil.Group("JFK", "CDG", "2026-05-01", domain.AllianceSkyTeam, direct),
		),
		Origin:      "JFK",
		Destination: "CDG",
		Skeletons: []domain.RouteSkeleton{
			{Airports: []string{"JFK", "LHR", "CDG"}},
		},
		StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*usecase.BuildRequest)
		wantErr error
	}{
		{"valid", func(r *usecase.BuildRequest) {}, nil},
		{"bad origin", func(r *usecase.BuildRequest) { r.Origin = "jfk" }, domain.ErrInvalidRequest},
		{"bad destination", func(r *usecase.BuildRequest) { r.Destination = "PARIS" }, domain.ErrInvalidRequest},
		{"same endpoints", func(r *usecase.BuildRequest) { r.Destination = "JFK" }, domain.ErrInvalidRequest},
		{"missing window", func(r *usecase.BuildRequest) { r.StartDate = time.Time{} }, domain.ErrInvalidRequest},
		{"inverted window", func(r *usecase.BuildRequest) { r.EndDate = r.StartDate.AddDate(0, 0, -1) }, domain.ErrInvalidRequest},
		{"reliability out of range", func(r *usecase.BuildRequest) { r.MinReliabilityPercent = 101 }, domain.ErrInvalidRequest},
		{"empty pool", func(r *usecase.BuildRequest) { r.Pool = nil }, domain.ErrEmptySegmentPool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := buildFixtureRequest(t)
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBuildRequest_CacheKey(t *testing.T) {
	a := buildFixtureRequest(t)
	b := buildFixtureRequest(t)

	assert.Equal(t, a.CacheKey(), b.CacheKey(), "identical requests share a key")

	b.MinReliabilityPercent = 50
	assert.NotEqual(t, a.CacheKey(), b.CacheKey(), "parameter changes change the key")
}

func TestBuild_FullPipeline(t *testing.T) {
	builder := usecase.NewItineraryBuilder(nil, nil, nil)

	result, err := builder.Build(context.Background(), buildFixtureRequest(t))

	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.Stats.Itineraries, "one connecting plus one direct")
	assert.Contains(t, result.Itineraries, "JFK-LHR-CDG")
	assert.Contains(t, result.Itineraries, "JFK-CDG")
	assert.Len(t, result.Flights, 3, "every flight is referenced, nothing pruned")
	assert.Equal(t, 0, result.Stats.FlightsPruned)
	assert.False(t, result.Stats.Partial)
	assert.Equal(t, 1, result.Stats.SkeletonsComposed)
}

func TestBuild_ValidationFailureShortCircuits(t *testing.T) {
	builder := usecase.NewItineraryBuilder(nil, nil, nil)
	req := buildFixtureRequest(t)
	req.Pool = nil

	result, err := builder.Build(context.Background(), req)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrEmptySegmentPool)
}

func TestBuild_InvalidSkeletonAbortsOnlyItself(t *testing.T) {
	builder := usecase.NewItineraryBuilder(nil, nil, nil)
	req := buildFixtureRequest(t)
	req.Skeletons = append(req.Skeletons, domain.RouteSkeleton{Airports: []string{"JFK"}})

	result, err := builder.Build(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.SkeletonsSupplied)
	assert.Equal(t, 1, result.Stats.SkeletonsInvalid)
	assert.Equal(t, 1, result.Stats.SkeletonsComposed)
	assert.Equal(t, 2, result.Stats.Itineraries, "the valid skeleton still composes")
}

func TestBuild_MetadataErrorsAreFailSoft(t *testing.T) {
	builder := usecase.NewItineraryBuilder(nil, nil, nil)
	req := buildFixtureRequest(t)

	broken := testutil.Flight("ZZ100", "JFK", "CDG", time.Time{}, time.Time{})
	key := domain.SegmentKey{Origin: "JFK", Destination: "CDG"}
	req.Pool[key][0].Flights = append(req.Pool[key][0].Flights, broken)

	result, err := builder.Build(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.MetadataErrors)
	assert.NotContains(t, result.Flights, broken.ID, "the broken flight is pruned away")
	assert.Equal(t, 2, result.Stats.Itineraries)
}

func TestBuild_ReliabilityFilter(t *testing.T) {
	builder := usecase.NewItineraryBuilder(nil, nil, nil)
	req := buildFixtureRequest(t)
	req.MinReliabilityPercent = 90
	req.UnreliableAirlines = []string{"AF"}

	result, err := builder.Build(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Itineraries, "the all-AF direct itinerary is dropped")
	assert.NotContains(t, result.Itineraries, "JFK-CDG")
}

func TestBuild_DateWindowFilter(t *testing.T) {
	builder := usecase.NewItineraryBuilder(nil, nil, nil)
	req := buildFixtureRequest(t)
	req.StartDate = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	req.EndDate = time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)

	result, err := builder.Build(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.Itineraries)
	assert.Empty(t, result.Flights, "pruning empties the dictionary with the set")
}

func TestBuild_CancelledContextReturnsPartialResult(t *testing.T) {
	builder := usecase.NewItineraryBuilder(nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := builder.Build(ctx, buildFixtureRequest(t))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildCancelled)
	require.NotNil(t, result, "partial results accompany the cancellation")
	assert.True(t, result.Stats.Partial)
	assert.Contains(t, result.Itineraries, "JFK-CDG", "direct itineraries survive the cancelled composition")
}

func TestBuild_CacheMissThenHit(t *testing.T) {
	cache := mock.NewResultCache()
	builder := usecase.NewItineraryBuilder(nil, cache, nil)
	req := buildFixtureRequest(t)

	first, err := builder.Build(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Stats.CacheHit)
	assert.Equal(t, 1, cache.SetCalls(), "a successful build populates the cache")

	second, err := builder.Build(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Stats.CacheHit)
	assert.Equal(t, 2, cache.GetCalls())
	assert.Equal(t, 1, cache.SetCalls(), "a hit does not rewrite the entry")
	assert.Equal(t, first.Stats.Itineraries, second.Stats.Itineraries)
}

func TestBuild_CacheFailuresAreFailOpen(t *testing.T) {
	cache := mock.NewResultCache().
		WithGetError(errors.New("redis down")).
		WithSetError(errors.New("redis down"))
	builder := usecase.NewItineraryBuilder(nil, cache, nil)

	result, err := builder.Build(context.Background(), buildFixtureRequest(t))

	require.NoError(t, err, "a failing cache never fails a build")
	assert.Equal(t, 2, result.Stats.Itineraries)
}

func TestBuild_CacheHitWithGomock(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mock.NewMockResultCache(ctrl)
	builder := usecase.NewItineraryBuilder(nil, cache, nil)
	req := buildFixtureRequest(t)

	cached := &usecase.BuildResult{
		Itineraries: domain.ItinerarySet{},
		Flights:     domain.FlightMap{},
		Stats:       usecase.BuildStats{Itineraries: 5},
	}
	cache.EXPECT().Get(gomock.Any(), req.CacheKey()).Return(cached, nil)

	result, err := builder.Build(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Stats.CacheHit)
	assert.Equal(t, 5, result.Stats.Itineraries, "the cached result is returned as-is")
}

func TestBuild_ReportsBuildTime(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	builder := usecase.NewBuilderWithClock(usecase.DefaultConfig(), logger.Nop(), clock)

	result, err := builder.Build(context.Background(), buildFixtureRequest(t))

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Stats.BuildTimeMs, "a frozen clock reports zero elapsed time")
}

func TestNewItineraryBuilder_ConfigDefaults(t *testing.T) {
	cfg := usecase.DefaultConfig()
	assert.Equal(t, usecase.DefaultMinConnection, cfg.MinConnection)
	assert.Equal(t, usecase.DefaultMaxLayover, cfg.MaxLayover)
	assert.Equal(t, usecase.DefaultPoolSize, cfg.PoolSize)
	assert.Equal(t, usecase.DefaultMaxItinerariesPerRoute, cfg.MaxItinerariesPerRoute)
}
