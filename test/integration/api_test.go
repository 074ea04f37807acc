package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardroute/itinerary-engine/internal/domain"
	"github.com/awardroute/itinerary-engine/internal/usecase"
	"github.com/awardroute/itinerary-engine/test/mock"
)

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBuildEndpoint_EndToEnd(t *testing.T) {
	e := newServer(nil)

	rec := post(e, "/api/v1/itineraries/build", buildRequestBody(t))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var result usecase.BuildResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, 2, result.Stats.Itineraries, "one connecting plus one direct")
	assert.Contains(t, result.Itineraries, "JFK-LHR-CDG")
	assert.Contains(t, result.Itineraries, "JFK-CDG")
	assert.Len(t, result.Flights, 3)
	assert.False(t, result.Stats.Partial)

	for _, dates := range result.Itineraries {
		for _, its := range dates {
			for _, it := range its {
				for _, id := range it {
					assert.Contains(t, result.Flights, id, "every referenced flight is in the dictionary")
				}
			}
		}
	}
}

func TestBuildThenQuery_RoundTrip(t *testing.T) {
	e := newServer(nil)

	buildRec := post(e, "/api/v1/itineraries/build", buildRequestBody(t))
	require.Equal(t, http.StatusOK, buildRec.Code)

	var built usecase.BuildResult
	require.NoError(t, json.Unmarshal(buildRec.Body.Bytes(), &built))

	// Round-trip the build output into a query, the way a client would.
	itineraries, err := json.Marshal(built.Itineraries)
	require.NoError(t, err)
	flights, err := json.Marshal(built.Flights)
	require.NoError(t, err)

	queryBody := fmt.Sprintf(`{
		"itineraries": %s,
		"flights": %s,
		"query": {"stops": [0], "sortBy": "duration"}
	}`, itineraries, flights)

	queryRec := post(e, "/api/v1/itineraries/query", queryBody)
	require.Equal(t, http.StatusOK, queryRec.Code, queryRec.Body.String())

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal(queryRec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total, "only the direct itinerary has zero stops")
	require.Len(t, resp.Data, 1)
	assert.Equal(t, []string{"AF7"}, resp.Data[0].FlightNumbers)
}

func TestBuildEndpoint_CacheRoundTrip(t *testing.T) {
	cache := mock.NewResultCache()
	e := newServer(cache)

	body := buildRequestBody(t)

	first := post(e, "/api/v1/itineraries/build", body)
	require.Equal(t, http.StatusOK, first.Code)
	var firstResult usecase.BuildResult
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResult))
	assert.False(t, firstResult.Stats.CacheHit)

	second := post(e, "/api/v1/itineraries/build", body)
	require.Equal(t, http.StatusOK, second.Code)
	var secondResult usecase.BuildResult
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResult))
	assert.True(t, secondResult.Stats.CacheHit)
	assert.Equal(t, firstResult.Stats.Itineraries, secondResult.Stats.Itineraries)
}

func TestBuildEndpoint_RejectsInvalidBody(t *testing.T) {
	e := newServer(nil)

	rec := post(e, "/api/v1/itineraries/build", `{"origin": "JFK", "destination": "JFK"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestBuildEndpoint_ConcurrentRequests(t *testing.T) {
	e := newServer(nil)
	body := buildRequestBody(t)

	const workers = 8
	var wg sync.WaitGroup
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = post(e, "/api/v1/itineraries/build", body).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newServer(nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}
