package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

func TestToBuildRequest(t *testing.T) {
	req := BuildItinerariesRequest{
		Origin:      "JFK",
		Destination: "CDG",
		SegmentPool: map[string][]GroupDTO{
			"JFK-CDG": {{
				Origin:      "JFK",
				Destination: "CDG",
				Date:        "2026-05-01",
				Alliance:    "skyteam",
				Flights: []FlightDTO{{
					FlightNumber: "AF7",
					Departure:    "2026-05-01T08:00:00Z",
					Arrival:      "2026-05-01T15:30:00Z",
					Seats:        SeatCountsDTO{Economy: 4, Business: 2},
				}},
			}},
		},
		Skeletons:    [][]string{{"JFK", "LHR", "CDG"}},
		LegAlliances: [][]string{{"oneworld"}, {}},
		StartDate:    "2026-05-01",
		EndDate:      "2026-05-03",
		Cities:       map[string]string{"JFK": "NYC"},
	}

	out := ToBuildRequest(&req)

	assert.Equal(t, "JFK", out.Origin)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), out.StartDate)
	assert.Equal(t, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), out.EndDate)

	key := domain.SegmentKey{Origin: "JFK", Destination: "CDG"}
	groups := out.Pool.ForSegment(key)
	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, domain.Alliance("skyteam"), g.Alliance)
	require.Len(t, g.Flights, 1)

	f := g.Flights[0]
	assert.Equal(t, "AF7", f.FlightNumber)
	assert.Equal(t, "AF", f.Airline)
	assert.Equal(t, "JFK", f.Origin, "endpoints fall back to the group")
	assert.Equal(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), f.Departure)
	assert.Equal(t, 4, f.Seats.Economy)
	assert.Equal(t, domain.NewFlightID("AF7", f.Departure, "JFK", "CDG"), f.ID)
	assert.True(t, g.HasDepartureEnvelope(), "the envelope is derived on conversion")

	require.Len(t, out.Skeletons, 1)
	assert.Equal(t, "JFK-LHR-CDG", out.Skeletons[0].Key())

	require.Len(t, out.LegAlliances, 2)
	assert.True(t, out.LegAlliances[0].Allows(domain.AllianceOneworld))
	assert.False(t, out.LegAlliances[0].Allows(domain.AllianceStar))
	assert.Nil(t, out.LegAlliances[1], "empty list means unrestricted")

	assert.Equal(t, "NYC", out.Cities.CityOf("JFK"))
}

func TestToBuildRequest_DropsMalformedPoolItems(t *testing.T) {
	req := BuildItinerariesRequest{
		Origin:      "JFK",
		Destination: "CDG",
		SegmentPool: map[string][]GroupDTO{
			"bad key": {{Origin: "JFK", Destination: "CDG", Date: "2026-05-01"}},
			"JFK-CDG": {
				{Origin: "", Destination: "CDG", Date: "2026-05-01"},
				{Origin: "JFK", Destination: "CDG", Date: ""},
				{Origin: "JFK", Destination: "CDG", Date: "2026-05-01"},
			},
		},
		StartDate: "2026-05-01",
		EndDate:   "2026-05-01",
	}

	out := ToBuildRequest(&req)

	key := domain.SegmentKey{Origin: "JFK", Destination: "CDG"}
	assert.Len(t, out.Pool.ForSegment(key), 1, "only the complete group survives")
	assert.Len(t, out.Pool, 1)
}

func TestToBuildRequest_UnparseableTimestampLeavesZero(t *testing.T) {
	req := BuildItinerariesRequest{
		Origin:      "JFK",
		Destination: "CDG",
		SegmentPool: map[string][]GroupDTO{
			"JFK-CDG": {{
				Origin:      "JFK",
				Destination: "CDG",
				Date:        "2026-05-01",
				Flights: []FlightDTO{{
					FlightNumber: "AF7",
					Departure:    "yesterday",
					Arrival:      "2026-05-01T15:30:00Z",
				}},
			}},
		},
		StartDate: "2026-05-01",
		EndDate:   "2026-05-01",
	}

	out := ToBuildRequest(&req)

	key := domain.SegmentKey{Origin: "JFK", Destination: "CDG"}
	f := out.Pool.ForSegment(key)[0].Flights[0]
	assert.True(t, f.Departure.IsZero(), "the flight is kept, the metadata index excludes it later")
	assert.False(t, f.Arrival.IsZero())
}

func TestToQuerySet(t *testing.T) {
	wire := map[string]map[string][][]string{
		"JFK-LHR": {
			"2026-05-01": {{"id-a"}, {"id-b", "id-c"}},
			"2026-05-02": {{"id-d"}},
		},
	}

	set := ToQuerySet(wire)

	assert.Equal(t, 3, set.Count())
	assert.Equal(t, domain.Itinerary{"id-b", "id-c"}, set["JFK-LHR"]["2026-05-01"][1])
}

func TestToQueryFlights_MapKeyIsAuthoritative(t *testing.T) {
	wire := map[string]FlightDTO{
		"stored-id": {
			FlightNumber: "BA112",
			Origin:       "JFK",
			Destination:  "LHR",
			Departure:    "2026-05-01T08:00:00Z",
			Arrival:      "2026-05-01T15:00:00Z",
		},
	}

	flights := ToQueryFlights(wire)

	require.Contains(t, flights, domain.FlightID("stored-id"))
	assert.Equal(t, domain.FlightID("stored-id"), flights["stored-id"].ID)
	assert.Equal(t, "BA112", flights["stored-id"].FlightNumber)
}

func TestToQueryParams(t *testing.T) {
	maxDuration := 600
	dto := QueryParamsDTO{
		Stops:                   []int{0, 1},
		IncludeAirlines:         []string{"BA"},
		MaxTotalDurationMinutes: &maxDuration,
		Cabin:                   "j",
		MinCabinPercent:         &CabinThresholdsDTO{Business: floatPtr(50)},
		DepartureWindow:         &ClockWindowDTO{Start: "06:30", End: "12:00"},
		SortBy:                  "departure",
		Page:                    2,
		PageSize:                10,
	}

	params := ToQueryParams(dto)

	assert.Equal(t, []int{0, 1}, params.Stops)
	assert.Equal(t, domain.SortByDeparture, params.SortBy)
	require.NotNil(t, params.DepartureWindow)
	assert.Equal(t, 6*60+30, params.DepartureWindow.StartMinutes)
	assert.Equal(t, 12*60, params.DepartureWindow.EndMinutes)
	require.NotNil(t, params.MinCabinPercent)
	assert.Equal(t, 50.0, *params.MinCabinPercent.Business)
	require.NotNil(t, params.Cabin)
	assert.Equal(t, domain.CabinBusiness, *params.Cabin)
	assert.Nil(t, params.ArrivalWindow)
	assert.Equal(t, 2, params.Page)
}

func TestToQueryParams_UnknownSortFallsBackToDuration(t *testing.T) {
	params := ToQueryParams(QueryParamsDTO{SortBy: "price"})
	assert.Equal(t, domain.SortByDuration, params.SortBy)
}

func floatPtr(f float64) *float64 { return &f }
