// Package testutil provides test helper functions and fixture builders for
// unit and integration tests.
package testutil

import (
	"testing"
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", value, err)
	}
	return parsed
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", value, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}

// FloatPtr returns a pointer to a float64.
// Convenience function for threshold tests.
func FloatPtr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to an int.
// Convenience function for filter tests.
func IntPtr(i int) *int {
	return &i
}

// Flight builds a flight fixture with a deterministic ID and all timing
// fields populated. Seats default to one seat in every cabin.
func Flight(flightNumber, origin, destination string, departure, arrival time.Time) domain.Flight {
	return domain.Flight{
		ID:              domain.NewFlightID(flightNumber, departure, origin, destination),
		FlightNumber:    flightNumber,
		Airline:         domain.AirlineCode(flightNumber),
		Origin:          origin,
		Destination:     destination,
		Departure:       departure,
		Arrival:         arrival,
		DurationMinutes: int(arrival.Sub(departure) / time.Minute),
		Seats:           domain.SeatCounts{Economy: 1, Premium: 1, Business: 1, First: 1},
		PartnerEligible: domain.PartnerFlags{Economy: true, Business: true},
	}
}

// Group builds an availability group fixture over the given flights,
// computing the envelope the same way the wire decoder does.
func Group(origin, destination, date string, alliance domain.Alliance, flights ...domain.Flight) domain.AvailabilityGroup {
	return domain.NewAvailabilityGroup(origin, destination, date, alliance, flights)
}

// Pool builds a segment pool from groups, bucketing each group under its
// own segment key.
func Pool(groups ...domain.AvailabilityGroup) domain.SegmentPool {
	pool := make(domain.SegmentPool)
	for _, g := range groups {
		key := g.SegmentKey()
		pool[key] = append(pool[key], g)
	}
	return pool
}

// FlightMapOf builds a flight map from the given flights.
func FlightMapOf(flights ...domain.Flight) domain.FlightMap {
	m := make(domain.FlightMap, len(flights))
	for _, f := range flights {
		m[f.ID] = f
	}
	return m
}
