// Package engine implements the itinerary construction core: the flight
// metadata index, the two-tier connection matrices, the route skeleton
// prefilter, the depth-first itinerary composer and the post-processing
// stages that turn raw per-segment availability into itinerary sets.
//
// Every function in this package is a pure transform over already-resident
// in-memory data: no I/O, no suspension, no shared mutable state.
package engine

import (
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
)

// FlightMeta is the comparable form of one flight used by the connection
// matrices and the composer.
type FlightMeta struct {
	// Departure and Arrival are the validated timestamps.
	Departure time.Time
	Arrival   time.Time

	// DurationMinutes is the flight duration in minutes.
	DurationMinutes int

	// Airline is the two-letter airline code.
	Airline string
}

// MetadataIndex maps flight IDs to their comparable metadata. It is a pure
// function of the segment pool, computed once per search. A flight absent
// from the index is unreachable by the composer.
type MetadataIndex map[domain.FlightID]FlightMeta

// BuildMetadataIndex normalizes every flight in the pool into its
// comparable form. Flights with malformed timing (missing timestamps or
// arrival not after departure) are reported and excluded; the build
// continues without them.
func BuildMetadataIndex(pool domain.SegmentPool) (MetadataIndex, []domain.MetadataError) {
	index := make(MetadataIndex, pool.TotalFlights())
	var errs []domain.MetadataError

	for _, groups := range pool {
		for gi := range groups {
			for _, f := range groups[gi].Flights {
				meta, err := normalizeFlight(f)
				if err != nil {
					errs = append(errs, *err)
					continue
				}
				index[f.ID] = meta
			}
		}
	}

	return index, errs
}

// normalizeFlight validates one flight's timing and derives its metadata.
func normalizeFlight(f domain.Flight) (FlightMeta, *domain.MetadataError) {
	if f.Departure.IsZero() {
		return FlightMeta{}, &domain.MetadataError{
			FlightID:     f.ID,
			FlightNumber: f.FlightNumber,
			Reason:       "missing departure timestamp",
		}
	}
	if f.Arrival.IsZero() {
		return FlightMeta{}, &domain.MetadataError{
			FlightID:     f.ID,
			FlightNumber: f.FlightNumber,
			Reason:       "missing arrival timestamp",
		}
	}
	if !f.Arrival.After(f.Departure) {
		return FlightMeta{}, &domain.MetadataError{
			FlightID:     f.ID,
			FlightNumber: f.FlightNumber,
			Reason:       "arrival is not after departure",
		}
	}

	duration := f.DurationMinutes
	if duration <= 0 {
		duration = int(f.Arrival.Sub(f.Departure) / time.Minute)
	}

	airline := f.Airline
	if airline == "" {
		airline = domain.AirlineCode(f.FlightNumber)
	}

	return FlightMeta{
		Departure:       f.Departure,
		Arrival:         f.Arrival,
		DurationMinutes: duration,
		Airline:         airline,
	}, nil
}
