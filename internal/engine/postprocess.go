package engine

import (
	"time"

	"github.com/awardroute/itinerary-engine/internal/domain"
	"github.com/awardroute/itinerary-engine/internal/infrastructure/timeutil"
)

// Deduplicate collapses itineraries with identical joined flight-ID
// sequences within each (route, date) bucket. Running it on already
// deduplicated data is a no-op, so repeated post-processing is safe.
func Deduplicate(set domain.ItinerarySet) domain.ItinerarySet {
	result := make(domain.ItinerarySet, len(set))
	for routeKey, dates := range set {
		for date, its := range dates {
			seen := make(map[string]struct{}, len(its))
			for _, it := range its {
				key := it.DedupKey()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				result.Add(routeKey, date, it)
			}
		}
	}
	return result
}

// FilterByDateWindow drops itineraries whose first flight departs outside
// [startOfDay(start), endOfDay(end)]. Itineraries referencing a first
// flight missing from the flight map are dropped with them. Date and route
// buckets left empty disappear from the result.
func FilterByDateWindow(set domain.ItinerarySet, flights domain.FlightMap, start, end time.Time) domain.ItinerarySet {
	windowStart := timeutil.StartOfDay(start)
	windowEnd := timeutil.EndOfDay(end)

	result := make(domain.ItinerarySet, len(set))
	for routeKey, dates := range set {
		for date, its := range dates {
			for _, it := range its {
				if len(it) == 0 {
					continue
				}
				first, ok := flights[it[0]]
				if !ok {
					continue
				}
				if first.Departure.Before(windowStart) || first.Departure.After(windowEnd) {
					continue
				}
				result.Add(routeKey, date, it)
			}
		}
	}
	return result
}

// PruneFlights recomputes the set of flight IDs referenced by surviving
// itineraries and returns a flight map containing exactly those entries:
// no orphans, no missing references. It must run after every filtering
// step to restore the flight-map invariant and keep the wire payload
// minimal.
func PruneFlights(set domain.ItinerarySet, flights domain.FlightMap) domain.FlightMap {
	refs := set.ReferencedFlights()
	pruned := make(domain.FlightMap, len(refs))
	for id := range refs {
		if f, ok := flights[id]; ok {
			pruned[id] = f
		}
	}
	return pruned
}
