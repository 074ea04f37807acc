package engine

import "github.com/awardroute/itinerary-engine/internal/domain"

// FilterReliable drops itineraries whose cumulative unreliable flight
// duration exceeds the caller's tolerance: keep iff
// unreliableFraction x 100 <= (100 - minReliabilityPercent).
//
// Itineraries with zero unreliable duration always pass. Itineraries with
// zero total duration are dropped: the fraction is undefined and such data
// cannot be trusted. Raising minReliabilityPercent never increases the
// surviving count.
//
// The caller is expected to re-prune the flight map afterward, as after
// every filtering step.
func FilterReliable(set domain.ItinerarySet, flights domain.FlightMap, minReliabilityPercent float64, unreliable domain.ReliabilityPredicate) domain.ItinerarySet {
	if unreliable == nil || minReliabilityPercent <= 0 {
		return set
	}

	tolerance := 100 - minReliabilityPercent

	result := make(domain.ItinerarySet, len(set))
	for routeKey, dates := range set {
		for date, its := range dates {
			for _, it := range its {
				keep, ok := passesReliability(it, flights, tolerance, unreliable)
				if !ok || !keep {
					continue
				}
				result.Add(routeKey, date, it)
			}
		}
	}
	return result
}

// passesReliability computes the unreliable-duration fraction of one
// itinerary. The second return is false when the itinerary is structurally
// unusable (missing flights or zero total duration).
func passesReliability(it domain.Itinerary, flights domain.FlightMap, tolerance float64, unreliable domain.ReliabilityPredicate) (bool, bool) {
	totalMinutes := 0
	unreliableMinutes := 0

	for _, id := range it {
		f, ok := flights[id]
		if !ok {
			return false, false
		}
		totalMinutes += f.DurationMinutes
		if unreliable(f) {
			unreliableMinutes += f.DurationMinutes
		}
	}

	if totalMinutes == 0 {
		return false, false
	}
	if unreliableMinutes == 0 {
		return true, true
	}

	fraction := float64(unreliableMinutes) / float64(totalMinutes)
	return fraction*100 <= tolerance, true
}
